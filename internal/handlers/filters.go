package handlers

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
)

const (
	monthParam = "month"
	cityParam  = "city"
)

// ParseFilters reads the repeatable month and city query parameters. An absent
// parameter leaves that dimension unfiltered; a parameter present with only
// empty values selects nothing.
func ParseFilters(q url.Values) (models.Filters, error) {
	var f models.Filters

	if raw, ok := q[monthParam]; ok {
		f.Months = make([]int, 0, len(raw))
		for _, v := range raw {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			m, err := strconv.Atoi(v)
			if err != nil || m < 1 || m > 12 {
				return models.Filters{}, errors.Validation(fmt.Sprintf("month must be an integer between 1 and 12, got %q", v))
			}
			f.Months = append(f.Months, m)
		}
	}

	if raw, ok := q[cityParam]; ok {
		f.Cities = make([]string, 0, len(raw))
		for _, v := range raw {
			if v = strings.TrimSpace(v); v != "" {
				f.Cities = append(f.Cities, v)
			}
		}
	}

	return f, nil
}

// EncodeFilters is the inverse of ParseFilters.
func EncodeFilters(f models.Filters) string {
	q := url.Values{}
	if f.Months != nil {
		if len(f.Months) == 0 {
			q[monthParam] = []string{""}
		}
		for _, m := range f.Months {
			q.Add(monthParam, strconv.Itoa(m))
		}
	}
	if f.Cities != nil {
		if len(f.Cities) == 0 {
			q[cityParam] = []string{""}
		}
		for _, c := range f.Cities {
			q.Add(cityParam, c)
		}
	}
	return q.Encode()
}

// DashboardSignals is the Datastar signal set bound to the filter widgets.
// Multi-selects bind option values, so months arrive as strings.
type DashboardSignals struct {
	Months []string `json:"months"`
	Cities []string `json:"cities"`
}

func (s DashboardSignals) Filters() (models.Filters, error) {
	q := url.Values{}
	if s.Months != nil {
		q[monthParam] = append([]string{}, s.Months...)
	}
	if s.Cities != nil {
		q[cityParam] = append([]string{}, s.Cities...)
	}
	return ParseFilters(q)
}

// SignalsFor seeds the page signals from the effective selection.
func SignalsFor(f models.Filters) DashboardSignals {
	s := DashboardSignals{
		Months: make([]string, 0, len(f.Months)),
		Cities: make([]string, 0, len(f.Cities)),
	}
	for _, m := range f.Months {
		s.Months = append(s.Months, strconv.Itoa(m))
	}
	s.Cities = append(s.Cities, f.Cities...)
	return s
}

func (s DashboardSignals) JSON() string {
	b, err := json.Marshal(s)
	if err != nil {
		return "{}"
	}
	return string(b)
}
