package handlers

import (
	"net/url"
	"reflect"
	"testing"

	"sales-dashboard/internal/models"
)

func TestParseFilters(t *testing.T) {
	tests := []struct {
		query   string
		want    models.Filters
		wantErr bool
	}{
		{query: "", want: models.Filters{}},
		{query: "month=4&month=5", want: models.Filters{Months: []int{4, 5}}},
		{query: "city=New+York+City&city=%20Boston%20", want: models.Filters{Cities: []string{"New York City", "Boston"}}},
		{query: "city=", want: models.Filters{Cities: []string{}}},
		{query: "month=&city=X", want: models.Filters{Months: []int{}, Cities: []string{"X"}}},
		{query: "month=abc", wantErr: true},
		{query: "month=0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatal(err)
			}
			got, err := ParseFilters(q)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseFilters(%q) = %#v, want %#v", tt.query, got, tt.want)
			}
		})
	}
}

func TestEncodeFiltersRoundTrip(t *testing.T) {
	for _, f := range []models.Filters{
		{},
		{Months: []int{1, 12}},
		{Cities: []string{}},
		{Months: []int{}, Cities: []string{"San Francisco", "X&Y"}},
	} {
		q, err := url.ParseQuery(EncodeFilters(f))
		if err != nil {
			t.Fatal(err)
		}
		got, err := ParseFilters(q)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(got, f) {
			t.Errorf("round trip of %#v gave %#v", f, got)
		}
	}
}

func TestDashboardSignals(t *testing.T) {
	f, err := DashboardSignals{Months: []string{"4"}, Cities: []string{}}.Filters()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(f, models.Filters{Months: []int{4}, Cities: []string{}}) {
		t.Errorf("unexpected filters %#v", f)
	}

	f, err = DashboardSignals{}.Filters()
	if err != nil {
		t.Fatal(err)
	}
	if f.Months != nil || f.Cities != nil {
		t.Errorf("absent signals should leave filters unset, got %#v", f)
	}

	if got := SignalsFor(models.Filters{Months: []int{1}, Cities: []string{"X"}}).JSON(); got != `{"months":["1"],"cities":["X"]}` {
		t.Errorf("unexpected signals JSON %s", got)
	}
}
