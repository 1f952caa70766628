// Package templates holds the dashboard page and the fragments the SSE
// endpoint patches into it. Every fragment's root element carries a stable id.
package templates

//go:generate go run github.com/a-h/templ/cmd/templ@v0.3.943 generate

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"

	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

const (
	Title    = "Sales Dashboard"
	Subtitle = "Gain insights into product performance across time and geography."
	Footnote = "Data is filtered based on the selected month(s) and city/cities."

	DatastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0-RC.5/bundles/datastar.js"

	previewDateLayout = "2006-01-02 15:04"
)

type ChartView struct {
	Kind  charts.Kind
	Title string
	URL   string
	Wide  bool
}

// View is the data every fragment renders from. Query is the encoded filter
// selection appended to chart and export links.
type View struct {
	Title     string
	Subtitle  string
	Footnote  string
	Script    string
	Dashboard *models.Dashboard
	Query     string
	Signals   string
	Charts    []ChartView
}

func NewView(d *models.Dashboard, query, signals string) View {
	suffix := ""
	if query != "" {
		suffix = "?" + query
	}

	views := make([]ChartView, 0, len(charts.Kinds))
	for _, kind := range charts.Kinds {
		views = append(views, ChartView{
			Kind:  kind,
			Title: kind.Title(),
			URL:   "/charts/" + string(kind) + ".svg" + suffix,
			Wide:  kind == charts.MonthlySales,
		})
	}

	return View{
		Title:     Title,
		Subtitle:  Subtitle,
		Footnote:  Footnote,
		Script:    DatastarScript,
		Dashboard: d,
		Query:     suffix,
		Signals:   signals,
		Charts:    views,
	}
}

func monthName(m int) string {
	if m < 1 || m > 12 {
		return "Unknown"
	}
	return time.Month(m).String()
}

func number(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func money(v *float64) string {
	if v == nil {
		return ""
	}
	return services.FormatCurrency(*v)
}

// RenderString renders c into a string, for SSE element patches.
func RenderString(ctx context.Context, c templ.Component) (string, error) {
	var sb strings.Builder
	if err := c.Render(ctx, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}
