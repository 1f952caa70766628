package templates

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-dashboard/internal/models"
)

func floatPtr(f float64) *float64 { return &f }

func sampleView() View {
	d := &models.Dashboard{
		Filters: models.Filters{Months: []int{4}, Cities: []string{"Boston"}},
		Options: models.FilterOptions{Years: []int{2019}, Months: []int{4, 5}, Cities: []string{"Austin", "Boston"}},
		KPIs:    models.KPIs{Orders: 1234, Cities: 1, OrdersDisplay: "1,234", RevenueDisplay: "$5,678.90"},
		Preview: []models.Order{{
			OrderID: "176558", Product: "<b>Cable</b>", Quantity: floatPtr(2), PriceEach: floatPtr(11.95), Sales: floatPtr(23.9),
			OrderDate: time.Date(2019, 4, 19, 8, 46, 0, 0, time.UTC), City: "Boston", Country: "USA",
		}},
	}
	return NewView(d, "city=Boston&month=4", `{"months":["4"],"cities":["Boston"]}`)
}

func TestPage(t *testing.T) {
	html, err := RenderString(context.Background(), Page(sampleView()))
	require.NoError(t, err)

	for _, want := range []string{
		"<title>Sales Dashboard</title>",
		Subtitle,
		`id="kpis"`, `id="charts"`, `id="preview"`, `id="banner"`, `id="exports"`,
		"1,234", "$5,678.90",
		`<option value="4" selected>April</option>`,
		`<option value="5">May</option>`,
		`<option value="Austin">Austin</option>`,
		"/charts/top-products.svg?city=Boston&amp;month=4",
		"/export/orders.xlsx?city=Boston&amp;month=4",
		"data-bind-months",
		`data-signals="{&#34;months&#34;:[&#34;4&#34;],&#34;cities&#34;:[&#34;Boston&#34;]}"`,
		`<figure class="chart wide"><h3>Monthly Sales Trend</h3>`,
		"$23.90",
		Footnote,
	} {
		assert.Contains(t, html, want)
	}
	assert.NotContains(t, html, "<b>Cable</b>")
	assert.Contains(t, html, "&lt;b&gt;Cable&lt;/b&gt;")
}

func TestNewView_NoQuery(t *testing.T) {
	v := NewView(&models.Dashboard{}, "", "{}")
	require.Len(t, v.Charts, 5)
	assert.Equal(t, "/charts/top-products.svg", v.Charts[0].URL)
	assert.Equal(t, "", v.Query)
}

func TestFragments(t *testing.T) {
	v := sampleView()

	kpis, err := RenderString(context.Background(), KPIs(v))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(kpis, `<section id="kpis"`))

	empty := NewView(&models.Dashboard{}, "", "{}")
	preview, err := RenderString(context.Background(), Preview(empty))
	require.NoError(t, err)
	assert.Contains(t, preview, "No rows match the current selection.")

	banner, err := RenderString(context.Background(), ErrorBanner("Data source unavailable"))
	require.NoError(t, err)
	assert.Contains(t, banner, `role="alert"`)
	assert.Contains(t, banner, "Data source unavailable")

	cleared, err := RenderString(context.Background(), ErrorBanner(""))
	require.NoError(t, err)
	assert.Equal(t, `<div id="banner"></div>`, cleared)
}

func TestFilters_NothingSelected(t *testing.T) {
	d := &models.Dashboard{
		Filters: models.Filters{Months: []int{}, Cities: []string{}},
		Options: models.FilterOptions{Months: []int{1, 13}, Cities: []string{"Austin"}},
	}

	html, err := RenderString(context.Background(), Filters(d))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(html, `<aside id="filters">`))
	assert.Contains(t, html, `<option value="1">January</option><option value="13">Unknown</option>`)
	assert.Contains(t, html, `<option value="Austin">Austin</option>`)
	assert.NotContains(t, html, "selected")
}

func TestCharts_OnlyTrendIsWide(t *testing.T) {
	html, err := RenderString(context.Background(), Charts(NewView(&models.Dashboard{}, "", "{}")))
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(html, `class="chart wide"`))
	assert.Equal(t, 4, strings.Count(html, `class="chart"`))
	assert.Contains(t, html, `<img src="/charts/top-products.svg" alt="Top 10 Products Sold" loading="lazy">`)
}
