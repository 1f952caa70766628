package charts

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func sampleDashboard() *models.Dashboard {
	orders := services.Derive([]models.RawOrder{
		{OrderID: "1", Product: "iPhone", QuantityOrdered: strPtr("1"), PriceEach: floatPtr(700), City: "Boston", Country: "USA",
			OrderYear: 2019, OrderMonth: 4, OrderMonthName: "April"},
		{OrderID: "2", Product: "Lightning Cable", QuantityOrdered: strPtr("3"), PriceEach: floatPtr(14.95), City: "Toronto", Country: "Canada",
			OrderYear: 2019, OrderMonth: 5, OrderMonthName: "May"},
	})
	return &models.Dashboard{
		TopProducts:    services.TopProductsByQuantity(orders, services.TopN),
		ProductRevenue: services.TopProductsByRevenue(orders, services.TopN),
		TopCities:      services.TopCitiesByRevenue(orders, services.TopN),
		CountryShares:  services.CountrySalesShares(orders),
		MonthlyTrend:   services.MonthlyTrend(orders),
	}
}

func TestRender_EveryKind(t *testing.T) {
	r := NewRenderer(nil)
	d := sampleDashboard()

	for _, kind := range Kinds {
		t.Run(string(kind), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, r.Render(&buf, kind, d))
			assert.Contains(t, buf.String(), "<svg")
			assert.Contains(t, buf.String(), kind.Title())
		})
	}
}

func TestRender_EmptyDataUsesPlaceholder(t *testing.T) {
	r := NewRenderer(nil)
	empty := &models.Dashboard{}

	for _, kind := range Kinds {
		t.Run(string(kind), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, r.Render(&buf, kind, empty))
			assert.Contains(t, buf.String(), "<svg")
			assert.Contains(t, buf.String(), NoDataMessage)
		})
	}
}

func TestRender_AllZeroBarsUsePlaceholder(t *testing.T) {
	var buf bytes.Buffer
	d := &models.Dashboard{ProductRevenue: []models.KeyValue{{Key: "A", Value: 0}}}
	require.NoError(t, NewRenderer(nil).Render(&buf, ProductRevenue, d))
	assert.Contains(t, buf.String(), NoDataMessage)
}

func TestRender_UnknownKind(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, NewRenderer(nil).Render(&buf, Kind("radar"), &models.Dashboard{}))
	assert.Zero(t, buf.Len())
}

func TestParseKind(t *testing.T) {
	kind, ok := ParseKind("country-sales")
	assert.True(t, ok)
	assert.Equal(t, CountrySales, kind)

	_, ok = ParseKind("country-sales.svg")
	assert.False(t, ok)
}

func TestNiceMax(t *testing.T) {
	tests := map[float64]float64{
		0:      1,
		0.3:    0.5,
		7:      10,
		120:    200,
		450:    500,
		612345: 1000000,
	}
	for in, want := range tests {
		assert.InDelta(t, want, niceMax(in), 1e-9, "niceMax(%v)", in)
	}
}
