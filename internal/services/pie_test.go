package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-dashboard/internal/models"
)

func countryOrders(sales map[string]float64) []models.Order {
	raw := make([]models.RawOrder, 0, len(sales))
	for country, amount := range sales {
		raw = append(raw, models.RawOrder{Country: country, QuantityOrdered: strPtr("1"), PriceEach: floatPtr(amount)})
	}
	return Derive(raw)
}

func TestCountrySalesShares_PercentagesSumToHundred(t *testing.T) {
	shares := CountrySalesShares(countryOrders(map[string]float64{"USA": 123.45, "Canada": 67.8, "Mexico": 9.01}))

	var total float64
	for _, s := range shares {
		total += s.Percentage
	}
	assert.InDelta(t, 100, total, 1e-6)
	assert.Equal(t, []string{"USA", "Canada", "Mexico"}, []string{shares[0].Country, shares[1].Country, shares[2].Country})
}

func TestCountrySalesShares_Geometry(t *testing.T) {
	shares := CountrySalesShares(countryOrders(map[string]float64{"USA": 300, "Canada": 100}))
	require.Len(t, shares, 2)

	assert.InDelta(t, 1.5*math.Pi, shares[0].Angle, 1e-9)
	assert.InDelta(t, 0.75*math.Pi, shares[0].MidAngle, 1e-9)
	assert.InDelta(t, 0.5*math.Pi, shares[1].Angle, 1e-9)
	assert.InDelta(t, 1.75*math.Pi, shares[1].MidAngle, 1e-9)

	assert.InDelta(t, LabelRadius*math.Cos(0.75*math.Pi), shares[0].X, 1e-9)
	assert.InDelta(t, LabelRadius*math.Sin(0.75*math.Pi), shares[0].Y, 1e-9)
	assert.InDelta(t, LabelRadius, math.Hypot(shares[1].X, shares[1].Y), 1e-9)

	assert.Equal(t, "USA: $300 (75.0%)", shares[0].Label)
	assert.Equal(t, "Canada: $100 (25.0%)", shares[1].Label)
}

func TestCountrySalesShares_SingleCountryFullCircle(t *testing.T) {
	shares := CountrySalesShares(countryOrders(map[string]float64{"USA": 50}))
	require.Len(t, shares, 1)

	assert.InDelta(t, 2*math.Pi, shares[0].Angle, 1e-9)
	assert.InDelta(t, math.Pi, shares[0].MidAngle, 1e-9)
	assert.InDelta(t, -LabelRadius, shares[0].X, 1e-9)
	assert.InDelta(t, 0, shares[0].Y, 1e-9)
}

func TestCountrySalesShares_ZeroTotal(t *testing.T) {
	orders := Derive([]models.RawOrder{
		{Country: "USA", QuantityOrdered: strPtr("abc"), PriceEach: floatPtr(10)},
		{Country: "Canada", QuantityOrdered: strPtr("0"), PriceEach: floatPtr(10)},
	})

	shares := CountrySalesShares(orders)
	require.Len(t, shares, 2)
	for _, s := range shares {
		assert.Zero(t, s.Percentage)
		assert.Zero(t, s.Angle)
		assert.False(t, math.IsNaN(s.X) || math.IsNaN(s.Y))
	}
	assert.Equal(t, "Canada", shares[0].Country)
}
