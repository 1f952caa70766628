package services

import (
	"fmt"
	"math"

	"sales-dashboard/internal/models"
)

// LabelRadius is the distance of pie labels from the centre, in chart units.
const LabelRadius = 1.2

// CountrySalesShares sums Sales per country, sorts descending and lays out pie slices.
// Angles start at 0 rad and accumulate in sorted order; each label sits on the bisector
// of its slice. With zero total revenue every share and angle is zero.
func CountrySalesShares(orders []models.Order) []models.CountryShare {
	groups := topByValue(groupSum(orders, countryKey, salesOf), -1)

	var total float64
	for _, g := range groups {
		total += g.Value
	}

	shares := make([]models.CountryShare, 0, len(groups))
	var cumulative float64
	for _, g := range groups {
		s := models.CountryShare{Country: g.Key, Sales: g.Value}
		if total > 0 {
			s.Percentage = g.Value / total * 100
			s.Angle = g.Value / total * 2 * math.Pi
		}
		cumulative += s.Angle
		s.MidAngle = cumulative - s.Angle/2
		s.X = math.Cos(s.MidAngle) * LabelRadius
		s.Y = math.Sin(s.MidAngle) * LabelRadius
		s.Label = fmt.Sprintf("%s: %s (%.1f%%)", s.Country, FormatWholeCurrency(s.Sales), s.Percentage)
		shares = append(shares, s)
	}
	return shares
}
