package services

import (
	"math"
	"strconv"
	"strings"

	"sales-dashboard/internal/models"
)

// Derive coerces QuantityOrdered to a number and computes Sales for every row.
// Malformed quantities become missing values; Derive never fails.
func Derive(raw []models.RawOrder) []models.Order {
	orders := make([]models.Order, 0, len(raw))
	for _, r := range raw {
		o := models.Order{
			OrderID:        r.OrderID,
			Product:        r.Product,
			Quantity:       parseQuantity(r.QuantityOrdered),
			PriceEach:      copyFloat(r.PriceEach),
			OrderDate:      r.OrderDate,
			OrderYear:      r.OrderYear,
			OrderMonth:     r.OrderMonth,
			OrderMonthName: r.OrderMonthName,
			City:           r.City,
			Country:        r.Country,
		}
		if o.Quantity != nil && o.PriceEach != nil {
			sales := *o.Quantity * *o.PriceEach
			o.Sales = &sales
		}
		orders = append(orders, o)
	}
	return orders
}

func parseQuantity(value *string) *float64 {
	if value == nil {
		return nil
	}
	q, err := strconv.ParseFloat(strings.TrimSpace(*value), 64)
	if err != nil || math.IsNaN(q) || math.IsInf(q, 0) {
		return nil
	}
	return &q
}

func copyFloat(value *float64) *float64 {
	if value == nil || math.IsNaN(*value) {
		return nil
	}
	v := *value
	return &v
}
