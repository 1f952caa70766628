package services

import (
	"cmp"
	"fmt"
	"slices"

	"sales-dashboard/internal/models"
)

const TopN = 10

// groupSum sums value(o) per key(o). Missing values are skipped, so a group made only
// of missing values sums to zero but is still reported.
func groupSum(orders []models.Order, key func(models.Order) string, value func(models.Order) *float64) []models.KeyValue {
	index := make(map[string]int)
	groups := make([]models.KeyValue, 0)
	for _, o := range orders {
		k := key(o)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, models.KeyValue{Key: k})
		}
		if v := value(o); v != nil {
			groups[i].Value += *v
		}
	}
	return groups
}

// topByValue sorts descending by value, ties broken by key ascending, and keeps n.
func topByValue(groups []models.KeyValue, n int) []models.KeyValue {
	slices.SortStableFunc(groups, func(a, b models.KeyValue) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	if n >= 0 && len(groups) > n {
		groups = groups[:n]
	}
	return groups
}

func productKey(o models.Order) string   { return o.Product }
func cityKey(o models.Order) string      { return o.City }
func countryKey(o models.Order) string   { return o.Country }
func quantityOf(o models.Order) *float64 { return o.Quantity }
func salesOf(o models.Order) *float64    { return o.Sales }

func TopProductsByQuantity(orders []models.Order, n int) []models.KeyValue {
	return topByValue(groupSum(orders, productKey, quantityOf), n)
}

func TopProductsByRevenue(orders []models.Order, n int) []models.KeyValue {
	return topByValue(groupSum(orders, productKey, salesOf), n)
}

func TopCitiesByRevenue(orders []models.Order, n int) []models.KeyValue {
	return topByValue(groupSum(orders, cityKey, salesOf), n)
}

type monthKey struct {
	year  int
	month int
	name  string
}

// MonthlyTrend sums Sales per calendar month in chronological order.
func MonthlyTrend(orders []models.Order) []models.MonthlySales {
	index := make(map[monthKey]int)
	result := make([]models.MonthlySales, 0)
	for _, o := range orders {
		k := monthKey{year: o.OrderYear, month: o.OrderMonth, name: o.OrderMonthName}
		i, ok := index[k]
		if !ok {
			i = len(result)
			index[k] = i
			result = append(result, models.MonthlySales{
				Year:      o.OrderYear,
				Month:     o.OrderMonth,
				MonthName: o.OrderMonthName,
				Label:     fmt.Sprintf("%d - %s", o.OrderYear, o.OrderMonthName),
			})
		}
		if o.Sales != nil {
			result[i].Sales += *o.Sales
		}
	}

	slices.SortFunc(result, func(a, b models.MonthlySales) int {
		if c := cmp.Compare(a.Year, b.Year); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Month, b.Month); c != 0 {
			return c
		}
		return cmp.Compare(a.MonthName, b.MonthName)
	})
	return result
}

// ComputeKPIs reduces the filtered subset to the three headline metrics.
func ComputeKPIs(orders []models.Order) models.KPIs {
	orderIDs := make(map[string]struct{})
	cities := make(map[string]struct{})
	var revenue float64
	for _, o := range orders {
		if o.OrderID != "" {
			orderIDs[o.OrderID] = struct{}{}
		}
		cities[o.City] = struct{}{}
		if o.Sales != nil {
			revenue += *o.Sales
		}
	}

	return models.KPIs{
		Orders:         len(orderIDs),
		Revenue:        revenue,
		Cities:         len(cities),
		Rows:           len(orders),
		OrdersDisplay:  FormatCount(len(orderIDs)),
		RevenueDisplay: FormatCurrency(revenue),
	}
}

// Preview returns at most n leading rows of the subset.
func Preview(orders []models.Order, n int) []models.Order {
	n = max(0, min(n, len(orders)))
	preview := make([]models.Order, n)
	copy(preview, orders[:n])
	return preview
}
