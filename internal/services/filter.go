package services

import (
	"slices"

	"sales-dashboard/internal/models"
)

// Filter keeps the rows whose month and city are both selected, in input order.
func Filter(orders []models.Order, filters models.Filters) []models.Order {
	var (
		months map[int]struct{}
		cities map[string]struct{}
	)
	if filters.Months != nil {
		months = make(map[int]struct{}, len(filters.Months))
		for _, m := range filters.Months {
			months[m] = struct{}{}
		}
	}
	if filters.Cities != nil {
		cities = make(map[string]struct{}, len(filters.Cities))
		for _, c := range filters.Cities {
			cities[c] = struct{}{}
		}
	}

	result := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if months != nil {
			if _, ok := months[o.OrderMonth]; !ok {
				continue
			}
		}
		if cities != nil {
			if _, ok := cities[o.City]; !ok {
				continue
			}
		}
		result = append(result, o)
	}
	return result
}

// Options lists the sorted distinct values offered by the filter widgets.
func Options(orders []models.Order) models.FilterOptions {
	years := make(map[int]struct{})
	months := make(map[int]struct{})
	cities := make(map[string]struct{})
	for _, o := range orders {
		years[o.OrderYear] = struct{}{}
		months[o.OrderMonth] = struct{}{}
		cities[o.City] = struct{}{}
	}

	return models.FilterOptions{
		Years:  sortedKeys(years),
		Months: sortedKeys(months),
		Cities: sortedKeys(cities),
	}
}

// Resolve replaces unset selections with the full universe so callers can echo
// the effective selection back to the user.
func Resolve(filters models.Filters, options models.FilterOptions) models.Filters {
	resolved := filters
	if resolved.Months == nil {
		resolved.Months = slices.Clone(options.Months)
	}
	if resolved.Cities == nil {
		resolved.Cities = slices.Clone(options.Cities)
	}
	if resolved.Months == nil {
		resolved.Months = []int{}
	}
	if resolved.Cities == nil {
		resolved.Cities = []string{}
	}
	return resolved
}

func sortedKeys[K int | string](set map[K]struct{}) []K {
	keys := make([]K, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
