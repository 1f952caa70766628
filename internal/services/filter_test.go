package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sales-dashboard/internal/models"
)

func filterFixture() []models.Order {
	return Derive([]models.RawOrder{
		{OrderID: "1", Product: "A", QuantityOrdered: strPtr("1"), PriceEach: floatPtr(5), OrderYear: 2019, OrderMonth: 4, City: "Boston"},
		{OrderID: "2", Product: "B", QuantityOrdered: strPtr("1"), PriceEach: floatPtr(5), OrderYear: 2019, OrderMonth: 5, City: "Austin"},
		{OrderID: "3", Product: "C", QuantityOrdered: strPtr("1"), PriceEach: floatPtr(5), OrderYear: 2020, OrderMonth: 1, City: "Boston"},
		{OrderID: "4", Product: "D", QuantityOrdered: strPtr("1"), PriceEach: floatPtr(5), OrderYear: 2019, OrderMonth: 4, City: "Dallas"},
	})
}

func TestFilter_DefaultsReturnEveryRow(t *testing.T) {
	orders := filterFixture()
	assert.Equal(t, orders, Filter(orders, models.Filters{}))

	opts := Options(orders)
	full := models.Filters{Months: opts.Months, Cities: opts.Cities}
	assert.Equal(t, orders, Filter(orders, full))
}

func TestFilter_EmptySelectionYieldsNothing(t *testing.T) {
	orders := filterFixture()

	got := Filter(orders, models.Filters{Cities: []string{}})
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got = Filter(orders, models.Filters{Months: []int{}})
	assert.Empty(t, got)
}

func TestFilter_ConjunctionPreservesOrder(t *testing.T) {
	orders := filterFixture()

	got := Filter(orders, models.Filters{Months: []int{4, 1}, Cities: []string{"Dallas", "Boston"}})
	ids := make([]string, 0, len(got))
	for _, o := range got {
		ids = append(ids, o.OrderID)
	}
	assert.Equal(t, []string{"1", "3", "4"}, ids)

	got = Filter(orders, models.Filters{Months: []int{5}, Cities: []string{"Boston"}})
	assert.Empty(t, got)
}

func TestOptions_SortedDistinct(t *testing.T) {
	opts := Options(filterFixture())
	assert.Equal(t, []int{2019, 2020}, opts.Years)
	assert.Equal(t, []int{1, 4, 5}, opts.Months)
	assert.Equal(t, []string{"Austin", "Boston", "Dallas"}, opts.Cities)
}

func TestResolve(t *testing.T) {
	opts := models.FilterOptions{Months: []int{1, 2}, Cities: []string{"X"}}

	got := Resolve(models.Filters{}, opts)
	assert.Equal(t, []int{1, 2}, got.Months)
	assert.Equal(t, []string{"X"}, got.Cities)

	got = Resolve(models.Filters{Months: []int{2}, Cities: []string{}}, opts)
	assert.Equal(t, []int{2}, got.Months)
	assert.Equal(t, []string{}, got.Cities)

	got = Resolve(models.Filters{}, models.FilterOptions{})
	assert.NotNil(t, got.Months)
	assert.NotNil(t, got.Cities)
}
