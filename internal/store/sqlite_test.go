package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-dashboard/internal/models"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func newMigratedSQLite(t *testing.T) *SQLite {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orders.db")

	db, err := NewSQLite(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.Migrate())
	return db
}

func TestSQLite_ImportAndFetchPreservesOrder(t *testing.T) {
	db := newMigratedSQLite(t)
	ctx := context.Background()

	orders := []models.RawOrder{
		{OrderID: "176558", Product: "USB-C Charging Cable", QuantityOrdered: strPtr("2"), PriceEach: floatPtr(11.95),
			OrderDate: time.Date(2019, 4, 19, 8, 46, 0, 0, time.UTC), OrderYear: 2019, OrderMonth: 4, OrderMonthName: "April",
			City: "Dallas", Country: "USA"},
		{OrderID: "176559", Product: "Bose SoundSport Headphones", QuantityOrdered: strPtr("abc"), PriceEach: floatPtr(99.99),
			OrderDate: time.Date(2019, 4, 7, 22, 30, 0, 0, time.UTC), OrderYear: 2019, OrderMonth: 4, OrderMonthName: "April",
			City: "Boston", Country: "USA"},
		{OrderID: "176560", Product: "Google Phone", QuantityOrdered: nil, PriceEach: nil,
			OrderDate: time.Date(2019, 4, 12, 14, 38, 0, 0, time.UTC), OrderYear: 2019, OrderMonth: 4, OrderMonthName: "April",
			City: "Los Angeles", Country: "USA"},
	}

	n, err := db.ImportOrders(ctx, orders)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	got, err := db.FetchOrders(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)

	for i := range orders {
		assert.Equal(t, orders[i].OrderID, got[i].OrderID)
		assert.Equal(t, orders[i].Product, got[i].Product)
		assert.Equal(t, orders[i].City, got[i].City)
		assert.True(t, orders[i].OrderDate.Equal(got[i].OrderDate), "order date row %d", i)
	}

	require.NotNil(t, got[0].QuantityOrdered)
	assert.Equal(t, "2", *got[0].QuantityOrdered)
	require.NotNil(t, got[1].QuantityOrdered)
	assert.Equal(t, "abc", *got[1].QuantityOrdered)
	assert.Nil(t, got[2].QuantityOrdered)
	assert.Nil(t, got[2].PriceEach)
	assert.InDelta(t, 11.95, *got[0].PriceEach, 1e-9)
}

func TestSQLite_MigrateIsIdempotent(t *testing.T) {
	db := newMigratedSQLite(t)
	assert.NoError(t, db.Migrate())
}

func TestSQLite_QueryErrorWithoutSchema(t *testing.T) {
	db, err := NewSQLite(context.Background(), filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.FetchOrders(context.Background())
	assert.ErrorIs(t, err, ErrQuery)
}

func TestSQLite_UnreachablePath(t *testing.T) {
	_, err := NewSQLite(context.Background(), filepath.Join(t.TempDir(), "missing", "dir", "orders.db"))
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestParseSQLiteDate(t *testing.T) {
	for _, value := range []string{"2019-04-19 08:46:00", "2019-04-19T08:46:00Z", "2019-04-19"} {
		_, err := parseSQLiteDate(value)
		assert.NoError(t, err, value)
	}
	_, err := parseSQLiteDate("19/04/2019")
	assert.Error(t, err)
}
