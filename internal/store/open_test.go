package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-dashboard/internal/config"
)

func TestOpen_SQLiteWithMigrations(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "orders.db")

	source, err := Open(ctx, config.DatabaseConfig{Driver: config.DriverSQLite, URL: path, Migrate: true})
	require.NoError(t, err)
	defer source.Close()

	assert.IsType(t, &SQLite{}, source)
	orders, err := source.FetchOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{Driver: "mysql", URL: "x"})
	assert.ErrorContains(t, err, "unsupported database driver")
}
