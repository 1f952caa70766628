// Package store loads order line items from the cleaned orders table.
package store

import (
	"context"
	"errors"

	"sales-dashboard/internal/models"
)

var (
	// ErrSourceUnavailable means the store could not be reached.
	ErrSourceUnavailable = errors.New("order source unavailable")
	// ErrQuery means the projection query or row decoding failed.
	ErrQuery = errors.New("order query failed")
)

const ordersTable = "cleaned"

// Columns is the fixed projection, in select order.
var Columns = []string{
	"Order ID",
	"Product",
	"Quantity Ordered",
	"Price Each",
	"Order Date",
	"Order Year",
	"Order Month",
	"Order Month Name",
	"City",
	"Country",
}

// Source is a read-only order store.
type Source interface {
	FetchOrders(ctx context.Context) ([]models.RawOrder, error)
	Ping(ctx context.Context) error
	Close()
}

// Importer appends order rows to the cleaned table. Used by the seed tool only.
type Importer interface {
	ImportOrders(ctx context.Context, orders []models.RawOrder) (int64, error)
}
