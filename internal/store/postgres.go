package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
)

const postgresOrdersQuery = `
	SELECT CAST("Order ID" AS TEXT), "Product", CAST("Quantity Ordered" AS TEXT), "Price Each", "Order Date",
	       "Order Year", "Order Month", "Order Month Name", "City", "Country"
	FROM cleaned`

// Postgres reads orders through a pgx pool held for the process lifetime.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres opens the pool and verifies the server is reachable.
func NewPostgres(ctx context.Context, url string, maxConns int) (*Postgres, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}

	if maxConns > 0 {
		poolConfig.MaxConns = int32(maxConns)
	}
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute
	poolConfig.ConnConfig.Tracer = observability.PGXTracer{}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: create pool: %w", ErrSourceUnavailable, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping: %w", ErrSourceUnavailable, err)
	}

	return &Postgres{pool: pool}, nil
}

func (p *Postgres) FetchOrders(ctx context.Context) ([]models.RawOrder, error) {
	rows, err := p.pool.Query(ctx, postgresOrdersQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	defer rows.Close()

	var orders []models.RawOrder
	for rows.Next() {
		var o models.RawOrder
		if err := rows.Scan(
			&o.OrderID,
			&o.Product,
			&o.QuantityOrdered,
			&o.PriceEach,
			&o.OrderDate,
			&o.OrderYear,
			&o.OrderMonth,
			&o.OrderMonthName,
			&o.City,
			&o.Country,
		); err != nil {
			return nil, fmt.Errorf("%w: scan row: %w", ErrQuery, err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}

	return orders, nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	if err := p.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	return nil
}

func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// ImportOrders bulk-loads rows with COPY.
func (p *Postgres) ImportOrders(ctx context.Context, orders []models.RawOrder) (int64, error) {
	rows := make([][]any, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []any{
			o.OrderID,
			o.Product,
			o.QuantityOrdered,
			o.PriceEach,
			o.OrderDate,
			o.OrderYear,
			o.OrderMonth,
			o.OrderMonthName,
			o.City,
			o.Country,
		})
	}

	n, err := p.pool.CopyFrom(ctx, pgx.Identifier{ordersTable}, Columns, pgx.CopyFromRows(rows))
	if err != nil {
		return n, fmt.Errorf("copy orders: %w", err)
	}
	return n, nil
}
