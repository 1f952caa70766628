package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"sales-dashboard/internal/models"
)

const sqliteOrdersQuery = `
	SELECT CAST("Order ID" AS TEXT), "Product", CAST("Quantity Ordered" AS TEXT), "Price Each", "Order Date",
	       "Order Year", "Order Month", "Order Month Name", "City", "Country"
	FROM cleaned`

const sqliteTimeLayout = "2006-01-02 15:04:05"

var sqliteDateLayouts = []string{
	sqliteTimeLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// SQLite reads orders from a local database file, handy for development and tests.
type SQLite struct {
	db   *sql.DB
	path string
}

func NewSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite: %w", ErrSourceUnavailable, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping: %w", ErrSourceUnavailable, err)
	}

	return &SQLite{db: db, path: path}, nil
}

func (s *SQLite) FetchOrders(ctx context.Context) ([]models.RawOrder, error) {
	rows, err := s.db.QueryContext(ctx, sqliteOrdersQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	defer rows.Close()

	var orders []models.RawOrder
	for rows.Next() {
		var (
			o        models.RawOrder
			quantity sql.NullString
			price    sql.NullFloat64
			date     string
		)
		if err := rows.Scan(
			&o.OrderID,
			&o.Product,
			&quantity,
			&price,
			&date,
			&o.OrderYear,
			&o.OrderMonth,
			&o.OrderMonthName,
			&o.City,
			&o.Country,
		); err != nil {
			return nil, fmt.Errorf("%w: scan row: %w", ErrQuery, err)
		}

		if quantity.Valid {
			o.QuantityOrdered = &quantity.String
		}
		if price.Valid {
			o.PriceEach = &price.Float64
		}
		o.OrderDate, err = parseSQLiteDate(date)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrQuery, err)
		}

		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}

	return orders, nil
}

func (s *SQLite) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	return nil
}

func (s *SQLite) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

func (s *SQLite) ImportOrders(ctx context.Context, orders []models.RawOrder) (int64, error) {
	quoted := make([]string, len(Columns))
	for i, c := range Columns {
		quoted[i] = `"` + c + `"`
	}
	stmtSQL := fmt.Sprintf("INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		ordersTable, strings.Join(quoted, ", "))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	var n int64
	for _, o := range orders {
		if _, err := stmt.ExecContext(ctx,
			o.OrderID,
			o.Product,
			o.QuantityOrdered,
			o.PriceEach,
			o.OrderDate.UTC().Format(sqliteTimeLayout),
			o.OrderYear,
			o.OrderMonth,
			o.OrderMonthName,
			o.City,
			o.Country,
		); err != nil {
			return n, fmt.Errorf("insert order %s: %w", o.OrderID, err)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return n, nil
}

func parseSQLiteDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range sqliteDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse order date %q", value)
}
