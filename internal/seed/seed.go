// Package seed loads order records from CSV into the cleaned orders table.
package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/store"
)

const (
	defaultBatchSize = 5000
	defaultWorkers   = 8
)

var ErrMissingColumn = errors.New("missing required column")

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"01/02/06 15:04",
	"2006-01-02",
}

// Result summarises one import run.
type Result struct {
	Read     int64
	Imported int64
	Skipped  int64
}

type Option func(*Seeder)

func WithBatchSize(n int) Option {
	return func(s *Seeder) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

func WithWorkers(n int) Option {
	return func(s *Seeder) {
		if n > 0 {
			s.workers = n
		}
	}
}

type Seeder struct {
	dst       store.Importer
	logger    *slog.Logger
	batchSize int
	workers   int
}

func New(dst store.Importer, logger *slog.Logger, opts ...Option) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Seeder{
		dst:       dst,
		logger:    logger,
		batchSize: defaultBatchSize,
		workers:   defaultWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Import streams r batch by batch. Rows keep their file order; rows whose date
// cannot be parsed and repeated header lines are skipped.
func (s *Seeder) Import(ctx context.Context, r io.Reader) (Result, error) {
	var res Result

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return res, errors.New("empty file")
		}
		return res, fmt.Errorf("read header: %w", err)
	}
	cols, err := mapColumns(header)
	if err != nil {
		return res, err
	}

	batch := make([][]string, 0, s.batchSize)
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("read line %d: %w", res.Read+2, err)
		}
		res.Read++
		batch = append(batch, record)

		if len(batch) >= s.batchSize {
			if err := s.flush(ctx, cols, batch, &res); err != nil {
				return res, err
			}
			batch = make([][]string, 0, s.batchSize)
		}
	}

	if len(batch) > 0 {
		if err := s.flush(ctx, cols, batch, &res); err != nil {
			return res, err
		}
	}

	s.logger.Info("seed import finished", "read", res.Read, "imported", res.Imported, "skipped", res.Skipped)
	return res, nil
}

func (s *Seeder) flush(ctx context.Context, cols columns, batch [][]string, res *Result) error {
	parsed := make([]*models.RawOrder, len(batch))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, record := range batch {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if order, ok := cols.parse(record); ok {
				parsed[i] = &order
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	orders := make([]models.RawOrder, 0, len(parsed))
	for _, o := range parsed {
		if o != nil {
			orders = append(orders, *o)
		}
	}
	res.Skipped += int64(len(batch) - len(orders))

	if len(orders) == 0 {
		return nil
	}
	n, err := s.dst.ImportOrders(ctx, orders)
	if err != nil {
		return fmt.Errorf("import batch: %w", err)
	}
	res.Imported += n
	s.logger.Debug("seed batch imported", "rows", n, "total", res.Imported)
	return nil
}

// columns holds the index of each known header, -1 when absent.
type columns struct {
	orderID, product, quantity, price, date int
	year, month, monthName, city, country   int
}

func mapColumns(header []string) (columns, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	lookup := func(name string) int {
		if i, ok := index[name]; ok {
			return i
		}
		return -1
	}

	cols := columns{
		orderID:   lookup("Order ID"),
		product:   lookup("Product"),
		quantity:  lookup("Quantity Ordered"),
		price:     lookup("Price Each"),
		date:      lookup("Order Date"),
		year:      lookup("Order Year"),
		month:     lookup("Order Month"),
		monthName: lookup("Order Month Name"),
		city:      lookup("City"),
		country:   lookup("Country"),
	}

	required := map[string]int{
		"Order ID":         cols.orderID,
		"Product":          cols.product,
		"Quantity Ordered": cols.quantity,
		"Price Each":       cols.price,
		"Order Date":       cols.date,
		"City":             cols.city,
		"Country":          cols.country,
	}
	var missing []string
	for _, name := range store.Columns {
		if i, ok := required[name]; ok && i < 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return cols, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return cols, nil
}

func (c columns) parse(record []string) (models.RawOrder, bool) {
	field := func(i int) string {
		if i < 0 || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	if field(c.orderID) == "Order ID" {
		return models.RawOrder{}, false
	}

	orderDate, ok := parseDate(field(c.date))
	if !ok {
		return models.RawOrder{}, false
	}

	o := models.RawOrder{
		OrderID:        field(c.orderID),
		Product:        field(c.product),
		OrderDate:      orderDate,
		OrderYear:      orderDate.Year(),
		OrderMonth:     int(orderDate.Month()),
		OrderMonthName: orderDate.Month().String(),
		City:           field(c.city),
		Country:        field(c.country),
	}

	if q := field(c.quantity); q != "" {
		o.QuantityOrdered = &q
	}
	if p, err := strconv.ParseFloat(field(c.price), 64); err == nil {
		o.PriceEach = &p
	}
	if y, err := strconv.Atoi(field(c.year)); err == nil {
		o.OrderYear = y
	}
	if m, err := strconv.Atoi(field(c.month)); err == nil && m >= 1 && m <= 12 {
		o.OrderMonth = m
	}
	if name := field(c.monthName); name != "" {
		o.OrderMonthName = name
	}

	return o, true
}

func parseDate(v string) (time.Time, bool) {
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
