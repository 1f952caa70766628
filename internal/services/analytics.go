package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/store"
)

const previewRows = 20

// OrderLoader is the memoized data loader the pipeline reads from.
type OrderLoader interface {
	Load(ctx context.Context) (*store.Snapshot, error)
	Invalidate()
	Ping(ctx context.Context) error
}

// RenderObserver receives the outcome and duration of every render pass.
type RenderObserver func(result string, duration time.Duration)

// Analytics runs Load -> Derive -> Filter -> Aggregate for each request.
// It holds no state of its own beyond the loader.
type Analytics struct {
	loader  OrderLoader
	logger  *slog.Logger
	observe RenderObserver
	now     func() time.Time
}

func NewAnalytics(loader OrderLoader, logger *slog.Logger) *Analytics {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analytics{
		loader:  loader,
		logger:  logger,
		observe: func(string, time.Duration) {},
		now:     time.Now,
	}
}

func (a *Analytics) SetRenderObserver(observer RenderObserver) {
	if observer != nil {
		a.observe = observer
	}
}

// Render computes the full dashboard model for the given selection. A loader
// failure fails the whole pass.
func (a *Analytics) Render(ctx context.Context, filters models.Filters) (*models.Dashboard, error) {
	ctx, span := observability.StartSpan(ctx, "dashboard.render")
	defer span.End()
	start := a.now()

	snap, all, err := a.derived(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")
		a.observe("error", a.now().Sub(start))
		return nil, err
	}

	options := Options(all)
	filtered := Filter(all, filters)

	dashboard := &models.Dashboard{
		Filters:        Resolve(filters, options),
		Options:        options,
		KPIs:           ComputeKPIs(filtered),
		TopProducts:    TopProductsByQuantity(filtered, TopN),
		ProductRevenue: TopProductsByRevenue(filtered, TopN),
		TopCities:      TopCitiesByRevenue(filtered, TopN),
		CountryShares:  CountrySalesShares(filtered),
		MonthlyTrend:   MonthlyTrend(filtered),
		Preview:        Preview(filtered, previewRows),
		LoadedAt:       snap.LoadedAt,
		RenderedAt:     a.now(),
	}

	span.SetAttributes(
		attribute.Int("dashboard.rows.total", len(all)),
		attribute.Int("dashboard.rows.filtered", len(filtered)),
	)
	duration := a.now().Sub(start)
	a.observe("ok", duration)
	a.logger.DebugContext(ctx, "dashboard rendered",
		"rows", len(all),
		"filtered", len(filtered),
		"duration", duration,
	)

	return dashboard, nil
}

// FilteredOrders returns the whole filtered subset and the effective selection.
func (a *Analytics) FilteredOrders(ctx context.Context, filters models.Filters) ([]models.Order, models.Filters, error) {
	ctx, span := observability.StartSpan(ctx, "dashboard.filter")
	defer span.End()

	_, all, err := a.derived(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, filters, err
	}
	return Filter(all, filters), Resolve(filters, Options(all)), nil
}

func (a *Analytics) Options(ctx context.Context) (models.FilterOptions, error) {
	_, all, err := a.derived(ctx)
	if err != nil {
		return models.FilterOptions{}, err
	}
	return Options(all), nil
}

// Stats summarises the memoized load for monitoring.
func (a *Analytics) Stats(ctx context.Context) (models.LoadStats, error) {
	snap, all, err := a.derived(ctx)
	if err != nil {
		return models.LoadStats{}, err
	}

	products := make(map[string]struct{})
	countries := make(map[string]struct{})
	for _, o := range all {
		products[o.Product] = struct{}{}
		countries[o.Country] = struct{}{}
	}
	options := Options(all)

	return models.LoadStats{
		RecordCount: len(all),
		LoadedAt:    snap.LoadedAt,
		Products:    len(products),
		Cities:      len(options.Cities),
		Countries:   len(countries),
		Months:      len(options.Months),
	}, nil
}

func (a *Analytics) Invalidate() {
	a.loader.Invalidate()
}

func (a *Analytics) Ping(ctx context.Context) error {
	return a.loader.Ping(ctx)
}

func (a *Analytics) derived(ctx context.Context) (*store.Snapshot, []models.Order, error) {
	snap, err := a.loader.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load orders: %w", err)
	}
	return snap, Derive(snap.Orders), nil
}
