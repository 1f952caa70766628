package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
)

const loadKey = "orders"

// Snapshot is an immutable result of one successful load. Callers must not modify Orders.
type Snapshot struct {
	Orders   []models.RawOrder
	LoadedAt time.Time
}

// LoadObserver receives the outcome ("hit", "miss" or "error") and duration of every Load.
type LoadObserver func(result string, duration time.Duration)

type LoaderOption func(*Loader)

func WithObserver(observer LoadObserver) LoaderOption {
	return func(l *Loader) {
		if observer != nil {
			l.observe = observer
		}
	}
}

// WithLoadTimeout bounds the shared source query. The query runs detached from
// the caller's cancellation so one departing client cannot fail a load others wait on.
func WithLoadTimeout(d time.Duration) LoaderOption {
	return func(l *Loader) {
		if d > 0 {
			l.timeout = d
		}
	}
}

func WithClock(now func() time.Time) LoaderOption {
	return func(l *Loader) {
		if now != nil {
			l.now = now
		}
	}
}

// Loader memoizes the projection query for the lifetime of the process. Only
// successful loads are cached; concurrent cold calls share a single query.
type Loader struct {
	source  Source
	logger  *slog.Logger
	group   singleflight.Group
	observe LoadObserver
	now     func() time.Time
	timeout time.Duration

	mu         sync.RWMutex
	snapshot   *Snapshot
	generation uint64
}

func NewLoader(source Source, logger *slog.Logger, opts ...LoaderOption) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{
		source:  source,
		logger:  logger,
		observe: func(string, time.Duration) {},
		now:     time.Now,
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	start := l.now()

	if snap := l.cached(); snap != nil {
		l.observe("hit", l.now().Sub(start))
		return snap, nil
	}

	v, err, _ := l.group.Do(loadKey, func() (any, error) {
		l.mu.RLock()
		snap, gen := l.snapshot, l.generation
		l.mu.RUnlock()
		if snap != nil {
			return snap, nil
		}

		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
		defer cancel()
		fetchCtx, span := observability.StartSpan(fetchCtx, "orders.load")
		defer span.End()

		orders, err := l.source.FetchOrders(fetchCtx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "fetch failed")
			return nil, err
		}
		span.SetAttributes(attribute.Int("orders.count", len(orders)))

		snap = &Snapshot{Orders: orders, LoadedAt: l.now()}
		l.mu.Lock()
		// An Invalidate during the fetch wins; the stale result is only handed to its waiters.
		if l.generation == gen {
			l.snapshot = snap
		}
		l.mu.Unlock()

		l.logger.InfoContext(ctx, "orders loaded",
			"records", len(orders),
			"duration", l.now().Sub(start),
		)
		return snap, nil
	})
	if err != nil {
		l.observe("error", l.now().Sub(start))
		l.logger.DebugContext(ctx, "order load failed", "error", err)
		return nil, err
	}

	l.observe("miss", l.now().Sub(start))
	return v.(*Snapshot), nil
}

// Invalidate drops the memoized snapshot; the next Load queries the source again.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	l.snapshot = nil
	l.generation++
	l.mu.Unlock()
	l.group.Forget(loadKey)
	l.logger.Info("order cache invalidated")
}

func (l *Loader) Ping(ctx context.Context) error {
	return l.source.Ping(ctx)
}

func (l *Loader) cached() *Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snapshot
}
