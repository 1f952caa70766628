package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/config"
	"sales-dashboard/internal/middleware"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/server"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/store"
)

const (
	version        = "1.0.0"
	connectTimeout = 15 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", version,
		"addr", cfg.Address(),
		"driver", cfg.Database.Driver,
		"metrics", cfg.Metrics.Enabled,
		"tracing", cfg.Tracing.Enabled,
	)

	shutdownTracer, err := observability.InitTracer(context.Background(), cfg.Tracing)
	if err != nil {
		logger.Error("failed to initialise tracing", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	source, err := store.Open(ctx, cfg.Database)
	cancel()
	if err != nil {
		logger.Error("failed to open order store", "error", err)
		os.Exit(1)
	}
	logger.Info("order store ready", "driver", cfg.Database.Driver, "migrated", cfg.Database.Migrate)

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics(cfg.Metrics.Namespace, nil)
	}

	analytics := newAnalytics(cfg, source, metrics, logger)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      newHandler(cfg, analytics, metrics, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterShutdownHook("order store", func(ctx context.Context) error {
		logger.Info("closing order store")
		source.Close()
		return nil
	})
	gracefulServer.RegisterShutdownHook("tracer", shutdownTracer)

	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}

func newAnalytics(cfg *config.Config, source store.Source, metrics *observability.Metrics, logger *slog.Logger) *services.Analytics {
	opts := []store.LoaderOption{store.WithLoadTimeout(cfg.Database.LoadTimeout)}
	if metrics != nil {
		opts = append(opts, store.WithObserver(metrics.ObserveLoad))
	}

	analytics := services.NewAnalytics(store.NewLoader(source, logger, opts...), logger)
	if metrics != nil {
		analytics.SetRenderObserver(metrics.ObserveRender)
	}
	return analytics
}

func newHandler(cfg *config.Config, analytics *services.Analytics, metrics *observability.Metrics, logger *slog.Logger) http.Handler {
	srv := server.NewServer(analytics, metrics, charts.NewRenderer(logger), logger)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	return middlewareChain(srv)
}
