package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/seed"
	"sales-dashboard/internal/store"
)

func main() {
	var (
		file      = flag.String("file", "", "CSV file of order records to import")
		batchSize = flag.Int("batch", 5000, "rows per import batch")
		workers   = flag.Int("workers", 8, "parallel row parsers per batch")
		migrate   = flag.Bool("migrate", true, "apply the schema before importing")
	)
	flag.Parse()

	if err := run(*file, *batchSize, *workers, *migrate); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(path string, batchSize, workers int, migrate bool) error {
	if path == "" {
		return fmt.Errorf("-file is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbCfg := cfg.Database
	dbCfg.Migrate = dbCfg.Migrate || migrate
	source, err := store.Open(ctx, dbCfg)
	if err != nil {
		return fmt.Errorf("open order store: %w", err)
	}
	defer source.Close()

	importer, ok := source.(store.Importer)
	if !ok {
		return fmt.Errorf("driver %q cannot import orders", dbCfg.Driver)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	start := time.Now()
	res, err := seed.New(importer, logger, seed.WithBatchSize(batchSize), seed.WithWorkers(workers)).Import(ctx, f)
	if err != nil {
		return err
	}

	logger.Info("orders seeded",
		"file", path,
		"imported", humanize.Comma(res.Imported),
		"skipped", humanize.Comma(res.Skipped),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return nil
}
