package store

import (
	"context"
	"fmt"

	"sales-dashboard/internal/config"
)

// Open connects to the configured driver and, when cfg.Migrate is set, applies
// the embedded schema before returning.
func Open(ctx context.Context, cfg config.DatabaseConfig) (Source, error) {
	var (
		source Source
		err    error
	)

	switch cfg.Driver {
	case config.DriverPostgres:
		source, err = NewPostgres(ctx, cfg.URL, cfg.MaxConns)
	case config.DriverSQLite:
		source, err = NewSQLite(ctx, cfg.URL)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Migrate {
		m, ok := source.(Migrator)
		if !ok {
			source.Close()
			return nil, fmt.Errorf("driver %q does not support migrations", cfg.Driver)
		}
		if err := m.Migrate(); err != nil {
			source.Close()
			return nil, err
		}
	}

	return source, nil
}
