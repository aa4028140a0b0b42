package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"

	"github.com/JakTech215/crm-app-sub000/internal/application/task"
	"github.com/JakTech215/crm-app-sub000/internal/config"
	"github.com/JakTech215/crm-app-sub000/internal/infrastructure/persistence/postgres"
	"github.com/JakTech215/crm-app-sub000/internal/infrastructure/persistence/sqlite"
)

// taskStore is what the server needs from either backend.
type taskStore interface {
	task.Repository
	io.Closer
}

// openStore connects to the configured backend and applies migrations.
func openStore(ctx context.Context, cfg config.DatabaseConfig) (taskStore, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		s, err := postgres.Open(ctx, postgres.DBConfig{
			DSN:             cfg.DSN,
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.ConnMaxIdleTime,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres store: %w", err)
		}
		slog.InfoContext(ctx, "storage initialized", slog.String("driver", cfg.Driver), slog.String("dsn", maskPassword(cfg.DSN)))
		return s, nil
	default:
		s, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		slog.InfoContext(ctx, "storage initialized", slog.String("driver", config.DriverSQLite), slog.String("path", cfg.SQLitePath))
		return s, nil
	}
}

// maskPassword hides the password in a connection URL for logging.
func maskPassword(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "[REDACTED]"
	}
	if u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), "xxxxxx")
		}
	}
	return u.String()
}
