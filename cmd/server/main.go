package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // zone database for images without one

	"github.com/JakTech215/crm-app-sub000/internal/application/task"
	"github.com/JakTech215/crm-app-sub000/internal/calendar"
	"github.com/JakTech215/crm-app-sub000/internal/config"
	httpserver "github.com/JakTech215/crm-app-sub000/internal/infrastructure/http"
	"github.com/JakTech215/crm-app-sub000/internal/infrastructure/http/handler"
	"github.com/JakTech215/crm-app-sub000/internal/infrastructure/observability"
)

func main() {
	if err := run(); err != nil {
		// slog may not be configured yet if config loading failed.
		fmt.Fprintf(os.Stderr, "failed to run: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	zone, err := calendar.NewZone(cfg.Task.Timezone, calendar.SystemClock{})
	if err != nil {
		return fmt.Errorf("failed to load timezone: %w", err)
	}

	level, err := cfg.Observability.Level()
	if err != nil {
		return err
	}
	providers, _, err := observability.Setup(ctx, observability.Config{
		Enabled:       cfg.Observability.OTelEnabled,
		ServiceName:   cfg.Observability.ServiceName,
		LogFile:       cfg.Observability.LogFile,
		LogMaxSizeMB:  cfg.Observability.LogMaxSizeMB,
		LogMaxBackups: cfg.Observability.LogMaxBackups,
		LogLevel:      level,
	})
	if err != nil {
		return fmt.Errorf("failed to init observability: %w", err)
	}

	store, err := openStore(ctx, cfg.Database)
	if err != nil {
		newCleanup(nil, providers)()
		return err
	}
	cleanup := newCleanup(store, providers)
	defer cleanup()

	svc := task.NewService(store, zone, task.Config{
		MaxOccurrences:   cfg.Task.MaxOccurrences,
		DefaultListLimit: cfg.Task.DefaultListLimit,
		MaxListLimit:     cfg.Task.MaxListLimit,
	})

	server := httpserver.NewAPIServer(handler.NewRouter(svc), httpserver.ServerConfig{
		Host:              cfg.HTTP.Host,
		Port:              cfg.HTTP.Port,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		MaxHeaderBytes:    cfg.HTTP.MaxHeaderBytes,
		MaxBodyBytes:      cfg.HTTP.MaxBodyBytes,
	})

	slog.InfoContext(ctx, "crm server configured",
		slog.String("driver", cfg.Database.Driver),
		slog.String("timezone", zone.Location().String()))

	errResult := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errResult <- fmt.Errorf("failed to serve HTTP: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		// ctx is already cancelled; shutdown gets its own window.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "failed to shut down HTTP server", slog.Any("error", err))
		}
		return nil
	case err := <-errResult:
		return err
	}
}

// providerShutdownTimeout bounds flushing telemetry when the collector is unreachable.
const providerShutdownTimeout = 5 * time.Second
