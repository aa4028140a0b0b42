package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	_ "time/tzdata" // zone database for images without one

	"github.com/mattn/go-isatty"

	"github.com/JakTech215/crm-app-sub000/internal/application/task"
	"github.com/JakTech215/crm-app-sub000/internal/calendar"
	"github.com/JakTech215/crm-app-sub000/internal/cli"
	"github.com/JakTech215/crm-app-sub000/internal/config"
	"github.com/JakTech215/crm-app-sub000/internal/infrastructure/observability"
	"github.com/JakTech215/crm-app-sub000/internal/infrastructure/persistence/sqlite"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadCLIConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	level, err := cfg.Observability.Level()
	if err != nil {
		return err
	}
	// The CLI never exports telemetry and keeps stdout for command output.
	providers, _, err := observability.Setup(ctx, observability.Config{
		LogFile:       cfg.Observability.LogFile,
		LogMaxSizeMB:  cfg.Observability.LogMaxSizeMB,
		LogMaxBackups: cfg.Observability.LogMaxBackups,
		LogLevel:      level,
		Console:       os.Stderr,
	})
	if err != nil {
		return err
	}
	defer func() { _ = providers.Shutdown(context.Background()) }()

	zone, err := calendar.NewZone(cfg.Task.Timezone, calendar.SystemClock{})
	if err != nil {
		return fmt.Errorf("loading timezone: %w", err)
	}

	store, err := sqlite.Open(ctx, cfg.SQLitePath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()

	app := &cli.App{
		Tasks: task.NewService(store, zone, task.Config{
			MaxOccurrences:   cfg.Task.MaxOccurrences,
			DefaultListLimit: cfg.Task.DefaultListLimit,
			MaxListLimit:     cfg.Task.MaxListLimit,
		}),
		MigrationVersion: func(ctx context.Context) (int64, error) {
			return sqlite.MigrationVersion(ctx, store.DB())
		},
		Out:    os.Stdout,
		Styles: cli.NewStyles(isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())),
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
