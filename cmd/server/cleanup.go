package main

import (
	"context"
	"io"
	"log/slog"
)

type shutdowner interface {
	Shutdown(context.Context) error
}

// newCleanup closes the store first, then flushes telemetry so the close
// itself is still logged and traced.
func newCleanup(store io.Closer, telemetry shutdowner) func() {
	return func() {
		if store != nil {
			if err := store.Close(); err != nil {
				slog.Error("failed to close store", slog.Any("error", err))
			}
		}
		if telemetry != nil {
			ctx, cancel := context.WithTimeout(context.Background(), providerShutdownTimeout)
			defer cancel()
			if err := telemetry.Shutdown(ctx); err != nil {
				slog.Error("failed to shut down telemetry providers", slog.Any("error", err))
			}
		}
	}
}
