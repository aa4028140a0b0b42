package main

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JakTech215/crm-app-sub000/internal/config"
	"github.com/JakTech215/crm-app-sub000/internal/domain"
	"github.com/JakTech215/crm-app-sub000/internal/infrastructure/persistence/sqlite"
)

func TestNewCleanup_ClosesStoreBeforeFlushingTelemetry(t *testing.T) {
	var calls []string
	store := &fakeStore{calls: &calls, err: errors.New("already closed")}
	telemetry := &fakeTelemetry{calls: &calls}

	newCleanup(store, telemetry)()

	require.Equal(t, []string{"storeClose", "telemetryShutdown"}, calls)
	deadline, ok := telemetry.ctx.Deadline()
	require.True(t, ok, "telemetry shutdown must be bounded")
	assert.WithinDuration(t, time.Now().Add(providerShutdownTimeout), deadline, time.Second)
}

func TestNewCleanup_NilSafe(t *testing.T) {
	assert.NotPanics(t, newCleanup(nil, nil))
}

func TestOpenStore_SQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "crm.db")

	s, err := openStore(ctx, config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	_, ok := s.(*sqlite.Store)
	assert.True(t, ok)
	_, err = s.FindTaskByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestMaskPassword(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"postgres://crm:secret@db:5432/crm", "postgres://crm:xxxxxx@db:5432/crm"},
		{"postgres://db:5432/crm", "postgres://db:5432/crm"},
		{"://bad", "[REDACTED]"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, maskPassword(tt.in))
	}
}

type fakeStore struct {
	calls *[]string
	err   error
}

func (s *fakeStore) Close() error {
	*s.calls = append(*s.calls, "storeClose")
	return s.err
}

type fakeTelemetry struct {
	calls *[]string
	ctx   context.Context
}

func (f *fakeTelemetry) Shutdown(ctx context.Context) error {
	f.ctx = ctx
	*f.calls = append(*f.calls, "telemetryShutdown")
	return nil
}
