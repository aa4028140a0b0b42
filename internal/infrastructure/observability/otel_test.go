package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger_DisabledWritesJSONToFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "crm.log")

	lp, logger, err := InitLogger(ctx, Config{LogFile: path, LogLevel: slog.LevelInfo})
	require.NoError(t, err)
	t.Cleanup(func() { _ = lp.Shutdown(ctx) })

	logger.Info("series materialized", slog.String("source_id", "t-1"), slog.Int("occurrences", 3))
	logger.Debug("below the level")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var record map[string]any
	require.NoError(t, json.Unmarshal(data, &record), "exactly one JSON line expected: %s", data)
	assert.Equal(t, "series materialized", record["msg"])
	assert.Equal(t, "t-1", record["source_id"])
	assert.InDelta(t, 3, record["occurrences"], 0)
}

func TestInitLogger_ConsoleOverridesStdout(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer

	lp, logger, err := InitLogger(ctx, Config{Console: &buf, LogLevel: slog.LevelWarn})
	require.NoError(t, err)
	t.Cleanup(func() { _ = lp.Shutdown(ctx) })

	logger.Info("dropped")
	logger.Warn("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), `"msg":"kept"`)
}

func TestSetup_DisabledInstallsNoopProviders(t *testing.T) {
	ctx := context.Background()
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	providers, logger, err := Setup(ctx, Config{})
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Same(t, logger.Handler(), slog.Default().Handler())
	assert.NoError(t, providers.Shutdown(ctx))
}

func TestServiceNameDefault(t *testing.T) {
	assert.Equal(t, DefaultServiceName, Config{}.serviceName())
	assert.Equal(t, "crm-api", Config{ServiceName: "crm-api"}.serviceName())
}
