package env

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inner struct {
	Zone string `env:"ENVTEST_ZONE"`
}

func (i *inner) Validate() error {
	if i.Zone == "Mars/Olympus" {
		return errors.New("unknown zone")
	}
	return nil
}

type sample struct {
	Name    string        `env:"ENVTEST_NAME"`
	Limit   int           `env:"ENVTEST_LIMIT"`
	Small   int8          `env:"ENVTEST_SMALL"`
	Enabled bool          `env:"ENVTEST_ENABLED"`
	Timeout time.Duration `env:"ENVTEST_TIMEOUT"`
	Inner   inner
	Skipped string
}

func TestLoad(t *testing.T) {
	t.Setenv("ENVTEST_NAME", "crm")
	t.Setenv("ENVTEST_LIMIT", "250")
	t.Setenv("ENVTEST_ENABLED", "true")
	t.Setenv("ENVTEST_TIMEOUT", "1m30s")
	t.Setenv("ENVTEST_ZONE", "America/Chicago")

	var cfg sample
	require.NoError(t, Load(&cfg))

	assert.Equal(t, "crm", cfg.Name)
	assert.Equal(t, 250, cfg.Limit)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 90*time.Second, cfg.Timeout)
	assert.Equal(t, "America/Chicago", cfg.Inner.Zone)
	assert.Empty(t, cfg.Skipped)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name   string
		envVar string
		value  string
		check  func(t *testing.T, err error)
	}{
		{
			name: "bad int", envVar: "ENVTEST_LIMIT", value: "many",
			check: func(t *testing.T, err error) {
				var invalid ErrInvalidValue
				require.ErrorAs(t, err, &invalid)
				assert.Equal(t, "Limit", invalid.Field)
			},
		},
		{
			name: "int overflows its field", envVar: "ENVTEST_SMALL", value: "300",
			check: func(t *testing.T, err error) {
				var invalid ErrInvalidValue
				require.ErrorAs(t, err, &invalid)
			},
		},
		{
			name: "bad duration", envVar: "ENVTEST_TIMEOUT", value: "soon",
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "ENVTEST_TIMEOUT")
			},
		},
		{
			name: "nested validation", envVar: "ENVTEST_ZONE", value: "Mars/Olympus",
			check: func(t *testing.T, err error) {
				assert.EqualError(t, err, "unknown zone")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envVar, tt.value)
			var cfg sample
			tt.check(t, Load(&cfg))
		})
	}
}

func TestLoad_RejectsNonPointer(t *testing.T) {
	var notStruct ErrNotStructPointer
	assert.ErrorAs(t, Load(sample{}), &notStruct)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("ENVTEST_NAME=from-file\nENVTEST_LIMIT=7\n"), 0o600))

	t.Setenv("ENVTEST_LIMIT", "9")
	// Cleared after the test; godotenv sets it directly.
	t.Setenv("ENVTEST_NAME", "")
	require.NoError(t, os.Unsetenv("ENVTEST_NAME"))

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), path))

	assert.Equal(t, "from-file", os.Getenv("ENVTEST_NAME"))
	assert.Equal(t, "9", os.Getenv("ENVTEST_LIMIT"), "existing variables win")
}
