package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "heimdall.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, cfg.Scan.Window)
	assert.True(t, cfg.Scan.Band.Equal(decimal.RequireFromString("0.1")))
	assert.Equal(t, 1, cfg.Scan.Workers)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Pretty)
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, `
scan:
  window: 45m
  band: "0.05"
  workers: 4
log:
  level: debug
  pretty: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 45*time.Minute, cfg.Scan.Window)
	assert.True(t, cfg.Scan.Band.Equal(decimal.RequireFromString("0.05")))
	assert.Equal(t, 4, cfg.Scan.Workers)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)

	opts := cfg.ScanOptions()
	assert.Equal(t, 45*time.Minute, opts.Window)
	assert.True(t, opts.Band.Equal(decimal.RequireFromString("0.05")))
	assert.Equal(t, 4, opts.Workers)
}

func TestLoad_PartialYAMLKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "scan:\n  workers: 2\n"))
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Scan.Workers)
	assert.Equal(t, 30*time.Minute, cfg.Scan.Window)
	assert.True(t, cfg.Scan.Band.Equal(decimal.RequireFromString("0.1")))
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	t.Setenv("HEIMDALL_SCAN_WINDOW", "1h")
	t.Setenv("HEIMDALL_SCAN_BAND", "0.2")
	t.Setenv("HEIMDALL_LOG_LEVEL", "warn")

	cfg, err := Load(writeConfig(t, "scan:\n  window: 10m\n  workers: 3\n"))
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.Scan.Window)
	assert.True(t, cfg.Scan.Band.Equal(decimal.RequireFromString("0.2")))
	assert.Equal(t, 3, cfg.Scan.Workers)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]struct {
		body string
		want error
	}{
		"zero window":   {"scan:\n  window: 0s\n", ErrInvalidWindow},
		"negative band": {"scan:\n  band: \"-0.1\"\n", ErrInvalidBand},
		"band of one":   {"scan:\n  band: 1\n", ErrInvalidBand},
		"no workers":    {"scan:\n  workers: 0\n", ErrInvalidWorkers},
	}
	for name, tc := range cases {
		_, err := Load(writeConfig(t, tc.body))
		assert.ErrorIs(t, err, tc.want, name)
	}

	_, err := Load(writeConfig(t, "scan:\n  band: lots\n"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")
	want := Default()
	want.Scan.Workers = 6
	want.Scan.Band = Fraction{decimal.RequireFromString("0.07")}

	require.NoError(t, Save(path, want))
	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, want.Scan.Window, got.Scan.Window)
	assert.Equal(t, 6, got.Scan.Workers)
	assert.True(t, got.Scan.Band.Equal(decimal.RequireFromString("0.07")))

	assert.Error(t, Save(path, nil))
}
