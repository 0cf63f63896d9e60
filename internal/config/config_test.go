package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paxboard/internal/errors"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"DATA_SOURCE", "JSON_DATA_PATH", "WATCH_SOURCE", "REFRESH_INTERVAL", "HTTP_TIMEOUT",
		"PREVIEW_ROWS", "HISTOGRAM_BINS", "PORT", "GIN_MODE", "DATABASE_URL", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "titanic.csv", cfg.Data.Source)
	assert.True(t, cfg.Data.Watch)
	assert.Zero(t, cfg.Data.RefreshInterval)
	assert.Equal(t, 30*time.Second, cfg.Data.HTTPTimeout)
	assert.Equal(t, 5, cfg.Data.PreviewRows)
	assert.Equal(t, 20, cfg.Data.HistogramBins)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.False(t, cfg.Database.Enabled())
	assert.Equal(t, "INFO", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATA_SOURCE", "https://example.com/titanic.csv")
	t.Setenv("REFRESH_INTERVAL", "5m")
	t.Setenv("HTTP_TIMEOUT", "10")
	t.Setenv("WATCH_SOURCE", "false")
	t.Setenv("PREVIEW_ROWS", "12")
	t.Setenv("DATABASE_URL", "postgres://localhost/paxboard")
	t.Setenv("GIN_MODE", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/titanic.csv", cfg.Data.Source)
	assert.Equal(t, 5*time.Minute, cfg.Data.RefreshInterval)
	assert.Equal(t, 10*time.Second, cfg.Data.HTTPTimeout)
	assert.False(t, cfg.Data.Watch)
	assert.Equal(t, 12, cfg.Data.PreviewRows)
	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, "debug", cfg.Server.GinMode)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad duration", "REFRESH_INTERVAL", "soon"},
		{"negative refresh", "REFRESH_INTERVAL", "-1m"},
		{"zero preview", "PREVIEW_ROWS", "0"},
		{"zero bins", "HISTOGRAM_BINS", "0"},
		{"port", "PORT", "http"},
		{"gin mode", "GIN_MODE", "verbose"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}
