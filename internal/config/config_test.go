package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tirasundara/settlement-optimizer/internal/config"
)

var keys = []string{
	"SETTLE_DECIMAL_PLACES", "SETTLE_VERBOSE", "SETTLE_MAX_TIME",
	"LOG_LEVEL", "LOG_FORMAT", "HTTP_ADDR", "HTTP_SHUTDOWN_TIMEOUT",
}

// clearEnv unsets every key for the duration of the test
func clearEnv(t *testing.T) {
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, int32(2), cfg.DecimalPlaces)
	assert.False(t, cfg.Verbose)
	assert.Zero(t, cfg.MaxTime)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 10*time.Second, cfg.HTTPShutdownTimeout)
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SETTLE_DECIMAL_PLACES", "4")
	t.Setenv("SETTLE_VERBOSE", "true")
	t.Setenv("SETTLE_MAX_TIME", "30s")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("HTTP_ADDR", "127.0.0.1:9000")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, int32(4), cfg.DecimalPlaces)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, 30*time.Second, cfg.MaxTime)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTPAddr)
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":7000")

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("LOG_LEVEL=debug\nHTTP_ADDR=:9999\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":7000", cfg.HTTPAddr)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"SETTLE_DECIMAL_PLACES": "two",
		"SETTLE_VERBOSE":        "maybe",
		"SETTLE_MAX_TIME":       "-1s",
		"HTTP_SHUTDOWN_TIMEOUT": "soon",
	}

	for key, val := range tests {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, val)

			_, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
			assert.Error(t, err)
		})
	}

	for _, places := range []string{"19", "-1", "4294967298"} {
		t.Run("places "+places, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("SETTLE_DECIMAL_PLACES", places)

			_, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
			assert.Error(t, err)
		})
	}
}
