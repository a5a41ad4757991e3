// Package config loads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/tirasundara/settlement-optimizer/internal/fixedpoint"
)

// Config holds settings shared by the CLI and the HTTP server
type Config struct {
	DecimalPlaces int32
	Verbose       bool
	MaxTime       time.Duration // zero means no limit

	LogLevel  string
	LogFormat string

	HTTPAddr            string
	HTTPShutdownTimeout time.Duration
}

// Defaults used when a variable is unset
const (
	DefaultDecimalPlaces       = 2
	DefaultLogLevel            = "info"
	DefaultLogFormat           = "console"
	DefaultHTTPAddr            = ":8080"
	DefaultHTTPShutdownTimeout = 10 * time.Second
)

// Load reads .env files (the working directory's by default; missing files
// are ignored) and then the process environment. Variables already set in the
// environment win over .env entries.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := &Config{
		LogLevel:  GetEnv("LOG_LEVEL", DefaultLogLevel),
		LogFormat: GetEnv("LOG_FORMAT", DefaultLogFormat),
		HTTPAddr:  GetEnv("HTTP_ADDR", DefaultHTTPAddr),
	}

	places, err := getIntEnv("SETTLE_DECIMAL_PLACES", DefaultDecimalPlaces)
	if err != nil {
		return nil, err
	}
	if cfg.DecimalPlaces, err = fixedpoint.PlacesFromInt(places); err != nil {
		return nil, fmt.Errorf("SETTLE_DECIMAL_PLACES: %w", err)
	}

	if cfg.Verbose, err = getBoolEnv("SETTLE_VERBOSE", false); err != nil {
		return nil, err
	}
	if cfg.MaxTime, err = getDurationEnv("SETTLE_MAX_TIME", 0); err != nil {
		return nil, err
	}
	if cfg.HTTPShutdownTimeout, err = getDurationEnv("HTTP_SHUTDOWN_TIMEOUT", DefaultHTTPShutdownTimeout); err != nil {
		return nil, err
	}

	return cfg, nil
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) (int, error) {
	val := GetEnv(key, "")
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return i, nil
}

func getBoolEnv(key string, defaultVal bool) (bool, error) {
	val := GetEnv(key, "")
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func getDurationEnv(key string, defaultVal time.Duration) (time.Duration, error) {
	val := GetEnv(key, "")
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: negative duration %s", key, d)
	}
	return d, nil
}
