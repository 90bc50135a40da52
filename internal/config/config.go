// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers a .env file, an optional YAML file and environment variables on top.
// - Errors are wrapped with this package's sentinel kinds.
package config

import (
	"context"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr" validate:"required"`

	// SeedFile points at a YAML activity catalog. Empty means the built-in catalog.
	SeedFile string `koanf:"seed_file"`

	// EnforceCapacity rejects signups once a roster reaches max_participants.
	EnforceCapacity bool `koanf:"enforce_capacity"`

	// ShutdownTimeoutMS bounds graceful HTTP shutdown.
	ShutdownTimeoutMS int `koanf:"shutdown_timeout_ms" validate:"gt=0"`

	// MetricsIntervalMS sets how often roster and system gauges are refreshed.
	MetricsIntervalMS int `koanf:"metrics_interval_ms" validate:"gt=0"`
}

// New creates a Config with defaults. Context is accepted first to satisfy the
// project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":8000",
		ShutdownTimeoutMS: 10_000,
		MetricsIntervalMS: 5_000,
	}
}

// ShutdownTimeout returns ShutdownTimeoutMS as a duration.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMS) * time.Millisecond
}

// MetricsInterval returns MetricsIntervalMS as a duration.
func (c *Config) MetricsInterval() time.Duration {
	return time.Duration(c.MetricsIntervalMS) * time.Millisecond
}
