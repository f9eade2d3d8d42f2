// Package logging provides structured logging for benchreport runs.
// Every run gets a fresh run_id field so log lines from overlapping
// invocations can be told apart.
package logging

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config holds logging configuration.
type Config struct {
	Level       string `yaml:"level"`  // debug, info, warn, error
	Format      string `yaml:"format"` // "json" or "console"
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "console",
	}
}

// NewLogger creates a run-scoped zap logger.
// The returned logger carries a run_id field on every line.
func NewLogger(cfg Config) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.Development {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zapConfig.Level = level

	if cfg.Format == "console" {
		zapConfig.Encoding = "console"
	} else {
		zapConfig.Encoding = "json"
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	return logger.With(zap.String("run_id", uuid.NewString()[:8])), nil
}

// NewNop returns a no-op logger for tests and library callers that
// do not care about output.
func NewNop() *zap.Logger {
	return zap.NewNop()
}
