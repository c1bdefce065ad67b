// Package logging builds the zap logger used across the application.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ersonp/trust-core/internal/infrastructure/config"
)

// New creates a logger from configuration. Console format logs to stderr
// in a human-readable form; json uses the production encoder.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var zcfg zap.Config
	switch strings.ToLower(cfg.Format) {
	case "json":
		zcfg = zap.NewProductionConfig()
	case "", "console":
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zcfg.DisableStacktrace = true
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}
	return logger, nil
}

// ParseLevel parses a level name. An empty name means info.
func ParseLevel(name string) (zapcore.Level, error) {
	if name == "" {
		return zapcore.InfoLevel, nil
	}
	level, err := zapcore.ParseLevel(strings.ToLower(name))
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("parsing log level: %w", err)
	}
	return level, nil
}
