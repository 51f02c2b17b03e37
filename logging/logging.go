// Package logging builds the zap logger from configuration.
package logging

import (
	"fmt"

	"github.com/rlch/moviegraph"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config returns the zap configuration for cfg. Console format uses the
// development encoder, json the production one. Logs always go to stderr so
// stdout stays free for results.
func Config(cfg moviegraph.LogConfig) (zap.Config, error) {
	var zc zap.Config

	switch cfg.Format {
	case "", "console":
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	case "json":
		zc = zap.NewProductionConfig()
	default:
		return zap.Config{}, &moviegraph.ValidationError{Field: "log.format", Value: cfg.Format, Reason: "must be console or json"}
	}

	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)

	if cfg.Level != "" {
		parsed, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return zap.Config{}, fmt.Errorf("log level: %w", err)
		}

		level = parsed
	}

	zc.Level = level
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}

	return zc, nil
}

// New builds a logger for cfg.
func New(cfg moviegraph.LogConfig) (*zap.Logger, error) {
	zc, err := Config(cfg)
	if err != nil {
		return nil, err
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return logger, nil
}
