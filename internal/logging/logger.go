// Package logging builds the zap logger shared by both programs.
package logging

import (
	"fmt"

	"go.uber.org/zap"

	"spaceship-fleet/maintenance-portal/internal/config"
)

// New returns a development logger when cfg.Development is set and a JSON
// production logger otherwise, both at cfg.Level.
func New(cfg config.LoggingConfig) (*zap.Logger, error) {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if cfg.Level != "" {
		parsed, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	return zc.Build()
}
