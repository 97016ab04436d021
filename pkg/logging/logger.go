// Package logging builds the process-wide zap logger and sanitizes values
// that must never reach the logs verbatim.
package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger builds a logger appropriate for the environment. Local and
// test environments get the human-readable development encoder; everything
// else gets production JSON output.
func NewLogger(env string) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	switch env {
	case "local", "test":
		logger, err = zap.NewDevelopment()
	default:
		cfg := zap.NewProductionConfig()
		cfg.DisableStacktrace = true
		logger, err = cfg.Build()
	}
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return logger.With(zap.String("service", "querygym-engine")), nil
}
