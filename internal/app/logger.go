package app

import (
	"platoon-pulse/internal/config"

	"go.uber.org/zap"
)

// NewLogger builds the process logger and installs it as zap's global, so
// packages that fall back to zap.L() share it. The returned logger carries a
// "process" field naming the binary.
func NewLogger(cfg *config.Config, process string) (*zap.Logger, error) {
	build := zap.NewDevelopment
	if cfg.IsProduction() {
		build = zap.NewProduction
	}
	logger, err := build()
	if err != nil {
		return nil, err
	}
	logger = logger.With(zap.String("process", process))
	zap.ReplaceGlobals(logger)
	return logger, nil
}
