// Package ambientlogging builds the structured logger the planner threads
// through its pipeline for diagnostics (manifest location, resolved count,
// parse results and failures, top/bench selection). Grounded on theRebelliousNerd-codenerd's cmd/nerd/main.go
// go.uber.org/zap setup: a production config with debug level gated by a
// verbose flag, built once and passed down rather than held in a global.
package ambientlogging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a *zap.Logger at info level, or debug level when verbose is
// true.
func New(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("ambientlogging: failed to build logger: %w", err)
	}
	return logger, nil
}

// Sync flushes any buffered log entries. Callers defer this right after
// New; the write(2) ENOTTY error zap returns when syncing a terminal's
// stderr is expected and safe to ignore.
func Sync(logger *zap.Logger) {
	_ = logger.Sync()
}
