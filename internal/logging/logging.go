// Package logging builds the CLI's diagnostic logger. Quiet runs get a nop
// logger so command output on stdout stays parseable.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func New(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
