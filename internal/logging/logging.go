// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package logging wraps zap the way the wider Lux precompile corpus
// does: a small Config knob (verbosity) resolved into a *zap.Logger
// that call sites hold explicitly rather than reaching for a global.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config is the logging verbosity knob.
type Config struct {
	// Verbose enables debug-level logging (opcode-by-opcode tracing,
	// per-row commit notifications).
	Verbose bool
}

// New builds a production logger, or a development logger with debug
// level enabled when cfg.Verbose is set.
func New(cfg Config) (*zap.Logger, error) {
	if cfg.Verbose {
		zc := zap.NewDevelopmentConfig()
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		return zc.Build()
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	return zc.Build()
}

// Nop returns a logger that discards everything, for package-level
// helpers exercised from tests that don't want to thread a logger
// through every constructor.
func Nop() *zap.Logger {
	return zap.NewNop()
}
