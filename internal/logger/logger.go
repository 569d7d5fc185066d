// Package logger builds the zap logger shared by the probe tools.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a colourised console logger when debug is set, and zap's
// JSON production logger otherwise.
func New(debug bool) (*zap.Logger, error) {
	if !debug {
		return zap.NewProduction()
	}

	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	config.Encoding = "console"
	config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	config.Sampling = nil

	return config.Build(zap.AddStacktrace(zapcore.ErrorLevel))
}

// Must is New for main packages; it falls back to a no-op logger rather
// than aborting the run.
func Must(debug bool) *zap.Logger {
	l, err := New(debug)
	if err != nil {
		return zap.NewNop()
	}
	return l
}
