package main

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds the program's logger.
//
// Warnings always go to stderr.
// If debug is not io.Discard, everything down to debug messages
// is also written to it.
func newLogger(stderr, debug io.Writer) *zap.Logger {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.TimeKey = zapcore.OmitKey
	ec.EncodeLevel = zapcore.CapitalLevelEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(ec),
			zapcore.Lock(zapcore.AddSync(stderr)), zapcore.WarnLevel),
	}

	if debug != io.Discard {
		debugCore := zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.Lock(zapcore.AddSync(debug)),
			zapcore.DebugLevel,
		)
		if debug == stderr {
			cores = cores[:0]
		}
		cores = append(cores, debugCore)
	}

	return zap.New(zapcore.NewTee(cores...))
}
