package main

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger logs informational messages to stdout and errors to stderr. With debug set, debug messages are
// included and entries carry their caller.
func newLogger(debug bool) *zap.Logger {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	if !debug {
		ec.EncodeCaller = nil
		ec.TimeKey = zapcore.OmitKey
	}
	enc := zapcore.NewConsoleEncoder(ec)

	minLevel := zapcore.InfoLevel
	if debug {
		minLevel = zapcore.DebugLevel
	}
	low := zapcore.NewCore(enc, zapcore.Lock(os.Stdout), zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return minLevel <= lvl && lvl < zapcore.ErrorLevel
	}))
	high := zapcore.NewCore(enc.Clone(), zapcore.Lock(os.Stderr), zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapcore.ErrorLevel
	}))

	var opts []zap.Option
	if debug {
		opts = append(opts, zap.AddCaller())
	}
	return zap.New(zapcore.NewTee(low, high), opts...).Named("stackctl")
}
