package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the shared logger instance. Call Init before using it.
var Log *zap.Logger

// Init builds the global logger. Safe to call more than once; only the
// first call takes effect.
func Init() {
	if Log != nil {
		return
	}

	config := zap.NewDevelopmentConfig()
	config.DisableStacktrace = true
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	logger, err := config.Build()
	if err != nil {
		// Logging is not worth crashing over; fall back to a no-op logger.
		Log = zap.NewNop()
		return
	}
	Log = logger
}

// SetDebug rebuilds the global logger with the minimum level set to
// debug or info.
func SetDebug(debug bool) {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	config := zap.NewDevelopmentConfig()
	config.DisableStacktrace = true
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.Level = zap.NewAtomicLevelAt(level)

	if logger, err := config.Build(); err == nil {
		Log = logger
	}
}

// Sync flushes buffered log entries. Call on shutdown.
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
