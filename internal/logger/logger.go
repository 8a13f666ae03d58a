// Package logger provides a structured logging wrapper using zap.
package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// L is the global logger instance
	L    *zap.Logger
	once sync.Once

	// level is shared by both configurations so it can be changed after Init
	level = zap.NewAtomicLevel()
)

// Init initializes the global logger.
// If debug is true, uses development config with DEBUG level.
// Otherwise uses production config with INFO level.
func Init(debug bool) {
	once.Do(func() {
		var err error
		if debug {
			level.SetLevel(zapcore.DebugLevel)
			config := zap.NewDevelopmentConfig()
			config.Level = level
			config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
			L, err = config.Build()
		} else {
			config := zap.NewProductionConfig()
			config.Level = level
			config.EncoderConfig.TimeKey = "timestamp"
			config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
			L, err = config.Build()
		}
		if err != nil {
			L = zap.NewNop()
		}
		L = L.Named("analyzer")
	})
}

// SetLevel changes the minimum level of the global logger.
func SetLevel(l zapcore.Level) {
	level.SetLevel(l)
}

// IsDebug reports whether the environment asks for development logging.
func IsDebug() bool {
	return os.Getenv("ANALYZER_ENV") != "production"
}

// Sync flushes any buffered log entries.
// Should be called before the application exits.
func Sync() {
	if L != nil {
		_ = L.Sync()
	}
}

// Default initializes a default logger if not already initialized.
func Default() *zap.Logger {
	if L == nil {
		Init(IsDebug())
	}
	return L
}

// With creates a child logger with additional fields.
func With(fields ...zap.Field) *zap.Logger {
	return Default().With(fields...)
}

func Debug(msg string, fields ...zap.Field) {
	Default().Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	Default().Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	Default().Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	Default().Error(msg, fields...)
}

// Fatal logs a fatal message and exits.
func Fatal(msg string, fields ...zap.Field) {
	Default().Fatal(msg, fields...)
}
