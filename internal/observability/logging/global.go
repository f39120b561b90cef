package logging

import (
	"context"
	"sync"
)

var (
	globalLogger Logger
	globalMutex  sync.RWMutex
)

// InitGlobalLogger builds a logger from config and installs it globally.
func InitGlobalLogger(config *Config) error {
	logger, err := NewLogger(config)
	if err != nil {
		return err
	}
	SetGlobalLogger(logger)
	return nil
}

// GetGlobalLogger returns the installed logger, or a silent one.
func GetGlobalLogger() Logger {
	globalMutex.RLock()
	defer globalMutex.RUnlock()

	if globalLogger == nil {
		return newNoOpLogger()
	}
	return globalLogger
}

// SetGlobalLogger replaces the global logger. Passing nil restores silence.
func SetGlobalLogger(logger Logger) {
	globalMutex.Lock()
	globalLogger = logger
	globalMutex.Unlock()
}

// Debug logs through the global logger.
func Debug(ctx context.Context, msg string, keysAndValues ...any) {
	GetGlobalLogger().Debug(ctx, msg, keysAndValues...)
}

// Info logs through the global logger.
func Info(ctx context.Context, msg string, keysAndValues ...any) {
	GetGlobalLogger().Info(ctx, msg, keysAndValues...)
}

// Warn logs through the global logger.
func Warn(ctx context.Context, msg string, keysAndValues ...any) {
	GetGlobalLogger().Warn(ctx, msg, keysAndValues...)
}

// Error logs through the global logger.
func Error(ctx context.Context, msg string, keysAndValues ...any) {
	GetGlobalLogger().Error(ctx, msg, keysAndValues...)
}
