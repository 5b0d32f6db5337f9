// internal/logging/logging.go
package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	logger = zap.NewNop()
)

// Init builds the process logger. dev switches to the human readable console encoder.
func Init(level string, dev bool) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	if dev {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build()
	if err != nil {
		return err
	}

	mu.Lock()
	logger = l
	mu.Unlock()
	return nil
}

func GetLogger() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func With(fields ...zap.Field) *zap.Logger {
	return GetLogger().With(fields...)
}

func Debug(msg string, fields ...zap.Field) { GetLogger().Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { GetLogger().Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { GetLogger().Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { GetLogger().Error(msg, fields...) }
func Fatal(msg string, fields ...zap.Field) { GetLogger().Fatal(msg, fields...) }

// Sync flushes buffered entries, usually deferred from main.
func Sync() {
	_ = GetLogger().Sync()
}
