package logging

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileConfig holds file logging configuration.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultFileConfig returns default file logging settings.
func DefaultFileConfig(path string) FileConfig {
	return FileConfig{
		Path:       path,
		MaxSizeMB:  50,
		MaxBackups: 3,
		MaxAgeDays: 7,
		Compress:   true,
	}
}

// NewFileLogger returns a logger writing to stdout and, when cfg.Path is set, to a size rotated file.
// The returned close function flushes the logger and closes the file.
func NewFileLogger(name string, level zapcore.Level, cfg FileConfig) (Logger, func() error) {
	atomic := zap.NewAtomicLevelAt(level)
	cores := []zapcore.Core{newConsoleCore(atomic)}
	closer := func() error { return nil }

	if cfg.Path != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
			LocalTime:  true,
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(NewEncoderConfig(false)),
			zapcore.AddSync(fileWriter),
			atomic,
		))
		closer = fileWriter.Close
	}

	logger := newImpl(name, atomic, zapcore.NewTee(cores...))
	return logger, func() error {
		return multierr.Combine(logger.Sync(), closer())
	}
}

// ParseLevel converts a level name (debug, info, warn, error) to a zapcore.Level.
func ParseLevel(level string) (zapcore.Level, error) {
	if level == "" {
		return zapcore.InfoLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel, errors.Errorf("unknown log level %q", level)
	}
	return l, nil
}
