package config

import (
	"go.uber.org/zap/zapcore"

	"go.viam.com/robotanim/logging"
)

// NewLogger builds the run logger from the log settings. The command line debug flag wins over
// the configured level. The returned function flushes and closes the log file.
func (l LogConfig) NewLogger(name string, cmdLineDebugFlag bool) (logging.Logger, func() error, error) {
	level, err := logging.ParseLevel(l.Level)
	if err != nil {
		return nil, nil, err
	}
	if cmdLineDebugFlag {
		level = zapcore.DebugLevel
	}
	logger, closer := logging.NewFileLogger(name, level, logging.DefaultFileConfig(l.File))
	logger.Debugw("log level initialized", "level", level.String(), "file", l.File)
	return logger, closer, nil
}
