// Package logging builds the application logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = "info"

// Options configures the logger.
type Options struct {
	Level string
	File  string
	// Console mirrors entries to stderr in a human readable format.
	Console bool
}

// New returns a JSON logger writing to a size-rotated file. The returned
// closer flushes and closes the file.
func New(opts Options) (*zap.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}
	if opts.File == "" {
		return nil, nil, fmt.Errorf("log file path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	rotator := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	}
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(rotator), level),
	}
	if opts.Console {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig),
			zapcore.Lock(os.Stderr),
			level,
		))
	}

	log := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
	return log, closer{log: log, file: rotator}, nil
}

// ParseLevel maps a config level name to a zap level. Empty means DefaultLevel.
func ParseLevel(name string) (zapcore.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultLevel
	}
	level, err := zapcore.ParseLevel(name)
	if err != nil {
		return zap.InfoLevel, fmt.Errorf("invalid log level %q", name)
	}
	return level, nil
}

type closer struct {
	log  *zap.Logger
	file *lumberjack.Logger
}

func (c closer) Close() error {
	// Sync errors on rotated files are not actionable.
	_ = c.log.Sync()
	return c.file.Close()
}
