// Package logger provides the per-step logging used by the building blocks:
// every invocation writes a pair of log files, one for progress and captured
// standard output, one for captured standard error, optionally mirrored to
// the console.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bioexcel/biobb-md/pkg/fileutils"
)

// Config holds step logger configuration
type Config struct {
	Path    string // directory for the log file pair, empty for the working dir
	Prefix  string // optional prefix inserted in the file names
	Step    string // optional step name inserted in the file names
	Level   string // debug, info, warn, error
	Console bool   // mirror entries to stdout/stderr
}

// StepLogger writes the log pair of one building block invocation.
type StepLogger struct {
	out     *zap.Logger
	err     *zap.Logger
	outPath string
	errPath string
}

// New opens the log pair for a step. The file names follow the
// prefix_step_log.out / prefix_step_log.err convention.
func New(cfg Config) (*StepLogger, error) {
	if cfg.Path != "" {
		if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
			return nil, err
		}
	}
	outPath := fileutils.CreateName(cfg.Path, cfg.Prefix, cfg.Step, "log.out")
	errPath := fileutils.CreateName(cfg.Path, cfg.Prefix, cfg.Step, "log.err")

	out, err := newLogger(outPath, os.Stdout, cfg)
	if err != nil {
		return nil, err
	}
	errLogger, err := newLogger(errPath, os.Stderr, cfg)
	if err != nil {
		return nil, err
	}
	return &StepLogger{out: out, err: errLogger, outPath: outPath, errPath: errPath}, nil
}

// newLogger creates a zap logger writing to the given file, teed to the
// console stream when enabled.
func newLogger(path string, console *os.File, cfg Config) (*zap.Logger, error) {
	level := parseLevel(cfg.Level)

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		MessageKey:     "message",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
	}
	encoder := zapcore.NewConsoleEncoder(encoderConfig)

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	core := zapcore.NewCore(encoder, zapcore.AddSync(file), level)
	if cfg.Console {
		core = zapcore.NewTee(core, zapcore.NewCore(encoder, zapcore.AddSync(console), level))
	}
	return zap.New(core), nil
}

// parseLevel converts string to zapcore.Level
func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Info logs a progress message with optional fields
func (l *StepLogger) Info(msg string, fields ...zap.Field) {
	l.out.Info(msg, fields...)
}

// Warn logs a warning message with optional fields
func (l *StepLogger) Warn(msg string, fields ...zap.Field) {
	l.out.Warn(msg, fields...)
}

// Error logs an error message with optional fields
func (l *StepLogger) Error(msg string, fields ...zap.Field) {
	l.err.Error(msg, fields...)
}

// Stdout records the captured standard output of the wrapped binary.
func (l *StepLogger) Stdout(text string) {
	if text != "" {
		l.out.Info(text)
	}
}

// Stderr records the captured standard error of the wrapped binary.
func (l *StepLogger) Stderr(text string) {
	if text != "" {
		l.err.Error(text)
	}
}

// OutPath returns the path of the progress log file.
func (l *StepLogger) OutPath() string { return l.outPath }

// ErrPath returns the path of the error log file.
func (l *StepLogger) ErrPath() string { return l.errPath }

// Sync flushes any buffered log entries
func (l *StepLogger) Sync() error {
	err := l.out.Sync()
	if err2 := l.err.Sync(); err == nil {
		err = err2
	}
	return err
}
