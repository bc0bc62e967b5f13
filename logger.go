// Package configstore provides default logging implementations.
package configstore

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogLevel mirrors the slog levels.
type LogLevel int

const (
	LogLevelDebug LogLevel = LogLevel(slog.LevelDebug)
	LogLevelInfo  LogLevel = LogLevel(slog.LevelInfo)
	LogLevelWarn  LogLevel = LogLevel(slog.LevelWarn)
	LogLevelError LogLevel = LogLevel(slog.LevelError)
)

// ParseLogLevel maps "debug", "info", "warn" or "error" to a LogLevel.
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogLevelDebug, nil
	case "", "info":
		return LogLevelInfo, nil
	case "warn", "warning":
		return LogLevelWarn, nil
	case "error":
		return LogLevelError, nil
	}
	return LogLevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Logger is the logging interface used by the store and the admin server.
// The args are alternating key-value pairs, as with slog.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	SetLevel(level LogLevel)
}

type slogLogger struct {
	slogger  *slog.Logger
	levelVar *slog.LevelVar
}

// NewDefaultLogger returns a JSON logger writing to os.Stderr at info level.
func NewDefaultLogger() Logger {
	return NewLogger(os.Stderr, LogLevelInfo)
}

// NewLogger returns a JSON logger writing to w at the given level.
// The level can be changed later with SetLevel.
func NewLogger(w io.Writer, level LogLevel) Logger {
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.Level(level))

	return &slogLogger{
		slogger:  slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: levelVar})),
		levelVar: levelVar,
	}
}

func (l *slogLogger) Debug(msg string, args ...any) {
	l.slogger.Debug(msg, args...)
}

func (l *slogLogger) Info(msg string, args ...any) {
	l.slogger.Info(msg, args...)
}

func (l *slogLogger) Warn(msg string, args ...any) {
	l.slogger.Warn(msg, args...)
}

func (l *slogLogger) Error(msg string, args ...any) {
	l.slogger.Error(msg, args...)
}

// SetLevel changes the minimum level that is written.
func (l *slogLogger) SetLevel(level LogLevel) {
	if l.levelVar != nil {
		l.levelVar.Set(slog.Level(level))
	}
}
