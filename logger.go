package raffle

import (
	"fmt"
	"io"
	"log"
	"strings"
)

// LogLevel is the minimum level a DefaultLogger writes
type LogLevel int

const (
	LevelDebug LogLevel = iota - 1
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLogLevel parses "debug", "info", "warn" or "error"
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// DefaultLogger implements Logger using standard log package.
// The zero value logs at info level through log.Printf.
type DefaultLogger struct {
	out   *log.Logger
	level LogLevel
}

// NewDefaultLogger creates a logger writing to w at the given level
func NewDefaultLogger(w io.Writer, level LogLevel) *DefaultLogger {
	return &DefaultLogger{
		out:   log.New(w, "", log.LstdFlags),
		level: level,
	}
}

func (l *DefaultLogger) logf(level LogLevel, prefix, msg string, args ...any) {
	if level < l.level {
		return
	}
	if l.out == nil {
		log.Printf(prefix+msg, args...)
		return
	}
	l.out.Printf(prefix+msg, args...)
}

// Info logs an info message
func (l *DefaultLogger) Info(msg string, args ...any) { l.logf(LevelInfo, "[INFO] ", msg, args...) }

// Warn logs a warning message
func (l *DefaultLogger) Warn(msg string, args ...any) { l.logf(LevelWarn, "[WARN] ", msg, args...) }

// Error logs an error message
func (l *DefaultLogger) Error(msg string, args ...any) { l.logf(LevelError, "[ERROR] ", msg, args...) }

// Debug logs a debug message
func (l *DefaultLogger) Debug(msg string, args ...any) { l.logf(LevelDebug, "[DEBUG] ", msg, args...) }

// SilentLogger implements Logger interface but does not output any logs
// This is useful for testing environments where log output is not desired
type SilentLogger struct{}

// NewSilentLogger creates a new silent logger instance
func NewSilentLogger() *SilentLogger {
	return &SilentLogger{}
}

// Info does nothing (silent)
func (l *SilentLogger) Info(msg string, args ...any) {}

// Warn does nothing (silent)
func (l *SilentLogger) Warn(msg string, args ...any) {}

// Error does nothing (silent)
func (l *SilentLogger) Error(msg string, args ...any) {}

// Debug does nothing (silent)
func (l *SilentLogger) Debug(msg string, args ...any) {}
