// Package logger provides the levelled console logger used for diagnostics.
//
// Results go to stdout through the printer; everything the logger emits goes
// to its own writer (stderr by default), one line per message, so a
// diagnostic is always distinguishable from a result line.
package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// LogLevel defines log severity levels
type LogLevel int

const (
	// Log levels from least to most restrictive
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelNone
)

// Logger provides levelled logging with optional colored prefixes
type Logger struct {
	out       io.Writer
	useColors bool
	level     LogLevel
	mu        sync.Mutex
	now       func() time.Time
}

// New creates a new Logger with the given settings
func New(out io.Writer, verbose bool, useColors bool) *Logger {
	level := LevelInfo
	if verbose {
		level = LevelDebug
	}

	return &Logger{
		out:       out,
		useColors: useColors,
		level:     level,
		now:       time.Now,
	}
}

// WithLevel sets the log level and returns the logger
func (l *Logger) WithLevel(level LogLevel) *Logger {
	l.level = level
	return l
}

// SetLevel sets the log level from its name
func (l *Logger) SetLevel(levelStr string) {
	l.WithLevel(ParseLevel(levelStr))
}

// Level reports the active level.
func (l *Logger) Level() LogLevel {
	return l.level
}

// ParseLevel converts a level name to a LogLevel, defaulting to info
func ParseLevel(level string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "none", "off":
		return LevelNone
	default:
		return LevelInfo
	}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LevelDebug, "DEBUG", color.CyanString, format, args...)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LevelInfo, "INFO", color.BlueString, format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(LevelWarn, "WARN", color.YellowString, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LevelError, "ERROR", color.RedString, format, args...)
}

func (l *Logger) log(level LogLevel, prefix string, paint func(string, ...interface{}) string, format string, args ...interface{}) {
	if l == nil || l.out == nil || l.level > level {
		return
	}
	if l.useColors {
		prefix = paint(prefix)
	}
	msg := strings.TrimRight(fmt.Sprintf(format, args...), "\n")

	// one message, one line: embedded newlines would read as separate records
	msg = strings.ReplaceAll(msg, "\n", " ")

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "[%s %s] %s\n", l.now().Format("15:04:05.000"), prefix, msg)
}
