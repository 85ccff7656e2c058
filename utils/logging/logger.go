package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// LogLevel represents different logging levels
type LogLevel int

const (
	// LevelError only logs errors
	LevelError LogLevel = iota
	// LevelWarn logs warnings and errors
	LevelWarn
	// LevelInfo logs general information, warnings and errors
	LevelInfo
	// LevelDebug logs object and ref writes
	LevelDebug
	// LevelTrace logs every object read
	LevelTrace
)

var levelNames = map[LogLevel]string{
	LevelError: "ERROR",
	LevelWarn:  "WARN",
	LevelInfo:  "INFO",
	LevelDebug: "DEBUG",
	LevelTrace: "TRACE",
}

var levelColors = map[LogLevel]*color.Color{
	LevelError: color.New(color.FgRed, color.Bold),
	LevelWarn:  color.New(color.FgYellow),
	LevelInfo:  color.New(color.FgGreen),
	LevelDebug: color.New(color.FgCyan),
	LevelTrace: color.New(color.FgHiBlack),
}

// Logger is a leveled logger. Messages go to stderr unless redirected with SetOutput.
type Logger struct {
	mu      sync.RWMutex
	level   LogLevel
	colored bool
	logger  *log.Logger
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// GetLogger returns the process wide logger. Its level starts at WARN and can be raised with CAF_LOG_LEVEL.
func GetLogger() *Logger {
	once.Do(func() {
		defaultLogger = NewLogger(os.Stderr)
		if level, ok := ParseLevel(os.Getenv("CAF_LOG_LEVEL")); ok {
			defaultLogger.SetLevel(level)
		}
	})
	return defaultLogger
}

// NewLogger creates a logger writing to w. Level tags are coloured only when w is a terminal.
func NewLogger(w io.Writer) *Logger {
	l := &Logger{level: LevelWarn}
	l.SetOutput(w)
	return l
}

// ParseLevel maps a level name such as "debug" or "INFO" to its LogLevel.
func ParseLevel(name string) (LogLevel, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for level, n := range levelNames {
		if n == name {
			return level, true
		}
	}
	return LevelWarn, false
}

// SetOutput redirects the logger.
func (l *Logger) SetOutput(w io.Writer) {
	colored := false
	if f, ok := w.(*os.File); ok {
		colored = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.colored = colored
	l.logger = log.New(w, "caf: ", log.Ltime|log.Lmicroseconds)
}

// SetLevel sets the logging level
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Level returns the current level.
func (l *Logger) Level() LogLevel {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

func (l *Logger) log(level LogLevel, format string, args ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if level > l.level {
		return
	}

	tag := "[" + levelNames[level] + "]"
	if l.colored {
		tag = levelColors[level].Sprint(tag)
	}
	if err := l.logger.Output(3, tag+" "+fmt.Sprintf(format, args...)); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write log message: %v\n", err)
	}
}

// Error logs an error message
func (l *Logger) Error(format string, args ...any) {
	l.log(LevelError, format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...any) {
	l.log(LevelWarn, format, args...)
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...any) {
	l.log(LevelInfo, format, args...)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...any) {
	l.log(LevelDebug, format, args...)
}

// Trace logs a trace message
func (l *Logger) Trace(format string, args ...any) {
	l.log(LevelTrace, format, args...)
}
