// Package logger is the leveled console logger shared by the migration
// stages, the CLI and the inspection API.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// Logger is the leveled logger every migration component writes to.
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
	Fatal(format string, v ...interface{}) // exits after logging
	SetOutput(w io.Writer)
	SetPrefix(prefix string)
	SetFlags(flag int)
}

type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	LogLevelFatal
)

// Padded to five columns so messages line up.
var levelNames = [...]string{"DEBUG", "INFO ", "WARN ", "ERROR", "FATAL"}

func (l LogLevel) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLevel maps a LOG_LEVEL value onto a LogLevel. Unknown values mean info.
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogLevelDebug
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// ConsoleLogger writes "<time> [LEVEL] message" lines at or above minLevel.
type ConsoleLogger struct {
	mu       sync.Mutex
	out      *log.Logger
	minLevel LogLevel
	now      func() time.Time
	exit     func(code int)
}

func NewConsoleLogger(output io.Writer, prefix string, flag int, minLevel LogLevel) *ConsoleLogger {
	return &ConsoleLogger{
		out:      log.New(output, prefix, flag),
		minLevel: minLevel,
		now:      time.Now,
		exit:     os.Exit,
	}
}

// Discard returns a logger that drops everything. Used by tests.
func Discard() *ConsoleLogger {
	return NewConsoleLogger(io.Discard, "", 0, LogLevelFatal+1)
}

func (cl *ConsoleLogger) logf(level LogLevel, format string, v ...interface{}) {
	if level < cl.minLevel {
		return
	}
	cl.locked(func() {
		cl.out.Printf("%s [%s] %s", cl.now().Format(time.DateTime), level, fmt.Sprintf(format, v...))
	})
	if level == LogLevelFatal {
		cl.exit(1)
	}
}

func (cl *ConsoleLogger) locked(fn func()) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	fn()
}

func (cl *ConsoleLogger) Debug(format string, v ...interface{}) { cl.logf(LogLevelDebug, format, v...) }
func (cl *ConsoleLogger) Info(format string, v ...interface{})  { cl.logf(LogLevelInfo, format, v...) }
func (cl *ConsoleLogger) Warn(format string, v ...interface{})  { cl.logf(LogLevelWarn, format, v...) }
func (cl *ConsoleLogger) Error(format string, v ...interface{}) { cl.logf(LogLevelError, format, v...) }
func (cl *ConsoleLogger) Fatal(format string, v ...interface{}) { cl.logf(LogLevelFatal, format, v...) }

func (cl *ConsoleLogger) SetOutput(w io.Writer)   { cl.locked(func() { cl.out.SetOutput(w) }) }
func (cl *ConsoleLogger) SetPrefix(prefix string) { cl.locked(func() { cl.out.SetPrefix(prefix) }) }
func (cl *ConsoleLogger) SetFlags(flag int)       { cl.locked(func() { cl.out.SetFlags(flag) }) }

type named struct {
	Logger
	name string
}

// Named wraps l so every message is tagged with name, e.g. "[jobs] ...".
func Named(l Logger, name string) Logger {
	return &named{Logger: l, name: name}
}

func (n *named) Debug(format string, v ...interface{}) { n.Logger.Debug(n.tag(format), v...) }
func (n *named) Info(format string, v ...interface{})  { n.Logger.Info(n.tag(format), v...) }
func (n *named) Warn(format string, v ...interface{})  { n.Logger.Warn(n.tag(format), v...) }
func (n *named) Error(format string, v ...interface{}) { n.Logger.Error(n.tag(format), v...) }
func (n *named) Fatal(format string, v ...interface{}) { n.Logger.Fatal(n.tag(format), v...) }

func (n *named) tag(format string) string {
	return "[" + strings.ReplaceAll(n.name, "%", "%%") + "] " + format
}
