// Package logger is the structured logger shared by the API server and the CLI. Lines
// carry the request and user ids from the context so a risk assessment can be traced
// back to the request or batch job that produced it.
package logger

import (
	"context"
	"io"
	"strings"
	"sync/atomic"
	"time"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"debug", "info", "warn", "error"}

func (l Level) String() string {
	if l < LevelDebug || l > LevelError {
		return "info"
	}
	return levelNames[l]
}

// ParseLevel reads LOG_LEVEL style names case-insensitively. Unknown names mean info.
func ParseLevel(s string) Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		return LevelWarn
	}
	for i, name := range levelNames {
		if s == name {
			return Level(i)
		}
	}
	return LevelInfo
}

// Field is one key/value on a log line
type Field struct {
	Key   string
	Value any
}

func String(key, value string) Field                 { return Field{Key: key, Value: value} }
func Int(key string, value int) Field                { return Field{Key: key, Value: value} }
func Float64(key string, value float64) Field        { return Field{Key: key, Value: value} }
func Bool(key string, value bool) Field              { return Field{Key: key, Value: value} }
func Duration(key string, value time.Duration) Field { return Field{Key: key, Value: value} }

// Err logs err under "error" as its message
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error"}
	}
	return Field{Key: "error", Value: err.Error()}
}

type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// With returns a child logger that adds fields to every line
	With(fields ...Field) Logger
	// WithContext returns a child logger with the ids and fields carried by ctx
	WithContext(ctx context.Context) Logger

	Level() Level
}

type Config struct {
	Level Level
	// Format is "json" or "text"
	Format string
	// Output defaults to os.Stdout. The CLI logs to stderr so stdout stays JSON.
	Output io.Writer
}

// defaultLogger is read concurrently by request handlers and batch workers
var defaultLogger atomic.Pointer[Logger]

// SetDefault replaces the logger returned by Default
func SetDefault(l Logger) {
	defaultLogger.Store(&l)
}

// Default returns the process logger, a JSON info logger on stdout until SetDefault runs
func Default() Logger {
	if l := defaultLogger.Load(); l != nil {
		return *l
	}
	l := NewSlogLogger(Config{Level: LevelInfo, Format: "json"})
	if defaultLogger.CompareAndSwap(nil, &l) {
		return l
	}
	return *defaultLogger.Load()
}
