package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// slogLogger is the Logger used by the server and the CLI
type slogLogger struct {
	sl    *slog.Logger
	level Level
}

// NewSlogLogger builds a Logger writing JSON (the default) or logfmt-style text to
// cfg.Output, or stdout when it is nil.
func NewSlogLogger(cfg Config) Logger {
	var out io.Writer = os.Stdout
	if cfg.Output != nil {
		out = cfg.Output
	}
	opts := &slog.HandlerOptions{Level: cfg.Level.slogLevel()}

	var h slog.Handler
	if cfg.Format == "text" {
		h = slog.NewTextHandler(out, opts)
	} else {
		h = slog.NewJSONHandler(out, opts)
	}
	return &slogLogger{sl: slog.New(h), level: cfg.Level}
}

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func attrs(fields []Field) []slog.Attr {
	out := make([]slog.Attr, len(fields))
	for i, f := range fields {
		out[i] = slog.Any(f.Key, f.Value)
	}
	return out
}

func (l *slogLogger) log(level Level, msg string, fields []Field) {
	if !l.sl.Enabled(context.Background(), level.slogLevel()) {
		return
	}
	l.sl.LogAttrs(context.Background(), level.slogLevel(), msg, attrs(fields)...)
}

func (l *slogLogger) Debug(msg string, fields ...Field) { l.log(LevelDebug, msg, fields) }
func (l *slogLogger) Info(msg string, fields ...Field)  { l.log(LevelInfo, msg, fields) }
func (l *slogLogger) Warn(msg string, fields ...Field)  { l.log(LevelWarn, msg, fields) }
func (l *slogLogger) Error(msg string, fields ...Field) { l.log(LevelError, msg, fields) }

func (l *slogLogger) With(fields ...Field) Logger {
	if len(fields) == 0 {
		return l
	}
	args := make([]any, len(fields))
	for i, a := range attrs(fields) {
		args[i] = a
	}
	return &slogLogger{sl: l.sl.With(args...), level: l.level}
}

// WithContext adds the request and user ids and any WithFields values carried by ctx
func (l *slogLogger) WithContext(ctx context.Context) Logger {
	return l.With(scopeOf(ctx).fields()...)
}

func (l *slogLogger) Level() Level {
	return l.level
}
