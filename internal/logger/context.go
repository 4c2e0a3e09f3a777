package logger

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey int

const (
	loggerKey ctxKey = iota
	scopeKey
)

// scope is what a context contributes to each log line. It is copied on every change so
// contexts derived from the same parent never share a fields slice.
type scope struct {
	requestID string
	userID    string
	extra     []Field
}

func scopeOf(ctx context.Context) scope {
	s, _ := ctx.Value(scopeKey).(scope)
	return s
}

func (s scope) fields() []Field {
	fields := make([]Field, 0, len(s.extra)+2)
	if s.requestID != "" {
		fields = append(fields, String("request_id", s.requestID))
	}
	if s.userID != "" {
		fields = append(fields, String("user_id", s.userID))
	}
	return append(fields, s.extra...)
}

// WithRequestID sets the correlation id. An empty id is replaced with a new UUIDv7 so
// request ids sort by arrival time.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			id = uuid.New()
		}
		requestID = id.String()
	}
	s := scopeOf(ctx)
	s.requestID = requestID
	return context.WithValue(ctx, scopeKey, s)
}

func RequestIDFromContext(ctx context.Context) string {
	return scopeOf(ctx).requestID
}

// WithUserID tags logs with the user being served or, in batch jobs, assessed
func WithUserID(ctx context.Context, userID string) context.Context {
	s := scopeOf(ctx)
	s.userID = userID
	return context.WithValue(ctx, scopeKey, s)
}

func UserIDFromContext(ctx context.Context) string {
	return scopeOf(ctx).userID
}

// WithFields adds fields to every line logged through Ctx with the returned context
func WithFields(ctx context.Context, fields ...Field) context.Context {
	if len(fields) == 0 {
		return ctx
	}
	s := scopeOf(ctx)
	s.extra = append(s.extra[:len(s.extra):len(s.extra)], fields...)
	return context.WithValue(ctx, scopeKey, s)
}

// WithLogger makes l the base logger for ctx
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the base logger attached with WithLogger, or Default
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// Ctx is FromContext(ctx).WithContext(ctx): the base logger plus everything ctx carries
func Ctx(ctx context.Context) Logger {
	return FromContext(ctx).WithContext(ctx)
}
