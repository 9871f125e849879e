package logger

import (
	"context"
	"sync/atomic"
)

type ctxKey struct{}

var fallback atomic.Pointer[Logger]

func init() {
	fallback.Store(New(nil))
}

// GetDefault returns the logger used when a context carries none.
func GetDefault() *Logger {
	return fallback.Load()
}

// SetDefaultLogger replaces the fallback logger. nil is ignored.
func SetDefaultLogger(l *Logger) {
	if l != nil {
		fallback.Store(l)
	}
}

// WithContext returns a copy of ctx carrying l.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger carried by ctx, or the default logger.
func FromContext(ctx context.Context) *Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
			return l
		}
	}
	return GetDefault()
}

// WithFields returns a copy of ctx whose logger carries fields.
func WithFields(ctx context.Context, fields Fields) context.Context {
	return FromContext(ctx).WithFields(fields).WithContext(ctx)
}

// SetComponent tags every later log line under ctx with a component name.
func SetComponent(ctx context.Context, name string) context.Context {
	return WithFields(ctx, Fields{FieldComponent: name})
}

// SetSource tags every later log line under ctx with a source handler name.
// Setting the same source twice is a no-op.
func SetSource(ctx context.Context, source string) context.Context {
	if FromContext(ctx).Data[FieldSource] == source {
		return ctx
	}
	return WithFields(ctx, Fields{FieldSource: source})
}
