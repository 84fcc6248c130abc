package events

import (
	"fmt"
	"log/slog"
)

// slogLogger adapts a *slog.Logger to the Logger interface.
type slogLogger struct {
	inner *slog.Logger
}

// NewSlogLogger creates a Logger backed by the provided *slog.Logger. A nil
// argument falls back to slog.Default.
func NewSlogLogger(inner *slog.Logger) Logger {
	if inner == nil {
		inner = slog.Default()
	}
	return &slogLogger{inner: inner}
}

func (l *slogLogger) WithField(key string, value any) Logger {
	return &slogLogger{inner: l.inner.With(key, value)}
}

func (l *slogLogger) Debugf(format string, args ...any) {
	l.inner.Debug(fmt.Sprintf(format, args...))
}

func (l *slogLogger) Infof(format string, args ...any) {
	l.inner.Info(fmt.Sprintf(format, args...))
}

func (l *slogLogger) Warnf(format string, args ...any) {
	l.inner.Warn(fmt.Sprintf(format, args...))
}

func (l *slogLogger) Errorf(format string, args ...any) {
	l.inner.Error(fmt.Sprintf(format, args...))
}
