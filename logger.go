package events

// Logger is the leveled, field-scoped logging surface the emitter reports
// through. Implementations must be safe for concurrent use.
type Logger interface {
	WithField(key string, value any) Logger
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}
