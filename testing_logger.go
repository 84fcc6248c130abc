package events

import (
	"fmt"
	"strings"
	"sync"
)

// recordingLogger is a Logger that keeps every rendered line so tests can
// assert on what the emitter reported. WithField children share the parent's
// line buffer.
type recordingLogger struct {
	mu     *sync.Mutex
	lines  *[]string
	fields map[string]any
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{
		mu:     &sync.Mutex{},
		lines:  &[]string{},
		fields: make(map[string]any),
	}
}

func (l *recordingLogger) WithField(key string, value any) Logger {
	child := &recordingLogger{
		mu:     l.mu,
		lines:  l.lines,
		fields: make(map[string]any, len(l.fields)+1),
	}
	for k, v := range l.fields {
		child.fields[k] = v
	}
	child.fields[key] = value
	return child
}

func (l *recordingLogger) record(level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	*l.lines = append(*l.lines, level+": "+fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Debugf(format string, args ...any) {
	l.record("DEBUG", format, args...)
}

func (l *recordingLogger) Infof(format string, args ...any) {
	l.record("INFO", format, args...)
}

func (l *recordingLogger) Warnf(format string, args ...any) {
	l.record("WARN", format, args...)
}

func (l *recordingLogger) Errorf(format string, args ...any) {
	l.record("ERROR", format, args...)
}

func (l *recordingLogger) entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]string{}, *l.lines...)
}

func (l *recordingLogger) contains(substr string) bool {
	for _, line := range l.entries() {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}
