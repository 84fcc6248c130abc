package events

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// writerLogger implements the Logger interface using an io.Writer
type writerLogger struct {
	mu     *sync.Mutex
	writer io.Writer
	fields map[string]any
}

// NewWriterLogger creates a new logger that writes to the provided writer
func NewWriterLogger(writer io.Writer) Logger {
	return &writerLogger{
		mu:     &sync.Mutex{},
		writer: writer,
		fields: make(map[string]any),
	}
}

func (l *writerLogger) WithField(key string, value any) Logger {
	newLogger := &writerLogger{
		mu:     l.mu,
		writer: l.writer,
		fields: make(map[string]any),
	}
	// Copy existing fields
	for k, v := range l.fields {
		newLogger.fields[k] = v
	}
	newLogger.fields[key] = value
	return newLogger
}

func (l *writerLogger) formatFields() string {
	if len(l.fields) == 0 {
		return ""
	}

	result := " ["
	first := true
	for k, v := range l.fields {
		if !first {
			result += ", "
		}
		result += fmt.Sprintf("%s=%v", k, v)
		first = false
	}
	result += "]"
	return result
}

func (l *writerLogger) log(level, msg string) {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	fields := l.formatFields()

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.writer, "[%s] %s%s: %s\n", timestamp, level, fields, msg)
}

func (l *writerLogger) Debugf(format string, args ...any) {
	l.log("DEBUG", fmt.Sprintf(format, args...))
}

func (l *writerLogger) Infof(format string, args ...any) {
	l.log("INFO", fmt.Sprintf(format, args...))
}

func (l *writerLogger) Warnf(format string, args ...any) {
	l.log("WARN", fmt.Sprintf(format, args...))
}

func (l *writerLogger) Errorf(format string, args ...any) {
	l.log("ERROR", fmt.Sprintf(format, args...))
}
