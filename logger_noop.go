package events

type noopLogger struct{}

func (noopLogger) WithField(string, any) Logger { return noopLogger{} }

func (noopLogger) Debugf(string, ...any) {}

func (noopLogger) Infof(string, ...any) {}

func (noopLogger) Warnf(string, ...any) {}

func (noopLogger) Errorf(string, ...any) {}
