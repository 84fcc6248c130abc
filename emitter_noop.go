package events

// NoopEmitter is an EventEmitter that registers nothing, dispatches nothing
// and reports nothing. It serves hosts that want eventing switched off
// without branching at every call site.
type NoopEmitter struct{}

var _ EventEmitter = NoopEmitter{}

func (NoopEmitter) On(string, any) error { return nil }

func (NoopEmitter) AddListener(string, any) error { return nil }

func (NoopEmitter) Once(string, any) error { return nil }

func (NoopEmitter) PrependListener(string, any) error { return nil }

func (NoopEmitter) PrependOnceListener(string, any) error { return nil }

func (NoopEmitter) RemoveListener(string, any) bool { return false }

func (NoopEmitter) Off(string, any) bool { return false }

func (NoopEmitter) RemoveAllListeners(...string) {}

func (NoopEmitter) Emit(string, ...any) bool { return false }

func (NoopEmitter) EventNames() []string { return nil }

func (NoopEmitter) Listeners(string) []any { return nil }

func (NoopEmitter) RawListeners(string) []DispatchFunc { return nil }

func (NoopEmitter) ListenerCount(string, ...any) int { return 0 }

func (NoopEmitter) MaxListeners() int { return 0 }

func (NoopEmitter) SetMaxListeners(int) {}
