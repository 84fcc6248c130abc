package events

type (
	// EventEmitter is the interface that defines the behavior of an event emitter. This includes registering
	// listeners for named events, removing them, and dispatching argument vectors to them synchronously and in order.
	EventEmitter interface {
		// On registers listener to run every time event is emitted.
		// The listener is appended to the end of the event's listener list.
		On(event string, listener any) error

		// AddListener is an alias for On.
		AddListener(event string, listener any) error

		// Once registers listener to run at most once. The listener is removed
		// from the event's listener list right before its first invocation.
		Once(event string, listener any) error

		// PrependListener registers listener at the front of the event's listener list,
		// so it runs before the listeners already present.
		PrependListener(event string, listener any) error

		// PrependOnceListener registers a once listener at the front of the event's listener list.
		PrependOnceListener(event string, listener any) error

		// RemoveListener removes the first occurrence of listener from the event's
		// listener list. It reports whether an entry was removed.
		RemoveListener(event string, listener any) bool

		// Off is an alias for RemoveListener.
		Off(event string, listener any) bool

		// RemoveAllListeners drops every listener of the given events, or of all
		// events when called with no arguments. Bulk removal emits no
		// EventRemoveListener notifications.
		RemoveAllListeners(events ...string)

		// Emit invokes the listeners registered for event, synchronously and in
		// registration order, passing args to each one. It reports whether the
		// event had listeners at the time of the call.
		Emit(event string, args ...any) bool

		// EventNames returns the names that currently have at least one listener,
		// in no particular order.
		EventNames() []string

		// Listeners returns the listeners registered for event, as supplied by the
		// caller, in invocation order.
		Listeners(event string) []any

		// RawListeners returns the dispatch-ready invokers for event, including the
		// self-removing shims that wrap once listeners.
		RawListeners(event string) []DispatchFunc

		// ListenerCount returns the number of listeners registered for event. When
		// listener is given, only entries registered with that same function are
		// counted.
		ListenerCount(event string, listener ...any) int

		// MaxListeners returns this emitter's per-event listener ceiling. Zero
		// means the ceiling is disabled.
		MaxListeners() int

		// SetMaxListeners changes this emitter's per-event listener ceiling.
		// Negative values are ignored. The ceiling is advisory: registrations
		// racing on the same event can overshoot it by the number of
		// concurrent subscribers.
		SetMaxListeners(n int)
	}

	// DispatchFunc is a listener in its adapted, dispatch-ready form: it takes the
	// emitted argument vector and returns the listener's synchronous failure, if any.
	// Functions of this type may be registered directly and are dispatched as-is.
	DispatchFunc func(args ...any) error
)

// Reserved event names. They behave like any other event name, except that
// the emitter itself emits them to report on its own activity.
const (
	// EventNewListener fires right before a listener is inserted, with the
	// target event name and the listener value as arguments. Listeners
	// registered for the same event from inside the notification therefore
	// run ahead of the one being added.
	EventNewListener = "newListener"

	// EventRemoveListener fires after a listener has been removed, either
	// explicitly or by once semantics, with the event name and the listener
	// value as arguments.
	EventRemoveListener = "removeListener"

	// EventError receives listener failures: the event name the failure
	// occurred on and the failure itself. When no listener is registered for
	// it, failures are swallowed and logged, or re-thrown once dispatch
	// completes if failure capturing was disabled.
	EventError = "error"
)
