package events

import (
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Emitter maps event names to ordered listener lists and dispatches emitted
// argument vectors to them, synchronously and in registration order. The
// zero value is not usable; construct one with NewEmitter.
//
// All methods are safe for concurrent use. No lock is held while a listener
// runs, so listeners may freely call back into the emitter; mutations
// performed during a dispatch apply to subsequent dispatches, never to the
// one in flight.
type Emitter struct {
	mu   sync.RWMutex
	sets map[string]*listenerSet

	maxListeners atomic.Int32
	capture      bool
	log          Logger
}

var _ EventEmitter = (*Emitter)(nil)

// NewEmitter creates an Emitter. The listener ceiling starts at the
// process-wide default in effect at construction time.
func NewEmitter(opts ...Option) *Emitter {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &Emitter{
		sets:    make(map[string]*listenerSet),
		capture: cfg.captureFailures,
		log:     cfg.logger.WithField("type", "event_emitter"),
	}
	e.maxListeners.Store(processMaxListeners.Load())
	return e
}

// On registers listener to run every time event is emitted, after the
// listeners already present. The listener must be a non-nil function; its
// signature is adapted once, at registration time (see DispatchFunc and the
// package documentation for the accepted shapes).
func (e *Emitter) On(event string, listener any) error {
	return e.subscribe(event, listener, false, false)
}

// AddListener is an alias for On.
func (e *Emitter) AddListener(event string, listener any) error {
	return e.On(event, listener)
}

// Once registers listener to run at most once. The entry removes itself
// right before its first invocation, so even dispatches racing from several
// goroutines invoke it exactly once.
func (e *Emitter) Once(event string, listener any) error {
	return e.subscribe(event, listener, false, true)
}

// PrependListener registers listener at the front of the event's listener
// list, so it runs before the listeners already present.
func (e *Emitter) PrependListener(event string, listener any) error {
	return e.subscribe(event, listener, true, false)
}

// PrependOnceListener registers a once listener at the front of the event's
// listener list.
func (e *Emitter) PrependOnceListener(event string, listener any) error {
	return e.subscribe(event, listener, true, true)
}

func (e *Emitter) subscribe(event string, listener any, front, once bool) error {
	identity, ok := identityOf(listener)
	if !ok {
		return errors.Wrapf(ErrInvalidListener, "on %q: %T", event, listener)
	}

	en := &listenerEntry{listener: listener, identity: identity}
	adapted := e.adaptListener(event, listener)
	if once {
		en.invoke = e.onceShim(event, en, adapted)
	} else {
		en.invoke = adapted
	}

	if e.exceedsCeiling(event) {
		e.log.Warnf("listener ceiling (%d) reached on %q, listener discarded",
			e.MaxListeners(), event)
		return nil
	}

	// Fires strictly before insertion, so listeners registered for the same
	// event from inside the notification end up ahead of this one.
	e.emit(EventNewListener, []any{event, listener})

	e.mu.Lock()
	set := e.sets[event]
	if set == nil {
		set = newListenerSet()
		e.sets[event] = set
	}
	if front {
		set.prepend(en)
	} else {
		set.append(en)
	}
	e.mu.Unlock()

	return nil
}

// onceShim wraps a once listener's invoker. The first claim removes the
// entry and emits EventRemoveListener before invoking the listener, so a
// re-entrant or racing dispatch that still holds the entry in its snapshot
// can never run it twice.
func (e *Emitter) onceShim(event string, en *listenerEntry, invoke DispatchFunc) DispatchFunc {
	return func(args ...any) error {
		if !en.fired.CompareAndSwap(false, true) {
			return nil
		}
		e.removeEntry(event, en)
		return invoke(args...)
	}
}

func (e *Emitter) removeEntry(event string, en *listenerEntry) {
	e.mu.Lock()
	set := e.sets[event]
	if set == nil || !set.removeEntry(en) {
		e.mu.Unlock()
		return
	}
	if set.count() == 0 {
		delete(e.sets, event)
	}
	e.mu.Unlock()

	e.emit(EventRemoveListener, []any{event, en.listener})
}

// RemoveListener removes the first occurrence of listener from the event's
// listener list and reports whether an entry was removed. Listeners are
// matched by function identity: distinct closures over the same literal are
// indistinguishable, and the first match wins when a function is registered
// more than once. A successful removal emits EventRemoveListener.
func (e *Emitter) RemoveListener(event string, listener any) bool {
	identity, ok := identityOf(listener)
	if !ok {
		return false
	}

	e.mu.Lock()
	set := e.sets[event]
	if set == nil {
		e.mu.Unlock()
		return false
	}
	en, removed := set.remove(identity)
	if removed && set.count() == 0 {
		delete(e.sets, event)
	}
	e.mu.Unlock()

	if !removed {
		return false
	}
	e.emit(EventRemoveListener, []any{event, en.listener})
	return true
}

// Off is an alias for RemoveListener.
func (e *Emitter) Off(event string, listener any) bool {
	return e.RemoveListener(event, listener)
}

// RemoveAllListeners drops every listener of the given events, or of all
// events when called with no arguments. Bulk removal emits no
// EventRemoveListener notifications.
func (e *Emitter) RemoveAllListeners(events ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(events) == 0 {
		for name, set := range e.sets {
			set.clear()
			delete(e.sets, name)
		}
		return
	}
	for _, name := range events {
		if set := e.sets[name]; set != nil {
			set.clear()
			delete(e.sets, name)
		}
	}
}

// Emit invokes the listeners registered for event, synchronously and in
// registration order, passing args to each one. It reports whether the
// event had listeners at the time of the call.
//
// A listener failure never prevents the remaining listeners from running:
// failures go to the EventError listeners when any are registered, are
// otherwise logged and swallowed, or, when failure capturing was disabled
// with WithCaptureFailures(false), make Emit panic with the combined
// failures once the whole dispatch has completed.
func (e *Emitter) Emit(event string, args ...any) bool {
	return e.emit(event, args)
}

func (e *Emitter) emit(event string, args []any) bool {
	e.mu.RLock()
	set := e.sets[event]
	e.mu.RUnlock()
	if set == nil {
		return false
	}

	var deferred []error
	had := set.dispatch(args, func(err error) {
		e.routeFailure(event, err, &deferred)
	})

	if len(deferred) > 0 {
		panic(multierr.Combine(deferred...))
	}
	return had
}

// routeFailure reports one contained listener failure exactly once: to the
// EventError listeners when any are registered, to the log when capturing
// failures, and otherwise onto the deferred list the calling Emit re-throws.
// Failures raised by EventError listeners themselves only reach the log, so
// a failing error listener cannot re-enter the error channel. Deferred
// outcomes arrive with a nil deferred list and are never re-thrown.
func (e *Emitter) routeFailure(event string, err error, deferred *[]error) {
	failure := newDispatchError(event, err)

	if event == EventError {
		e.log.Errorf("error listener failed: %s", failure)
		return
	}
	if e.emit(EventError, []any{event, failure}) {
		return
	}
	if e.capture || deferred == nil {
		e.log.Warnf("unhandled listener failure: %s", failure)
		return
	}
	*deferred = append(*deferred, failure)
}

// watchOutcome observes a deferred listener outcome without blocking the
// dispatch that produced it. The watcher consumes at most one value and
// exits; outcome channels must eventually send or close.
func (e *Emitter) watchOutcome(event string, ch <-chan error) {
	if ch == nil {
		return
	}
	go func() {
		err, ok := <-ch
		if !ok || err == nil {
			return
		}
		e.routeFailure(event, err, nil)
	}()
}

// EventNames returns the names that currently have at least one listener,
// in no particular order.
func (e *Emitter) EventNames() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.sets))
	for name := range e.sets {
		names = append(names, name)
	}
	return names
}

// Listeners returns the listeners registered for event, as supplied by the
// caller, in invocation order.
func (e *Emitter) Listeners(event string) []any {
	e.mu.RLock()
	set := e.sets[event]
	e.mu.RUnlock()
	if set == nil {
		return nil
	}
	return set.listeners()
}

// RawListeners returns the dispatch-ready invokers for event, in invocation
// order. Once listeners appear as their self-removing shim: calling the shim
// directly consumes the single invocation, and a shim whose listener already
// ran does nothing.
func (e *Emitter) RawListeners(event string) []DispatchFunc {
	e.mu.RLock()
	set := e.sets[event]
	e.mu.RUnlock()
	if set == nil {
		return nil
	}
	return set.rawListeners()
}

// ListenerCount returns the number of listeners registered for event. When
// listener is given, only entries matching that function's identity are
// counted.
func (e *Emitter) ListenerCount(event string, listener ...any) int {
	e.mu.RLock()
	set := e.sets[event]
	e.mu.RUnlock()
	if set == nil {
		return 0
	}
	if len(listener) == 0 {
		return set.count()
	}
	identity, ok := identityOf(listener[0])
	if !ok {
		return 0
	}
	return set.countOf(identity)
}

func (e *Emitter) listenerCount(event string) int {
	e.mu.RLock()
	set := e.sets[event]
	e.mu.RUnlock()
	if set == nil {
		return 0
	}
	return set.count()
}

func (e *Emitter) exceedsCeiling(event string) bool {
	limit := int(e.maxListeners.Load())
	if limit <= 0 {
		return false
	}
	return e.listenerCount(event) >= limit
}

// MaxListeners returns this emitter's per-event listener ceiling. Zero means
// the ceiling is disabled.
func (e *Emitter) MaxListeners() int {
	return int(e.maxListeners.Load())
}

// SetMaxListeners changes this emitter's per-event listener ceiling. Zero
// disables it; negative values are ignored. The ceiling is advisory:
// registrations racing on the same event can overshoot it by the number of
// concurrent subscribers.
func (e *Emitter) SetMaxListeners(n int) {
	if n < 0 {
		return
	}
	e.maxListeners.Store(clampCeiling(n))
}
