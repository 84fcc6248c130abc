// Package events provides a thread-safe emitter that maps named events to
// ordered listener lists and dispatches argument vectors to them
// synchronously, in registration order.
//
// Listeners are plain functions. Their shape is adapted once, at
// registration time: a func(...any) or a sole []any parameter receives the
// whole emitted vector, fixed parameters receive the corresponding argument
// or their zero value when the vector is shorter, and excess arguments are
// dropped. Typed parameters work as long as the emitted arguments are
// assignable to them; a mismatch fails that listener only. A result of type
// error reports a synchronous failure and a result of type <-chan error
// defers the outcome, which the emitter observes in the background.
//
// Failures never interrupt a dispatch: the remaining listeners still run.
// They are delivered to EventError listeners when any are registered,
// otherwise logged and swallowed, or re-thrown by the emitting call when
// the emitter was built with WithCaptureFailures(false).
//
// The emitter reports on its own activity through the reserved
// EventNewListener and EventRemoveListener events, and enforces an advisory
// per-event listener ceiling that discards and logs insertions beyond it.
package events
