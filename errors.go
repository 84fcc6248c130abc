package events

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrInvalidListener = errors.New("listener is not a function")
	ErrListenerPanic   = errors.New("listener panicked")
	ErrArgumentType    = errors.New("argument type mismatch")
)

// DispatchError is a listener failure tagged with the event it occurred on.
// Failures delivered to EventError listeners, logged, or re-thrown by Emit
// are of this type; the underlying cause remains reachable through Unwrap.
type DispatchError struct {
	event string
	err   error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch %q: %s", e.event, e.err)
}

func (e *DispatchError) Unwrap() error { return e.err }

// Event returns the name of the event whose dispatch failed.
func (e *DispatchError) Event() string { return e.event }

func newDispatchError(event string, err error) *DispatchError {
	return &DispatchError{event: event, err: err}
}
