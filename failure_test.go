package events

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/multierr"
)

func TestPanickingListenerDoesNotStopSiblings(t *testing.T) {
	em := NewEmitter()
	var order []string

	require.NoError(t, em.On("event", func() { order = append(order, "first") }))
	require.NoError(t, em.On("event", func() { panic("kaboom") }))
	require.NoError(t, em.On("event", func() { order = append(order, "third") }))

	assert.True(t, em.Emit("event"), "capturing is the default, Emit must not panic")
	assert.Equal(t, []string{"first", "third"}, order)
}

func TestPanicRoutedToErrorListeners(t *testing.T) {
	em := NewEmitter()
	var gotEvent string
	var gotErr error

	require.NoError(t, em.On(EventError, func(event string, err error) {
		gotEvent, gotErr = event, err
	}))
	require.NoError(t, em.On("event", func() { panic("kaboom") }))

	em.Emit("event")

	assert.Equal(t, "event", gotEvent)
	require.Error(t, gotErr)
	assert.ErrorIs(t, gotErr, ErrListenerPanic)
	assert.Contains(t, gotErr.Error(), "kaboom")

	var derr *DispatchError
	require.ErrorAs(t, gotErr, &derr)
	assert.Equal(t, "event", derr.Event())
}

func TestFailureLoggedWhenCapturedWithoutErrorListener(t *testing.T) {
	log := newRecordingLogger()
	em := NewEmitter(WithLogger(log))

	require.NoError(t, em.On("event", func() error { return errors.New("boom") }))

	assert.True(t, em.Emit("event"))
	assert.True(t, log.contains("unhandled listener failure"), "log: %v", log.entries())
	assert.True(t, log.contains("boom"))
}

func TestFailuresRethrownWhenNotCaptured(t *testing.T) {
	em := NewEmitter(WithCaptureFailures(false))
	var order []string

	require.NoError(t, em.On("event", func() error {
		order = append(order, "first")
		return errors.New("first failure")
	}))
	require.NoError(t, em.On("event", func() {
		order = append(order, "second")
		panic("second failure")
	}))
	require.NoError(t, em.On("event", func() {
		order = append(order, "third")
	}))

	var recovered any
	func() {
		defer func() { recovered = recover() }()
		em.Emit("event")
	}()

	// Every sibling ran before the combined failures were re-thrown.
	assert.Equal(t, []string{"first", "second", "third"}, order)

	require.NotNil(t, recovered)
	err, ok := recovered.(error)
	require.True(t, ok, "the re-thrown value is an error, got %T", recovered)

	failures := multierr.Errors(err)
	require.Len(t, failures, 2)
	assert.Contains(t, failures[0].Error(), "first failure")
	assert.ErrorIs(t, failures[1], ErrListenerPanic)
}

func TestNotCapturedButErrorListenerPresent(t *testing.T) {
	em := NewEmitter(WithCaptureFailures(false))
	handled := 0

	require.NoError(t, em.On(EventError, func(string, error) { handled++ }))
	require.NoError(t, em.On("event", func() error { return errors.New("boom") }))

	assert.NotPanics(t, func() { em.Emit("event") })
	assert.Equal(t, 1, handled, "a delivered failure is never re-thrown")
}

func TestErrorListenerFailureOnlyLogged(t *testing.T) {
	log := newRecordingLogger()
	em := NewEmitter(WithLogger(log))
	handled := 0

	require.NoError(t, em.On(EventError, func(string, error) {
		handled++
		panic("the error listener itself is broken")
	}))
	require.NoError(t, em.On("event", func() error { return errors.New("boom") }))

	assert.NotPanics(t, func() { em.Emit("event") })
	assert.Equal(t, 1, handled, "the failing error listener ran once, with no recursion")
	assert.True(t, log.contains("error listener failed"), "log: %v", log.entries())
}

func TestEmitOnErrorEventDirectly(t *testing.T) {
	em := NewEmitter()
	var gotEvent string

	require.NoError(t, em.On(EventError, func(event string, _ error) { gotEvent = event }))

	// EventError is an ordinary event name for hosts that emit it manually.
	assert.True(t, em.Emit(EventError, "upstream", errors.New("boom")))
	assert.Equal(t, "upstream", gotEvent)
}

func TestAsyncFailureNeverRethrown(t *testing.T) {
	defer goleak.VerifyNone(t)

	log := newRecordingLogger()
	em := NewEmitter(WithCaptureFailures(false), WithLogger(log))

	outcome := make(chan error, 1)
	require.NoError(t, em.On("job", func(...any) <-chan error { return outcome }))

	assert.NotPanics(t, func() { em.Emit("job") })
	outcome <- errors.New("too late to throw")

	require.Eventually(t, func() bool {
		return log.contains("too late to throw")
	}, time.Second, 5*time.Millisecond)
	assert.True(t, log.contains("unhandled listener failure"))
}

func TestFailureReportedOncePerListener(t *testing.T) {
	em := NewEmitter()
	var failures []error

	require.NoError(t, em.On(EventError, func(_ string, err error) {
		failures = append(failures, err)
	}))
	require.NoError(t, em.On("event", func() error { return errors.New("one") }))
	require.NoError(t, em.On("event", func() error { return errors.New("two") }))

	em.Emit("event")
	require.Len(t, failures, 2)
	assert.Contains(t, failures[0].Error(), "one")
	assert.Contains(t, failures[1].Error(), "two")
}
