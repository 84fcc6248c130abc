package events

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMaxListenersApplied(t *testing.T) {
	em := NewEmitter()

	assert.Equal(t, DefaultMaxListeners, em.MaxListeners())
}

func TestSetDefaultMaxListenersAffectsNewEmittersOnly(t *testing.T) {
	t.Cleanup(func() { SetDefaultMaxListeners(DefaultMaxListeners) })

	before := NewEmitter()
	SetDefaultMaxListeners(3)
	after := NewEmitter()

	assert.Equal(t, DefaultMaxListeners, before.MaxListeners(),
		"emitters keep the default they were constructed with")
	assert.Equal(t, 3, after.MaxListeners())
}

func TestSetDefaultMaxListenersNegativeIgnored(t *testing.T) {
	t.Cleanup(func() { SetDefaultMaxListeners(DefaultMaxListeners) })

	SetDefaultMaxListeners(-1)
	assert.Equal(t, DefaultMaxListeners, NewEmitter().MaxListeners())
}

func TestMaxListenersHugeCeilingClamped(t *testing.T) {
	t.Cleanup(func() { SetDefaultMaxListeners(DefaultMaxListeners) })

	em := NewEmitter()
	em.SetMaxListeners(math.MaxInt)
	assert.Equal(t, math.MaxInt32, em.MaxListeners(),
		"an oversized ceiling stays a ceiling instead of wrapping")

	SetDefaultMaxListeners(math.MaxInt)
	assert.Equal(t, math.MaxInt32, NewEmitter().MaxListeners())
}

func TestCeilingSuppressionLogged(t *testing.T) {
	log := newRecordingLogger()
	em := NewEmitter(WithLogger(log))
	em.SetMaxListeners(1)

	require.NoError(t, em.On("event", func() {}))
	require.NoError(t, em.On("event", func() {}))

	assert.Equal(t, 1, em.ListenerCount("event"))
	assert.True(t, log.contains("listener ceiling"), "log: %v", log.entries())
}

func TestWithLoggerNilKeepsDefault(t *testing.T) {
	em := NewEmitter(WithLogger(nil))
	em.SetMaxListeners(1)

	// The default logger discards everything; this must not panic.
	require.NoError(t, em.On("event", func() {}))
	require.NoError(t, em.On("event", func() {}))
	assert.Equal(t, 1, em.ListenerCount("event"))
}

func TestWithCaptureFailuresDefault(t *testing.T) {
	em := NewEmitter()

	require.NoError(t, em.On("event", func() { panic("contained") }))
	assert.NotPanics(t, func() { em.Emit("event") })
}
