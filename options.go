package events

import (
	"math"
	"sync/atomic"
)

// DefaultMaxListeners is the initial process-wide listener ceiling applied
// to newly constructed emitters.
const DefaultMaxListeners = 10

var processMaxListeners atomic.Int32

func init() {
	processMaxListeners.Store(DefaultMaxListeners)
}

// clampCeiling narrows a non-negative ceiling to the stored width. Values
// beyond MaxInt32 stay a ceiling instead of wrapping.
func clampCeiling(n int) int32 {
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(n)
}

// SetDefaultMaxListeners changes the process-wide default ceiling used by
// emitters constructed afterwards. Emitters already built keep the ceiling
// they were constructed with. Zero disables the ceiling; negative values
// are ignored.
func SetDefaultMaxListeners(n int) {
	if n < 0 {
		return
	}
	processMaxListeners.Store(clampCeiling(n))
}

type options struct {
	captureFailures bool
	logger          Logger
}

func defaultOptions() options {
	return options{
		captureFailures: true,
		logger:          noopLogger{},
	}
}

// Option configures an Emitter at construction time.
type Option func(*options)

// WithCaptureFailures controls what happens to a listener failure that no
// EventError listener receives: captured and logged when true, which is the
// default, or re-thrown as a panic by the emitting call when false.
func WithCaptureFailures(capture bool) Option {
	return func(o *options) {
		o.captureFailures = capture
	}
}

// WithLogger sets the logger the emitter reports suppressed insertions and
// swallowed failures through. The default discards everything.
func WithLogger(l Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
