package events

import (
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

// listenerEntry is one registered listener: the caller-supplied value, kept
// for Listeners and removal notifications, its identity key, and the adapted
// invoker. For once listeners the invoker is the self-removing shim.
type listenerEntry struct {
	listener any
	identity uintptr
	invoke   DispatchFunc

	// fired is claimed by the once shim so that racing dispatches invoke the
	// listener exactly once.
	fired atomic.Bool
	// removed suppresses entries that were removed after a dispatch had
	// already snapshotted them.
	removed atomic.Bool
}

func (en *listenerEntry) safeInvoke(args []any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrapf(ErrListenerPanic, "%v", r)
		}
	}()
	return en.invoke(args...)
}

// listenerSet is the ordered listener list of a single event name. The
// registry mutates it only while holding the registry write lock; the set's
// own lock additionally serializes those mutations against dispatches and
// readers, which hold no registry lock while touching entries.
type listenerSet struct {
	mu      sync.Mutex
	entries []*listenerEntry
}

func newListenerSet() *listenerSet {
	return &listenerSet{}
}

func (s *listenerSet) append(en *listenerEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, en)
}

func (s *listenerSet) prepend(en *listenerEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append([]*listenerEntry{en}, s.entries...)
}

// remove drops the first entry matching identity and returns it. Entries
// already snapshotted by an in-flight dispatch see their removed flag and
// are skipped.
func (s *listenerSet) remove(identity uintptr) (*listenerEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, en := range s.entries {
		if en.identity == identity {
			en.removed.Store(true)
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return en, true
		}
	}
	return nil, false
}

// removeEntry drops exactly the given entry, matching by pointer. Once shims
// use it so that duplicate registrations of the same function remove only
// their own entry.
func (s *listenerSet) removeEntry(target *listenerEntry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, en := range s.entries {
		if en == target {
			en.removed.Store(true)
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (s *listenerSet) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, en := range s.entries {
		en.removed.Store(true)
	}
	s.entries = nil
}

func (s *listenerSet) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}

func (s *listenerSet) countOf(identity uintptr) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, en := range s.entries {
		if en.identity == identity {
			n++
		}
	}
	return n
}

func (s *listenerSet) listeners() []any {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]any, 0, len(s.entries))
	for _, en := range s.entries {
		out = append(out, en.listener)
	}
	return out
}

func (s *listenerSet) rawListeners() []DispatchFunc {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]DispatchFunc, 0, len(s.entries))
	for _, en := range s.entries {
		out = append(out, en.invoke)
	}
	return out
}

func (s *listenerSet) snapshot() []*listenerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]*listenerEntry{}, s.entries...)
}

// dispatch invokes the entries present when it starts, in order, with no
// lock held. Listeners added during the dispatch do not join it; listeners
// removed during it are skipped if not yet reached. Panics and returned
// errors are contained per entry and handed to onFailure, so one failing
// listener never starves its siblings. It reports whether the snapshot had
// any entries.
func (s *listenerSet) dispatch(args []any, onFailure func(err error)) bool {
	entries := s.snapshot()
	if len(entries) == 0 {
		return false
	}

	for _, en := range entries {
		if en.removed.Load() {
			continue
		}
		if err := en.safeInvoke(args); err != nil {
			onFailure(err)
		}
	}
	return true
}
