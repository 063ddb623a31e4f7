package catalog

import "sync/atomic"

// Store publishes the current snapshot. Readers take the pointer once per quote;
// a reload swaps it without blocking them.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// NewStore creates a store holding the initial snapshot (which may be nil)
func NewStore(initial *Snapshot) *Store {
	s := &Store{}
	if initial != nil {
		s.current.Store(initial)
	}
	return s
}

// Current returns the snapshot in effect, or nil if none has been loaded
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Swap installs next and returns the snapshot it replaced
func (s *Store) Swap(next *Snapshot) *Snapshot {
	return s.current.Swap(next)
}
