package catalog

import (
	"sync/atomic"
)

// Store holds the current table set. Readers take a snapshot with Load and use it
// for a whole calculation; Replace swaps the full set in a single pointer store.
type Store struct {
	current atomic.Pointer[TableSet]
}

// NewStore creates a store seeded with ts, or with the built-in tables when ts is nil.
func NewStore(ts *TableSet) *Store {
	if ts == nil {
		ts = Builtin()
	}
	s := &Store{}
	s.current.Store(ts)
	return s
}

// Load returns the current snapshot.
func (s *Store) Load() *TableSet {
	return s.current.Load()
}

// Replace installs ts as the current snapshot and returns the previous one.
// A nil ts is ignored.
func (s *Store) Replace(ts *TableSet) *TableSet {
	if ts == nil {
		return s.current.Load()
	}
	return s.current.Swap(ts)
}

// Reset restores the built-in tables.
func (s *Store) Reset() *TableSet {
	return s.Replace(Builtin())
}
