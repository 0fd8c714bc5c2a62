package state

import "sync"

// Store owns the live session state. All mutation funnels through Dispatch,
// which serializes action application behind one mutex, so no two actions
// ever interleave. Snapshots returned by State remain valid after later
// dispatches because the reducer never mutates shared slices or maps.
type Store struct {
	mu       sync.Mutex
	state    State
	revision uint64
}

func NewStore(initial State) *Store {
	return &Store{state: initial}
}

// Dispatch applies one action.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Apply(s.state, a)
	s.revision++
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Revision counts applied actions. It moves on every dispatch, which makes
// it usable as a cache key for derived views.
func (s *Store) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// Snapshot returns the current state together with its revision under a
// single lock acquisition, so the pair is never torn by a concurrent
// dispatch.
func (s *Store) Snapshot() (State, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.revision
}
