package state

import "sync"

// Store serializes every action through Reduce. It is the only writer of
// the session state; readers get deep copies.
type Store struct {
	mu        sync.Mutex
	state     State
	env       Env
	listeners map[int]func(State)
	nextID    int
}

// NewStore creates a store holding initial.
func NewStore(initial State, env Env) *Store {
	return &Store{
		state:     initial.Clone(),
		env:       env.withDefaults(),
		listeners: make(map[int]func(State)),
	}
}

// Dispatch applies a atomically and returns the resulting snapshot.
// Listeners are notified after the lock is released.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	s.state = Reduce(s.state, a, s.env)
	snapshot := s.state.Clone()
	listeners := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot.Clone())
	}
	return snapshot
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe registers fn to receive a snapshot after every dispatch.
// The returned function removes the listener.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Env returns the collaborators the store was created with.
func (s *Store) Env() Env {
	return s.env
}
