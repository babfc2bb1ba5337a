package session

import (
	"context"
	"sync"
)

type memoryStore struct {
	states map[string]*State
	mu     sync.RWMutex
}

// NewMemoryStore creates a Store backed by an in-memory map. State is
// deep-copied on both Load and Save so callers never alias store records.
func NewMemoryStore() Store {
	return &memoryStore{states: make(map[string]*State)}
}

func (s *memoryStore) Load(_ context.Context, sessionID string) (*State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[sessionID]
	if !ok {
		return NewState(), nil
	}
	return state.Clone(), nil
}

func (s *memoryStore) Save(_ context.Context, sessionID string, state *State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[sessionID] = state.Clone()
	return nil
}
