package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/navstack/pkg/domain"
)

// Store implements ports.StateStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Stack
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Stack),
	}
}

// Save persists a copy of the stack in memory.
func (s *Store) Save(ctx context.Context, sessionID string, stack *domain.Stack) error {
	copied := stack.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = copied
	return nil
}

// Load retrieves the stack from memory.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.Stack, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stack, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	// Copy on read so caller can't mutate store state directly by pointer
	return stack.Clone(), nil
}

// Delete removes the stack.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns known sessions, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]string, 0, len(s.data))
	for id := range s.data {
		sessions = append(sessions, id)
	}
	sort.Strings(sessions)
	return sessions, nil
}
