// Package groupcreate holds the member selection shared by the two
// group-creation screens.
package groupcreate

import (
	"sync"

	"github.com/aretw0/navstack/pkg/domain"
)

// Selection is an ordered set of contacts keyed by public key.
// It lives as long as one group-creation flow.
type Selection struct {
	mu      sync.RWMutex
	members []domain.Contact
}

// New returns an empty selection.
func New() *Selection {
	return &Selection{}
}

// AddIfAbsent appends c unless a member with the same public key is present.
// It reports whether c was added.
func (s *Selection) AddIfAbsent(c domain.Contact) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(c.PublicKey) >= 0 {
		return false
	}
	s.members = append(s.members, c)
	return true
}

// RemoveByKey removes the member with publicKey. It reports whether one was removed.
func (s *Selection) RemoveByKey(publicKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(publicKey)
	if i < 0 {
		return false
	}
	s.members = append(s.members[:i:i], s.members[i+1:]...)
	return true
}

// Has reports whether publicKey is selected.
func (s *Selection) Has(publicKey string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(publicKey) >= 0
}

// Members returns a copy of the selection in insertion order.
func (s *Selection) Members() []domain.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Contact, len(s.members))
	copy(out, s.members)
	return out
}

// Len returns the number of selected members.
func (s *Selection) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.members)
}

// Reset discards every member.
func (s *Selection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members = nil
}

func (s *Selection) indexOf(publicKey string) int {
	for i, m := range s.members {
		if m.PublicKey == publicKey {
			return i
		}
	}
	return -1
}
