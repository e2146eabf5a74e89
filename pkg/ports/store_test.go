package ports_test

import (
	"context"
	"sync"
	"testing"

	"github.com/aretw0/navstack/pkg/domain"
	"github.com/aretw0/navstack/pkg/ports"
)

// MockStore is an in-memory implementation of StateStore for testing purposes.
type MockStore struct {
	mu   sync.Mutex
	data map[string]*domain.Stack
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]*domain.Stack),
	}
}

func (m *MockStore) Save(ctx context.Context, sessionID string, stack *domain.Stack) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[sessionID] = stack.Clone()
	return nil
}

func (m *MockStore) Load(ctx context.Context, sessionID string) (*domain.Stack, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stack, ok := m.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return stack.Clone(), nil
}

func (m *MockStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, sessionID)
	return nil
}

func (m *MockStore) List(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.data))
	for id := range m.data {
		out = append(out, id)
	}
	return out, nil
}

func TestStateStore_Contract(t *testing.T) {
	ports.RunStateStoreContract(t, NewMockStore())
}

func TestDispatcherFunc(t *testing.T) {
	var got domain.Action
	d := ports.DispatcherFunc(func(ctx context.Context, a domain.Action) error {
		got = a
		return nil
	})

	want := domain.Back()
	if err := d.Dispatch(context.Background(), want); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != want.ID {
		t.Errorf("expected action %s, got %s", want.ID, got.ID)
	}
}
