package ports

import (
	"context"

	"github.com/aretw0/navstack/pkg/domain"
)

// StateStore defines the interface for persisting navigation stacks.
type StateStore interface {
	// Save persists the stack for a given session ID.
	Save(ctx context.Context, sessionID string, stack *domain.Stack) error

	// Load retrieves the stack for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Stack, error)

	// Delete removes the stack for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the known session IDs.
	List(ctx context.Context) ([]string, error)
}
