package ports

import (
	"context"

	"github.com/aretw0/navstack/pkg/domain"
)

// Dispatcher is the navigation dispatch surface.
// Screens receive a Dispatcher scoped to themselves; the lifecycle router receives the root one.
type Dispatcher interface {
	Dispatch(ctx context.Context, action domain.Action) error
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(ctx context.Context, action domain.Action) error

// Dispatch calls f.
func (f DispatcherFunc) Dispatch(ctx context.Context, action domain.Action) error {
	return f(ctx, action)
}
