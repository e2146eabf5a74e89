package routes

import (
	"context"

	"github.com/aretw0/navstack/pkg/domain"
	"github.com/aretw0/navstack/pkg/ports"
)

// Props are handed to a screen when it is mounted.
type Props struct {
	// Route is the stack entry being shown, with its params.
	Route domain.Route
	// Nav is the navigation handle scoped to this screen.
	Nav ports.Dispatcher
}

// Unmount tears a mounted screen down.
type Unmount func()

// Component is a screen implementation supplied by the screens module.
type Component interface {
	Mount(ctx context.Context, props Props) (Unmount, error)
}

// ComponentFunc adapts a function to the Component interface.
type ComponentFunc func(ctx context.Context, props Props) (Unmount, error)

// Mount calls f.
func (f ComponentFunc) Mount(ctx context.Context, props Props) (Unmount, error) {
	return f(ctx, props)
}

// Screens is the component set supplied by the screens module.
type Screens map[domain.RouteName]Component

// Decorator wraps the component registered under name.
type Decorator func(name domain.RouteName, c Component) Component
