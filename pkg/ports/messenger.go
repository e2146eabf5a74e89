package ports

import (
	"context"

	"github.com/aretw0/navstack/pkg/domain"
)

// Messenger is the external messenger context.
// navstack only reads its lifecycle state and calls its services-auth operations.
type Messenger interface {
	// AppState returns the current lifecycle state.
	AppState() domain.AppState

	// WatchAppState streams lifecycle states until ctx is done.
	// Implementations send the current state first.
	WatchAppState(ctx context.Context) <-chan domain.AppState

	// AuthenticateViaDefault registers the operator-provided services.
	AuthenticateViaDefault(ctx context.Context) error

	// AuthenticateViaURL registers the services advertised at url.
	AuthenticateViaURL(ctx context.Context, url string) error

	// Services lists the services already registered on the account.
	Services(ctx context.Context) ([]domain.Service, error)
}

// Notifier shows the in-app notifications the peripheral screens rely on.
type Notifier interface {
	NeedRestart(ctx context.Context)
}
