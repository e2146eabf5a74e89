// Package lifecycle translates messenger lifecycle states into stack resets.
package lifecycle

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/navstack/internal/logging"
	"github.com/aretw0/navstack/pkg/domain"
	"github.com/aretw0/navstack/pkg/ports"
)

// ResetTarget returns the single route the stack is reset to when entering state.
// ok is false for states without a managed transition.
func ResetTarget(state domain.AppState) (target domain.RouteName, ok bool) {
	switch state {
	case domain.AppStateReady:
		return domain.RouteMainHome, true
	case domain.AppStatePreReady:
		return domain.RouteOnboardingSetupFinished, true
	case domain.AppStateGetStarted:
		return domain.RouteOnboardingGetStarted, true
	}
	return "", false
}

// InitialRoute picks the route a new stack starts on.
// Unmanaged states start on the home screen.
func InitialRoute(state domain.AppState) domain.RouteName {
	if target, ok := ResetTarget(state); ok {
		return target
	}
	return domain.RouteMainHome
}

// Router observes lifecycle states and resets the navigation stack on managed transitions.
type Router struct {
	nav    ports.Dispatcher
	hooks  domain.LifecycleHooks
	logger *slog.Logger

	mu   sync.Mutex
	last domain.AppState
	seen bool
}

// Option configures a Router.
type Option func(*Router)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Router) {
		r.hooks = hooks
	}
}

// WithInitialState seeds the last observed state, typically the one the stack was created from.
// Observing that same state again does not reset the stack.
func WithInitialState(state domain.AppState) Option {
	return func(r *Router) {
		r.last = state
		r.seen = true
	}
}

// NewRouter creates a router dispatching resets to nav.
func NewRouter(nav ports.Dispatcher, opts ...Option) *Router {
	r := &Router{
		nav:    nav,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Observe feeds one lifecycle state to the router.
// It dispatches a reset only when state differs from the previously observed value
// and the state has a managed transition. It reports whether a reset was dispatched.
func (r *Router) Observe(ctx context.Context, state domain.AppState) (bool, error) {
	r.mu.Lock()
	if r.seen && r.last == state {
		r.mu.Unlock()
		return false, nil
	}
	from := r.last
	r.last = state
	r.seen = true
	r.mu.Unlock()

	r.logger.Debug("app state changed", "from", from, "to", state)

	target, ok := ResetTarget(state)
	if !ok {
		return false, nil
	}

	if r.hooks.OnReset != nil {
		r.hooks.OnReset(ctx, &domain.LifecycleEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventReset},
			From:      from,
			To:        state,
			Target:    target,
		})
	}

	if err := r.nav.Dispatch(ctx, domain.Reset(target).WithSource(domain.SourceLifecycle)); err != nil {
		return false, err
	}
	return true, nil
}

// Run observes every state from updates until the channel closes or ctx is done.
func (r *Router) Run(ctx context.Context, updates <-chan domain.AppState) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case state, ok := <-updates:
			if !ok {
				return nil
			}
			if _, err := r.Observe(ctx, state); err != nil {
				r.logger.Warn("failed to reset stack", "state", state, "err", err)
			}
		}
	}
}

// Last returns the last observed state.
func (r *Router) Last() domain.AppState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}
