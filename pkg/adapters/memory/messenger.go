package memory

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/aretw0/navstack/pkg/domain"
	"github.com/google/uuid"
)

// DefaultServicesURL is the operator-provided auth server used by AuthenticateViaDefault.
const DefaultServicesURL = "https://services.berty.tech/auth"

// Authenticator resolves the services advertised by an auth server.
type Authenticator func(ctx context.Context, authURL string) ([]domain.Service, error)

// Messenger implements ports.Messenger in memory.
// Safe for concurrent use.
type Messenger struct {
	mu       sync.RWMutex
	state    domain.AppState
	services []domain.Service
	watchers map[chan domain.AppState]struct{}
	auth     Authenticator
}

// MessengerOption configures a Messenger.
type MessengerOption func(*Messenger)

// WithAppState sets the initial lifecycle state.
func WithAppState(state domain.AppState) MessengerOption {
	return func(m *Messenger) {
		m.state = state
	}
}

// WithAuthenticator replaces the default authenticator.
func WithAuthenticator(auth Authenticator) MessengerOption {
	return func(m *Messenger) {
		m.auth = auth
	}
}

// WithServices pre-registers services.
func WithServices(services ...domain.Service) MessengerOption {
	return func(m *Messenger) {
		m.services = append(m.services, services...)
	}
}

// NewMessenger creates a messenger in the Init state.
func NewMessenger(opts ...MessengerOption) *Messenger {
	m := &Messenger{
		state:    domain.AppStateInit,
		watchers: make(map[chan domain.AppState]struct{}),
		auth:     defaultAuthenticator,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func defaultAuthenticator(ctx context.Context, authURL string) ([]domain.Service, error) {
	token := uuid.NewString()
	return []domain.Service{
		{TokenID: token, ServiceType: "rpl", AuthenticationURL: authURL},
		{TokenID: token, ServiceType: "psh", AuthenticationURL: authURL},
	}, nil
}

// AppState returns the current lifecycle state.
func (m *Messenger) AppState() domain.AppState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// SetAppState moves the messenger to state and notifies watchers.
// Watchers that fall behind only keep the latest value.
func (m *Messenger) SetAppState(state domain.AppState) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = state
	for ch := range m.watchers {
		offerLatest(ch, state)
	}
}

func offerLatest(ch chan domain.AppState, state domain.AppState) {
	for {
		select {
		case ch <- state:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// WatchAppState streams lifecycle states, starting with the current one, until ctx is done.
func (m *Messenger) WatchAppState(ctx context.Context) <-chan domain.AppState {
	ch := make(chan domain.AppState, 16)

	m.mu.Lock()
	ch <- m.state
	m.watchers[ch] = struct{}{}
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		delete(m.watchers, ch)
		close(ch)
		m.mu.Unlock()
	}()

	return ch
}

// AuthenticateViaDefault registers the services of DefaultServicesURL.
func (m *Messenger) AuthenticateViaDefault(ctx context.Context) error {
	return m.AuthenticateViaURL(ctx, DefaultServicesURL)
}

// AuthenticateViaURL registers the services advertised at rawURL.
func (m *Messenger) AuthenticateViaURL(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid services url: %w", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("invalid services url %q: must be absolute", rawURL)
	}

	services, err := m.auth(ctx, rawURL)
	if err != nil {
		return fmt.Errorf("services auth failed: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.services = append(m.services, services...)
	return nil
}

// Services lists the registered services.
func (m *Messenger) Services(ctx context.Context) ([]domain.Service, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Service, len(m.services))
	copy(out, m.services)
	return out, nil
}

// Notifier records in-app notifications.
type Notifier struct {
	mu          sync.Mutex
	needRestart int
}

// NeedRestart records a restart prompt.
func (n *Notifier) NeedRestart(ctx context.Context) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.needRestart++
}

// NeedRestartCount returns how many restart prompts were shown.
func (n *Notifier) NeedRestartCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.needRestart
}
