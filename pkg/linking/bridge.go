package linking

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/navstack/internal/logging"
	"github.com/aretw0/navstack/pkg/domain"
	"github.com/aretw0/navstack/pkg/ports"
)

// Qualifies decides whether a snapshot must produce a dispatch.
// reason is set for snapshots that hold a URL but are suppressed.
func Qualifies(s Snapshot) (ok bool, reason string) {
	switch {
	case s.URL == "":
		return false, ""
	case s.Err != nil:
		return false, domain.SuppressCaptureError
	case strings.HasPrefix(s.URL, domain.ServicesAuthPrefix):
		return false, domain.SuppressReserved
	}
	return true, ""
}

// Bridge forwards qualifying deep links of one Listener to a screen's navigation handle.
type Bridge struct {
	listener *Listener
	nav      ports.Dispatcher
	screen   domain.RouteName
	hooks    domain.LifecycleHooks
	logger   *slog.Logger

	mu     sync.Mutex
	ctx    context.Context
	cancel func()
}

// BridgeOption configures a Bridge.
type BridgeOption func(*Bridge)

// WithScreen records the screen the bridge is mounted on (used in events and logs).
func WithScreen(name domain.RouteName) BridgeOption {
	return func(b *Bridge) {
		b.screen = name
	}
}

// WithBridgeHooks registers observability hooks.
func WithBridgeHooks(hooks domain.LifecycleHooks) BridgeOption {
	return func(b *Bridge) {
		b.hooks = hooks
	}
}

// WithBridgeLogger configures the structured logger.
func WithBridgeLogger(logger *slog.Logger) BridgeOption {
	return func(b *Bridge) {
		b.logger = logger
	}
}

// NewBridge creates an unmounted bridge.
func NewBridge(listener *Listener, nav ports.Dispatcher, opts ...BridgeOption) *Bridge {
	b := &Bridge{
		listener: listener,
		nav:      nav,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Mount starts observing the listener and activates it.
func (b *Bridge) Mount(ctx context.Context) {
	b.mu.Lock()
	if b.cancel != nil {
		b.mu.Unlock()
		return
	}
	b.ctx = ctx
	b.cancel = b.listener.Observe(b.onChange)
	b.mu.Unlock()

	b.listener.Start(ctx)
}

// Unmount deactivates the listener and stops observing it.
func (b *Bridge) Unmount() {
	b.listener.Stop()

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cancel != nil {
		b.cancel()
	}
}

func (b *Bridge) onChange(s Snapshot) {
	b.mu.Lock()
	ctx := b.ctx
	b.mu.Unlock()

	ok, reason := Qualifies(s)
	if !ok {
		if reason != "" {
			b.logger.Debug("deep link suppressed", "url", s.URL, "reason", reason, "screen", b.screen)
			if b.hooks.OnSuppressed != nil {
				b.hooks.OnSuppressed(ctx, b.event(domain.EventSuppressed, s.URL, reason))
			}
		}
		return
	}

	if b.hooks.OnDeepLink != nil {
		b.hooks.OnDeepLink(ctx, b.event(domain.EventDeepLink, s.URL, ""))
	}

	params := domain.DeepLinkParams{Type: domain.DeepLinkKind, Value: s.URL}
	action := domain.Navigate(domain.RouteModalsManageDeepLink, params.Map()).WithSource(domain.SourceDeepLink)
	if err := b.nav.Dispatch(ctx, action); err != nil {
		b.logger.Warn("failed to dispatch deep link", "url", s.URL, "screen", b.screen, "err", err)
	}
}

func (b *Bridge) event(t domain.EventType, url, reason string) *domain.LinkEvent {
	return &domain.LinkEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: t},
		URL:       url,
		Screen:    b.screen,
		Reason:    reason,
	}
}
