package routes

import (
	"context"
	"log/slog"

	"github.com/aretw0/navstack/internal/logging"
	"github.com/aretw0/navstack/pkg/domain"
	"github.com/aretw0/navstack/pkg/linking"
	"github.com/aretw0/navstack/pkg/ports"
)

type bridgeConfig struct {
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// BridgeOption configures WithDeepLinkBridge.
type BridgeOption func(*bridgeConfig)

// WithBridgeHooks forwards observability hooks to every bridge.
func WithBridgeHooks(hooks domain.LifecycleHooks) BridgeOption {
	return func(c *bridgeConfig) {
		c.hooks = hooks
	}
}

// WithBridgeLogger configures the logger of every bridge and listener.
func WithBridgeLogger(logger *slog.Logger) BridgeOption {
	return func(c *bridgeConfig) {
		c.logger = logger
	}
}

// WithDeepLinkBridge mounts a deep-link listener and bridge alongside every screen.
// Each screen instance gets its own listener, bound to that screen's navigation handle.
func WithDeepLinkBridge(source ports.LinkSource, opts ...BridgeOption) Decorator {
	cfg := &bridgeConfig{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(name domain.RouteName, c Component) Component {
		return ComponentFunc(func(ctx context.Context, props Props) (Unmount, error) {
			listener := linking.NewListener(source, linking.WithListenerLogger(cfg.logger))
			bridge := linking.NewBridge(listener, props.Nav,
				linking.WithScreen(name),
				linking.WithBridgeHooks(cfg.hooks),
				linking.WithBridgeLogger(cfg.logger),
			)
			bridge.Mount(ctx)

			unmount, err := c.Mount(ctx, props)
			if err != nil {
				bridge.Unmount()
				return nil, err
			}

			return func() {
				if unmount != nil {
					unmount()
				}
				bridge.Unmount()
			}, nil
		})
	}
}
