package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/navstack/pkg/domain"
)

// LogHooks returns lifecycle hooks writing one structured record per event.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDispatch: func(ctx context.Context, e *domain.ActionEvent) {
			logger.InfoContext(ctx, "action_applied",
				"type", e.Action.Type,
				"source", e.Action.Source,
				"stack", e.Stack,
			)
		},
		OnReset: func(ctx context.Context, e *domain.LifecycleEvent) {
			logger.InfoContext(ctx, "lifecycle_reset", "from", e.From, "to", e.To, "target", e.Target)
		},
		OnDeepLink: func(ctx context.Context, e *domain.LinkEvent) {
			logger.InfoContext(ctx, "deep_link", "url", e.URL, "screen", e.Screen)
		},
		OnSuppressed: func(ctx context.Context, e *domain.LinkEvent) {
			logger.DebugContext(ctx, "deep_link_suppressed", "url", e.URL, "reason", e.Reason)
		},
	}
}
