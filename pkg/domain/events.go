package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventDispatch   EventType = "dispatch"
	EventReset      EventType = "reset"
	EventDeepLink   EventType = "deep_link"
	EventSuppressed EventType = "deep_link_suppressed"
	EventMount      EventType = "screen_mount"
	EventUnmount    EventType = "screen_unmount"
	EventSubmit     EventType = "services_auth_submit"
)

// Suppression reasons reported by the deep-link bridge.
const (
	SuppressCaptureError = "capture_error"
	SuppressReserved     = "reserved_prefix"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
}

// ActionEvent reports an action applied to the stack.
type ActionEvent struct {
	EventBase
	Action Action      `json:"action"`
	Stack  []RouteName `json:"stack"`
}

// LifecycleEvent reports a managed lifecycle transition.
type LifecycleEvent struct {
	EventBase
	From   AppState  `json:"from"`
	To     AppState  `json:"to"`
	Target RouteName `json:"target"`
}

// LinkEvent reports a deep link seen by a bridge.
type LinkEvent struct {
	EventBase
	URL    string    `json:"url"`
	Screen RouteName `json:"screen"`
	Reason string    `json:"reason,omitempty"` // set when suppressed
}

// ScreenEvent reports a screen mount or unmount.
type ScreenEvent struct {
	EventBase
	Screen RouteName `json:"screen"`
}

// SubmitEvent reports a services-auth submission and its outcome.
type SubmitEvent struct {
	EventBase
	URL     string `json:"url,omitempty"`
	Default bool   `json:"default"`
	Err     error  `json:"-"`
}

// LifecycleHooks defines callbacks for navigation observability.
type LifecycleHooks struct {
	OnDispatch   func(context.Context, *ActionEvent)
	OnReset      func(context.Context, *LifecycleEvent)
	OnDeepLink   func(context.Context, *LinkEvent)
	OnSuppressed func(context.Context, *LinkEvent)
	OnMount      func(context.Context, *ScreenEvent)
	OnUnmount    func(context.Context, *ScreenEvent)
	OnSubmit     func(context.Context, *SubmitEvent)
}

// Merge returns hooks calling h first and then other, for every callback set on either.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnDispatch:   chain(h.OnDispatch, other.OnDispatch),
		OnReset:      chain(h.OnReset, other.OnReset),
		OnDeepLink:   chain(h.OnDeepLink, other.OnDeepLink),
		OnSuppressed: chain(h.OnSuppressed, other.OnSuppressed),
		OnMount:      chain(h.OnMount, other.OnMount),
		OnUnmount:    chain(h.OnUnmount, other.OnUnmount),
		OnSubmit:     chain(h.OnSubmit, other.OnSubmit),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
