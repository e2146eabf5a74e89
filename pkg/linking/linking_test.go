package linking_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/navstack/pkg/adapters/memory"
	"github.com/aretw0/navstack/pkg/domain"
	"github.com/aretw0/navstack/pkg/linking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a ports.Dispatcher that keeps every action.
type recorder struct {
	mu      sync.Mutex
	actions []domain.Action
}

func (r *recorder) Dispatch(ctx context.Context, a domain.Action) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, a)
	return nil
}

func (r *recorder) values() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.actions))
	for _, a := range r.actions {
		var p domain.DeepLinkParams
		_ = domain.DecodeParams(a.Route.Params, &p)
		out = append(out, p.Value)
	}
	return out
}

func mount(t *testing.T, hub *memory.LinkHub) (*recorder, *linking.Listener, *linking.Bridge) {
	t.Helper()
	nav := &recorder{}
	l := linking.NewListener(hub)
	b := linking.NewBridge(l, nav, linking.WithScreen(domain.RouteMainHome))
	b.Mount(context.Background())
	t.Cleanup(b.Unmount)

	select {
	case <-l.Ready():
	case <-time.After(time.Second):
		t.Fatal("listener never subscribed")
	}
	return nav, l, b
}

func TestQualifies(t *testing.T) {
	cases := []struct {
		name   string
		in     linking.Snapshot
		ok     bool
		reason string
	}{
		{"empty", linking.Snapshot{}, false, ""},
		{"plain url", linking.Snapshot{URL: "https://example.com/invite/abc"}, true, ""},
		{"berty url", linking.Snapshot{URL: "berty://group/xyz"}, true, ""},
		{"reserved", linking.Snapshot{URL: "berty://services-auth?x=1"}, false, domain.SuppressReserved},
		{"capture error", linking.Snapshot{URL: "https://example.com", Err: errors.New("boom")}, false, domain.SuppressCaptureError},
		{"error without url", linking.Snapshot{Err: errors.New("boom")}, false, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, reason := linking.Qualifies(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.reason, reason)
		})
	}
}

func TestBridge_LaunchURLDispatches(t *testing.T) {
	hub := memory.NewLinkHub(memory.WithLaunchURL("https://example.com/invite/launch"))
	nav, _, _ := mount(t, hub)

	assert.Equal(t, []string{"https://example.com/invite/launch"}, nav.values())
	nav.mu.Lock()
	defer nav.mu.Unlock()
	a := nav.actions[0]
	assert.Equal(t, domain.ActionNavigate, a.Type)
	assert.Equal(t, domain.RouteModalsManageDeepLink, a.Route.Name)
	assert.Equal(t, domain.DeepLinkKind, a.Route.Params["type"])
	assert.Equal(t, domain.SourceDeepLink, a.Source)
}

func TestBridge_ReservedLaunchThenLiveLink(t *testing.T) {
	hub := memory.NewLinkHub(memory.WithLaunchURL("berty://services-auth?x=1"))
	nav, _, _ := mount(t, hub)

	assert.Empty(t, nav.values(), "reserved launch url must not dispatch")

	hub.Open("https://example.com/invite/abc")
	assert.Equal(t, []string{"https://example.com/invite/abc"}, nav.values())
}

func TestBridge_RepeatedURLDispatchesEachTime(t *testing.T) {
	hub := memory.NewLinkHub()
	nav, _, _ := mount(t, hub)

	hub.Open("https://example.com/invite/abc")
	hub.Open("https://example.com/invite/abc")
	hub.Open("https://example.com/invite/abc")

	assert.Len(t, nav.values(), 3)
}

func TestBridge_MixedSequence(t *testing.T) {
	hub := memory.NewLinkHub()
	nav, _, _ := mount(t, hub)

	for _, u := range []string{
		"https://example.com/a",
		"berty://services-auth/callback?code=1",
		"https://example.com/b",
		"berty://services-auth",
		"https://example.com/a",
	} {
		hub.Open(u)
	}

	assert.Equal(t, []string{"https://example.com/a", "https://example.com/b", "https://example.com/a"}, nav.values())
}

func TestBridge_CaptureErrorSuppresses(t *testing.T) {
	hub := memory.NewLinkHub(memory.WithLaunchError(errors.New("no linking module")))
	nav, l, _ := mount(t, hub)

	require.Error(t, l.Snapshot().Err)
	assert.Empty(t, l.Snapshot().URL)

	// The error is kept alongside later URLs and keeps suppressing them.
	hub.Open("https://example.com/invite/abc")
	assert.Equal(t, "https://example.com/invite/abc", l.Snapshot().URL)
	assert.Empty(t, nav.values())
}

func TestBridge_SuppressedHook(t *testing.T) {
	hub := memory.NewLinkHub()
	var reasons []string
	hooks := domain.LifecycleHooks{
		OnSuppressed: func(ctx context.Context, e *domain.LinkEvent) {
			reasons = append(reasons, e.Reason)
		},
	}
	nav := &recorder{}
	l := linking.NewListener(hub)
	b := linking.NewBridge(l, nav, linking.WithBridgeHooks(hooks))
	b.Mount(context.Background())
	defer b.Unmount()
	<-l.Ready()

	hub.Open("berty://services-auth?token=1")
	assert.Equal(t, []string{domain.SuppressReserved}, reasons)
}

func TestListener_StopDetaches(t *testing.T) {
	hub := memory.NewLinkHub()
	nav, l, b := mount(t, hub)
	require.Equal(t, 1, hub.Subscribers())

	b.Unmount()
	assert.Equal(t, 0, hub.Subscribers())

	hub.Open("https://example.com/late")
	assert.Empty(t, nav.values())
	assert.Empty(t, l.Snapshot().URL)
}

// blockingSource holds InitialURL until released.
type blockingSource struct {
	*memory.LinkHub
	release chan struct{}
}

func (s *blockingSource) InitialURL(ctx context.Context) (string, error) {
	<-s.release
	return "https://example.com/slow", nil
}

func TestListener_LateInitialURLDiscardedAfterStop(t *testing.T) {
	src := &blockingSource{LinkHub: memory.NewLinkHub(), release: make(chan struct{})}
	nav := &recorder{}
	l := linking.NewListener(src)
	b := linking.NewBridge(l, nav)
	b.Mount(context.Background())

	b.Unmount()
	close(src.release)

	select {
	case <-l.Ready():
	case <-time.After(time.Second):
		t.Fatal("Ready never closed after stop")
	}
	assert.Empty(t, nav.values())
	assert.Empty(t, l.Snapshot().URL)
	assert.Equal(t, 0, src.Subscribers(), "no subscription after stop")
}

func TestListener_ReadyClosedWhenStoppedUnstarted(t *testing.T) {
	l := linking.NewListener(memory.NewLinkHub())
	l.Stop()

	select {
	case <-l.Ready():
	default:
		t.Fatal("Ready must close when the listener is stopped before starting")
	}
}

func TestBridge_URLOpenedBeforeSubscribeDispatches(t *testing.T) {
	src := &blockingSource{LinkHub: memory.NewLinkHub(), release: make(chan struct{})}
	nav := &recorder{}
	l := linking.NewListener(src)
	b := linking.NewBridge(l, nav)
	b.Mount(context.Background())
	defer b.Unmount()

	// Opened while the launch request is still pending and nobody is subscribed.
	src.Open("https://example.com/invite/early")
	close(src.release)
	<-l.Ready()

	assert.Equal(t, []string{"https://example.com/slow", "https://example.com/invite/early"}, nav.values())
}

func TestListener_SubscribesOnlyAfterInitialURL(t *testing.T) {
	src := &blockingSource{LinkHub: memory.NewLinkHub(), release: make(chan struct{})}
	l := linking.NewListener(src)
	l.Start(context.Background())
	defer l.Stop()

	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, 0, src.Subscribers())

	close(src.release)
	<-l.Ready()
	assert.Equal(t, 1, src.Subscribers())
	assert.Equal(t, "https://example.com/slow", l.Snapshot().URL)
}
