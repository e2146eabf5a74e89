package runtime_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/navstack/internal/runtime"
	"github.com/aretw0/navstack/pkg/adapters/memory"
	"github.com/aretw0/navstack/pkg/domain"
	"github.com/aretw0/navstack/pkg/groupcreate"
	"github.com/aretw0/navstack/pkg/lifecycle"
	"github.com/aretw0/navstack/pkg/ports"
	"github.com/aretw0/navstack/pkg/routes"
	"github.com/aretw0/navstack/pkg/screens"
	"github.com/aretw0/navstack/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// events collects hook callbacks, which run on the navigator loop.
type events struct {
	mu       sync.Mutex
	actions  []domain.Action
	mounts   []domain.RouteName
	unmounts []domain.RouteName
}

func (e *events) hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDispatch: func(_ context.Context, ev *domain.ActionEvent) {
			e.mu.Lock()
			defer e.mu.Unlock()
			e.actions = append(e.actions, ev.Action)
		},
		OnMount: func(_ context.Context, ev *domain.ScreenEvent) {
			e.mu.Lock()
			defer e.mu.Unlock()
			e.mounts = append(e.mounts, ev.Screen)
		},
		OnUnmount: func(_ context.Context, ev *domain.ScreenEvent) {
			e.mu.Lock()
			defer e.mu.Unlock()
			e.unmounts = append(e.unmounts, ev.Screen)
		},
	}
}

func (e *events) count(source string, typ domain.ActionType) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, a := range e.actions {
		if a.Source == source && a.Type == typ {
			n++
		}
	}
	return n
}

type harness struct {
	nav    *runtime.Navigator
	hub    *memory.LinkHub
	set    *screens.Set
	events *events
	store  ports.StateStore
}

func start(t *testing.T, hub *memory.LinkHub, store ports.StateStore, opts ...runtime.Option) *harness {
	t.Helper()
	if hub == nil {
		hub = memory.NewLinkHub()
	}
	if store == nil {
		store = memory.NewStore()
	}

	sel := groupcreate.New()
	set := screens.New(screens.WithSelection(sel))
	table, err := routes.Berty(set.Screens(), routes.WithDeepLinkBridge(hub))
	require.NoError(t, err)

	ev := &events{}
	opts = append([]runtime.Option{runtime.WithLifecycleHooks(ev.hooks()), runtime.WithSelection(sel)}, opts...)
	nav := runtime.NewNavigator(table, session.NewManager(store), opts...)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = nav.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-nav.Done()
	})

	select {
	case <-nav.Ready():
	case <-time.After(time.Second):
		t.Fatal("navigator never became ready")
	}
	return &harness{nav: nav, hub: hub, set: set, events: ev, store: store}
}

func (h *harness) names() []domain.RouteName {
	return h.nav.Stack().Names()
}

func (h *harness) waitStack(t *testing.T, want ...domain.RouteName) {
	t.Helper()
	require.Eventually(t, func() bool {
		return assert.ObjectsAreEqual(want, h.names())
	}, time.Second, 5*time.Millisecond, "stack never became %v (got %v)", want, h.names())
}

func (h *harness) waitSubscribed(t *testing.T) {
	t.Helper()
	require.Eventually(t, func() bool { return h.hub.Subscribers() == 1 }, time.Second, 5*time.Millisecond)
}

func TestNavigator_LifecycleScenario(t *testing.T) {
	messenger := memory.NewMessenger(memory.WithAppState(domain.AppStateGetStarted))
	initial := lifecycle.InitialRoute(messenger.AppState())

	h := start(t, nil, nil, runtime.WithInitialRoute(initial))
	assert.Equal(t, []domain.RouteName{domain.RouteOnboardingGetStarted}, h.names())

	router := lifecycle.NewRouter(h.nav, lifecycle.WithInitialState(messenger.AppState()))
	ctx := context.Background()

	fired, err := router.Observe(ctx, domain.AppStateReady)
	require.NoError(t, err)
	assert.True(t, fired)
	h.waitStack(t, domain.RouteMainHome)

	fired, err = router.Observe(ctx, domain.AppStateReady)
	require.NoError(t, err)
	assert.False(t, fired)

	// Barrier: once this applies, every earlier action has been applied too.
	_, err = h.nav.Apply(ctx, domain.Navigate(domain.RouteMainHome, nil))
	require.NoError(t, err)
	assert.Equal(t, 1, h.events.count(domain.SourceLifecycle, domain.ActionReset))
	assert.Equal(t, []domain.RouteName{domain.RouteMainHome}, h.names())
}

func TestNavigator_LifecycleDiscardsBackStack(t *testing.T) {
	h := start(t, nil, nil, runtime.WithInitialRoute(domain.RouteMainHome))
	ctx := context.Background()

	_, err := h.nav.Apply(ctx, domain.Navigate(domain.RouteSettingsHome, nil))
	require.NoError(t, err)
	_, err = h.nav.Apply(ctx, domain.Navigate(domain.RouteSettingsHelp, nil))
	require.NoError(t, err)

	router := lifecycle.NewRouter(h.nav, lifecycle.WithInitialState(domain.AppStateReady))
	_, err = router.Observe(ctx, domain.AppStatePreReady)
	require.NoError(t, err)
	h.waitStack(t, domain.RouteOnboardingSetupFinished)
}

func TestNavigator_ReservedLaunchURLScenario(t *testing.T) {
	hub := memory.NewLinkHub(memory.WithLaunchURL("berty://services-auth?x=1"))
	h := start(t, hub, nil)
	h.waitSubscribed(t)

	ctx := context.Background()
	_, err := h.nav.Apply(ctx, domain.Navigate(domain.RouteMainHome, nil))
	require.NoError(t, err)
	assert.Equal(t, 0, h.events.count(domain.SourceDeepLink, domain.ActionNavigate))

	hub.Open("https://example.com/invite/abc")
	h.waitStack(t, domain.RouteMainHome, domain.RouteModalsManageDeepLink)
	assert.Equal(t, 1, h.events.count(domain.SourceDeepLink, domain.ActionNavigate))

	focused, _ := h.nav.Stack().Focused()
	var params domain.DeepLinkParams
	require.NoError(t, domain.DecodeParams(focused.Params, &params))
	assert.Equal(t, domain.DeepLinkParams{Type: "link", Value: "https://example.com/invite/abc"}, params)

	cur, ok := h.set.Current()
	require.True(t, ok)
	assert.Equal(t, domain.RouteModalsManageDeepLink, cur.Name)
}

func TestNavigator_LaunchURLOpensModal(t *testing.T) {
	hub := memory.NewLinkHub(memory.WithLaunchURL("https://berty.tech/id#contact/abc"))
	h := start(t, hub, nil)

	h.waitStack(t, domain.RouteMainHome, domain.RouteModalsManageDeepLink)
	h.waitSubscribed(t)

	// The modal's own bridge must not replay the launch URL.
	_, err := h.nav.Apply(context.Background(), domain.Back())
	require.NoError(t, err)
	h.waitSubscribed(t)
	assert.Equal(t, 1, h.events.count(domain.SourceDeepLink, domain.ActionNavigate))
	assert.Equal(t, []domain.RouteName{domain.RouteMainHome}, h.names())
}

func TestNavigator_OnlyFocusedScreenIsMounted(t *testing.T) {
	h := start(t, nil, nil)
	ctx := context.Background()

	_, err := h.nav.Apply(ctx, domain.Navigate(domain.RouteSettingsHome, nil))
	require.NoError(t, err)
	h.waitSubscribed(t)

	h.hub.Open("berty://group/one")
	h.waitStack(t, domain.RouteMainHome, domain.RouteSettingsHome, domain.RouteModalsManageDeepLink)
	h.waitSubscribed(t)
	assert.Equal(t, 1, h.events.count(domain.SourceDeepLink, domain.ActionNavigate))

	require.Eventually(t, func() bool {
		h.events.mu.Lock()
		defer h.events.mu.Unlock()
		return len(h.events.mounts) == 3
	}, time.Second, 5*time.Millisecond)

	h.events.mu.Lock()
	defer h.events.mu.Unlock()
	assert.Equal(t, []domain.RouteName{domain.RouteMainHome, domain.RouteSettingsHome, domain.RouteModalsManageDeepLink}, h.events.mounts)
	assert.Equal(t, []domain.RouteName{domain.RouteMainHome, domain.RouteSettingsHome}, h.events.unmounts)
}

func TestNavigator_Errors(t *testing.T) {
	h := start(t, nil, nil)
	ctx := context.Background()

	_, err := h.nav.Apply(ctx, domain.Back())
	assert.ErrorIs(t, err, domain.ErrEmptyStack)

	_, err = h.nav.Apply(ctx, domain.Navigate("Main.Hom", nil))
	assert.ErrorIs(t, err, domain.ErrUnknownRoute)

	err = h.nav.Dispatch(ctx, domain.Action{Type: "jump"})
	assert.ErrorIs(t, err, domain.ErrInvalidAction)

	assert.Equal(t, []domain.RouteName{domain.RouteMainHome}, h.names())
}

func TestNavigator_SelectionDiscardedWhenFlowEnds(t *testing.T) {
	h := start(t, nil, nil)
	ctx := context.Background()
	sel := h.nav.Selection()

	_, err := h.nav.Apply(ctx, domain.Navigate(domain.RouteMainCreateGroupAddMembers, map[string]any{
		"add": []any{map[string]any{"public_key": "pk-a"}},
	}))
	require.NoError(t, err)
	assert.Equal(t, 1, sel.Len())

	_, err = h.nav.Apply(ctx, domain.Navigate(domain.RouteMainCreateGroupFinalize, nil))
	require.NoError(t, err)
	assert.Equal(t, 1, sel.Len(), "selection survives across the two screens")

	_, err = h.nav.Apply(ctx, domain.Reset(domain.RouteMainHome))
	require.NoError(t, err)
	assert.Equal(t, 0, sel.Len())
}

func TestNavigator_WatchAndPersistence(t *testing.T) {
	store := memory.NewStore()
	h := start(t, nil, store, runtime.WithSessionID("device-1"))
	ctx := context.Background()

	var mu sync.Mutex
	var diffs []*domain.StackDiff
	cancel := h.nav.Watch(func(d *domain.StackDiff, _ *domain.Stack) {
		mu.Lock()
		defer mu.Unlock()
		diffs = append(diffs, d)
	})
	defer cancel()

	_, err := h.nav.Apply(ctx, domain.Navigate(domain.RouteSettingsHome, nil))
	require.NoError(t, err)

	mu.Lock()
	require.Len(t, diffs, 1)
	assert.Equal(t, 0, diffs[0].Popped)
	assert.Equal(t, domain.RouteSettingsHome, diffs[0].Pushed[0].Name)
	mu.Unlock()

	saved, err := store.Load(ctx, "device-1")
	require.NoError(t, err)
	assert.Equal(t, []domain.RouteName{domain.RouteMainHome, domain.RouteSettingsHome}, saved.Names())

	// A second navigator on the same store resumes the stack.
	h2 := start(t, nil, store, runtime.WithSessionID("device-1"))
	assert.Equal(t, saved.Names(), h2.names())
}

func TestNavigator_DispatchAfterStop(t *testing.T) {
	table, err := routes.Berty(screens.New().Screens())
	require.NoError(t, err)
	nav := runtime.NewNavigator(table, session.NewManager(memory.NewStore()))

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = nav.Run(ctx) }()
	<-nav.Ready()
	cancel()
	<-nav.Done()

	err = nav.Dispatch(context.Background(), domain.Back())
	assert.ErrorIs(t, err, domain.ErrNavigatorStopped)
	assert.Error(t, nav.Run(context.Background()))
}

func TestNavigator_RootRouteResetsResumedStack(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Save(ctx, runtime.DefaultSessionID, domain.NewStack(runtime.DefaultSessionID, domain.RouteMainHome)))

	h := start(t, nil, store, runtime.WithRootRoute(domain.RouteOnboardingGetStarted))
	assert.Equal(t, []domain.RouteName{domain.RouteOnboardingGetStarted}, h.names())

	saved, err := store.Load(ctx, runtime.DefaultSessionID)
	require.NoError(t, err)
	assert.Equal(t, []domain.RouteName{domain.RouteOnboardingGetStarted}, saved.Names())

	h.events.mu.Lock()
	defer h.events.mu.Unlock()
	assert.Equal(t, []domain.RouteName{domain.RouteOnboardingGetStarted}, h.events.mounts, "the stale screen is never mounted")
}

func TestNavigator_RootRouteKeepsMatchingHistory(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	resumed := domain.NewStack(runtime.DefaultSessionID, domain.RouteMainHome)
	resumed.Routes = append(resumed.Routes, domain.Route{Name: domain.RouteSettingsHome})
	require.NoError(t, store.Save(ctx, runtime.DefaultSessionID, resumed))

	h := start(t, nil, store, runtime.WithRootRoute(domain.RouteMainHome))
	assert.Equal(t, []domain.RouteName{domain.RouteMainHome, domain.RouteSettingsHome}, h.names())
}

func TestNavigator_LinkOpenedRightAfterNavigate(t *testing.T) {
	h := start(t, nil, nil)

	_, err := h.nav.Apply(context.Background(), domain.Navigate(domain.RouteSettingsHome, nil))
	require.NoError(t, err)
	h.hub.Open("https://example.com/invite/abc")

	h.waitStack(t, domain.RouteMainHome, domain.RouteSettingsHome, domain.RouteModalsManageDeepLink)
	assert.Equal(t, 1, h.events.count(domain.SourceDeepLink, domain.ActionNavigate))
}
