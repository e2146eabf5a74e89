package mcp_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/aretw0/navstack/internal/runtime"
	navmcp "github.com/aretw0/navstack/pkg/adapters/mcp"
	"github.com/aretw0/navstack/pkg/adapters/memory"
	"github.com/aretw0/navstack/pkg/domain"
	"github.com/aretw0/navstack/pkg/lifecycle"
	"github.com/aretw0/navstack/pkg/routes"
	"github.com/aretw0/navstack/pkg/screens"
	"github.com/aretw0/navstack/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*navmcp.Server, *runtime.Navigator, *memory.LinkHub) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())

	hub := memory.NewLinkHub()
	messenger := memory.NewMessenger(memory.WithAppState(domain.AppStateReady))
	table, err := routes.Berty(screens.New().Screens(), routes.WithDeepLinkBridge(hub))
	require.NoError(t, err)

	nav := runtime.NewNavigator(table, session.NewManager(memory.NewStore()))
	go func() { _ = nav.Run(ctx) }()
	<-nav.Ready()

	router := lifecycle.NewRouter(nav, lifecycle.WithInitialState(messenger.AppState()))
	go func() { _ = router.Run(ctx, messenger.WatchAppState(ctx)) }()

	t.Cleanup(func() {
		cancel()
		<-nav.Done()
	})

	open := func(_ context.Context, url string) error {
		hub.Open(url)
		return nil
	}
	return navmcp.NewServer("test", nav, messenger, open, table), nav, hub
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestNavigateTool(t *testing.T) {
	s, _, _ := setup(t)
	ctx := context.Background()

	res, err := s.HandleNavigate(ctx, call(map[string]any{
		"route":  "Main.CreateGroupAddMembers",
		"params": `{"add":[{"public_key":"pk-a"}]}`,
	}))
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))

	var stack domain.Stack
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &stack))
	assert.Equal(t, []domain.RouteName{domain.RouteMainHome, domain.RouteMainCreateGroupAddMembers}, stack.Names())

	res, err = s.HandleNavigate(ctx, call(nil))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	res, err = s.HandleNavigate(ctx, call(map[string]any{"route": "Main.Hom"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "Main.Home")

	res, err = s.HandleNavigate(ctx, call(map[string]any{"route": "Settings.Home", "params": "[1,2]"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestOpenURLTool(t *testing.T) {
	s, nav, hub := setup(t)
	ctx := context.Background()
	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, time.Second, 5*time.Millisecond)

	res, err := s.HandleOpenURL(ctx, call(map[string]any{"url": "https://example.com/invite/abc"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	require.Eventually(t, func() bool {
		return assert.ObjectsAreEqual([]domain.RouteName{domain.RouteMainHome, domain.RouteModalsManageDeepLink}, nav.Stack().Names())
	}, time.Second, 5*time.Millisecond)

	res, err = s.HandleOpenURL(ctx, call(nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestSetAppStateTool(t *testing.T) {
	s, nav, _ := setup(t)
	ctx := context.Background()

	res, err := s.HandleSetAppState(ctx, call(map[string]any{"state": "PreReady"}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	require.Eventually(t, func() bool {
		return assert.ObjectsAreEqual([]domain.RouteName{domain.RouteOnboardingSetupFinished}, nav.Stack().Names())
	}, time.Second, 5*time.Millisecond)

	res, err = s.HandleSetAppState(ctx, call(map[string]any{"state": "Nope"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestReadOnlyTools(t *testing.T) {
	s, _, _ := setup(t)
	ctx := context.Background()

	res, err := s.HandleGetStack(ctx, call(nil))
	require.NoError(t, err)
	assert.Contains(t, text(t, res), "Main.Home")

	res, err = s.HandleListRoutes(ctx, call(nil))
	require.NoError(t, err)
	var entries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &entries))
	assert.Len(t, entries, len(routes.BertyChrome()))
}
