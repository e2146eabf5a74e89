package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/navstack/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		stack := domain.NewStack(sessionID, domain.RouteMainHome)
		stack.Routes = append(stack.Routes, domain.Route{
			Name:   domain.RouteModalsManageDeepLink,
			Params: domain.DeepLinkParams{Type: domain.DeepLinkKind, Value: "https://example.com/invite/abc"}.Map(),
		})
		stack.Version = 3

		err := store.Save(ctx, sessionID, stack)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, stack.Names(), loaded.Names())
		assert.Equal(t, int64(3), loaded.Version)
		assert.Equal(t, "https://example.com/invite/abc", loaded.Routes[1].Params["value"])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Loaded copy is isolated", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, domain.NewStack(sessionID, domain.RouteMainHome)))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.Routes[0].Name = domain.RouteSettingsHome

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, domain.RouteMainHome, again.Routes[0].Name)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewStack(sessionID, domain.RouteMainHome))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewStack(id1, domain.RouteMainHome))
		_ = store.Save(ctx, id2, domain.NewStack(id2, domain.RouteOnboardingGetStarted))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
