package cli

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/navstack"
	"github.com/aretw0/navstack/internal/config"
	"github.com/aretw0/navstack/internal/logging"
	"github.com/aretw0/navstack/pkg/adapters/bolt"
	"github.com/aretw0/navstack/pkg/domain"
	"github.com/aretw0/navstack/pkg/persistence/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func run(t *testing.T, app *navstack.App) func() {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	select {
	case <-app.Ready():
	case <-time.After(2 * time.Second):
		t.Fatal("app not ready")
	}
	return func() {
		cancel()
		require.NoError(t, <-done)
	}
}

func stackIs(app *navstack.App, want ...domain.RouteName) func() bool {
	return func() bool {
		return assert.ObjectsAreEqual(want, app.Stack().Names())
	}
}

func TestBuildApp_MemoryLaunchURL(t *testing.T) {
	cfg := baseConfig(t)
	cfg.App.LaunchURL = "https://example.com/invite/abc"

	app, closer, err := BuildApp(context.Background(), cfg, logging.NewNop(), nil)
	require.NoError(t, err)
	defer closer()

	stop := run(t, app)
	defer stop()

	require.Eventually(t, stackIs(app, domain.RouteMainHome, domain.RouteModalsManageDeepLink), time.Second, 5*time.Millisecond)
}

func TestBuildApp_BoltResumes(t *testing.T) {
	cfg := baseConfig(t)
	cfg.Store.Kind = config.StoreBolt
	cfg.Store.BoltPath = filepath.Join(t.TempDir(), "stacks.db")
	ctx := context.Background()

	app, closer, err := BuildApp(ctx, cfg, logging.NewNop(), nil)
	require.NoError(t, err)
	stop := run(t, app)
	_, err = app.Apply(ctx, domain.Navigate(domain.RouteSettingsHome, nil))
	require.NoError(t, err)
	stop()
	require.NoError(t, closer())

	app, closer, err = BuildApp(ctx, cfg, logging.NewNop(), nil)
	require.NoError(t, err)
	defer closer()
	stop = run(t, app)
	defer stop()

	assert.Equal(t, []domain.RouteName{domain.RouteMainHome, domain.RouteSettingsHome}, app.Stack().Names())
}

func TestBuildApp_EncryptedBolt(t *testing.T) {
	cfg := baseConfig(t)
	cfg.Store.Kind = config.StoreBolt
	cfg.Store.BoltPath = filepath.Join(t.TempDir(), "stacks.db")
	cfg.Store.Secret = "operator secret"
	ctx := context.Background()

	app, closer, err := BuildApp(ctx, cfg, logging.NewNop(), nil)
	require.NoError(t, err)
	stop := run(t, app)
	_, err = app.Apply(ctx, domain.Navigate(domain.RouteSettingsHome, nil))
	require.NoError(t, err)
	stop()
	require.NoError(t, closer())

	raw, err := bolt.Open(cfg.Store.BoltPath)
	require.NoError(t, err)
	stored, err := raw.Load(ctx, cfg.Session)
	require.NoError(t, err)
	assert.Equal(t, []domain.RouteName{middleware.EnvelopeRoute}, stored.Names())
	require.NoError(t, raw.Close())

	app, closer, err = BuildApp(ctx, cfg, logging.NewNop(), nil)
	require.NoError(t, err)
	defer closer()
	stop = run(t, app)
	defer stop()
	assert.Equal(t, []domain.RouteName{domain.RouteMainHome, domain.RouteSettingsHome}, app.Stack().Names())
}

func TestBuildApp_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := baseConfig(t)
	cfg.Store.Kind = config.StoreRedis
	cfg.Store.RedisAddr = mr.Addr()
	ctx := context.Background()

	app, closer, err := BuildApp(ctx, cfg, logging.NewNop(), nil)
	require.NoError(t, err)
	defer closer()
	stop := run(t, app)
	defer stop()

	// No wait for the subscription: a URL published before it attaches is held.
	require.NoError(t, app.Open(ctx, "https://example.com/invite/abc"))
	require.Eventually(t, stackIs(app, domain.RouteMainHome, domain.RouteModalsManageDeepLink), time.Second, 5*time.Millisecond)

	ids, err := app.Sessions().List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{cfg.Session}, ids)
}

func TestBuildApp_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("redis unreachable", func(t *testing.T) {
		cfg := baseConfig(t)
		cfg.Store.Kind = config.StoreRedis
		cfg.Store.RedisAddr = "127.0.0.1:1"
		_, _, err := BuildApp(ctx, cfg, logging.NewNop(), nil)
		assert.ErrorContains(t, err, "failed to reach redis")
	})

	t.Run("missing theme", func(t *testing.T) {
		cfg := baseConfig(t)
		cfg.App.ThemePath = filepath.Join(t.TempDir(), "nope.yaml")
		_, _, err := BuildApp(ctx, cfg, logging.NewNop(), nil)
		assert.Error(t, err)
	})

	t.Run("bad mask pattern", func(t *testing.T) {
		cfg := baseConfig(t)
		cfg.Store.MaskParams = []string{"("}
		_, _, err := BuildApp(ctx, cfg, logging.NewNop(), nil)
		assert.ErrorContains(t, err, "invalid mask pattern")
	})

	t.Run("unknown store", func(t *testing.T) {
		cfg := baseConfig(t)
		cfg.Store.Kind = "sqlite"
		_, _, err := BuildApp(ctx, cfg, logging.NewNop(), nil)
		assert.ErrorContains(t, err, "unknown store kind")
	})
}

func TestLoadConfig_LevelOverride(t *testing.T) {
	cfg, err := LoadConfig("", "debug")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)

	_, err = LoadConfig("", "loud")
	assert.Error(t, err)
}
