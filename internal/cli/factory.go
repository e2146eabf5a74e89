package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/navstack"
	"github.com/aretw0/navstack/internal/config"
	"github.com/aretw0/navstack/pkg/adapters/bolt"
	"github.com/aretw0/navstack/pkg/adapters/memory"
	"github.com/aretw0/navstack/pkg/adapters/redis"
	"github.com/aretw0/navstack/pkg/domain"
	"github.com/aretw0/navstack/pkg/persistence/middleware"
	"github.com/aretw0/navstack/pkg/ports"
	"github.com/aretw0/navstack/pkg/theme"
	"github.com/prometheus/client_golang/prometheus"
	backend "github.com/redis/go-redis/v9"
)

// BuildApp creates an App following cfg. The returned closer releases the store.
func BuildApp(ctx context.Context, cfg config.Config, logger *slog.Logger, reg *prometheus.Registry) (*navstack.App, func() error, error) {
	opts := []navstack.Option{
		navstack.WithLogger(logger),
		navstack.WithSessionID(cfg.Session),
		navstack.WithMessenger(
			memory.NewMessenger(memory.WithAppState(domain.AppState(cfg.App.State))),
			&memory.Notifier{},
		),
	}
	if reg != nil {
		opts = append(opts, navstack.WithMetrics(reg))
	}

	if cfg.App.ThemePath != "" {
		palette, err := theme.Load(cfg.App.ThemePath)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, navstack.WithTheme(palette))
	}

	var (
		store  ports.StateStore
		closer = func() error { return nil }
	)

	switch cfg.Store.Kind {
	case config.StoreMemory, config.StoreBolt:
		if cfg.Store.Kind == config.StoreBolt {
			db, err := bolt.Open(cfg.Store.BoltPath)
			if err != nil {
				return nil, nil, err
			}
			store, closer = db, db.Close
		} else {
			store = memory.NewStore()
		}
		hub := memory.NewLinkHub(memory.WithLaunchURL(cfg.App.LaunchURL))
		opts = append(opts, navstack.WithLinkSource(hub, func(_ context.Context, url string) error {
			hub.Open(url)
			return nil
		}))

	case config.StoreRedis:
		client := backend.NewClient(&backend.Options{Addr: cfg.Store.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.Store.RedisAddr, err)
		}
		closer = client.Close

		links := redis.NewLinkSource(client, cfg.Store.RedisPrefix, redis.WithLinkLogger(logger))
		if cfg.App.LaunchURL != "" {
			if err := links.SetLaunchURL(ctx, cfg.App.LaunchURL); err != nil {
				_ = client.Close()
				return nil, nil, err
			}
		}
		store = redis.NewFromClient(client, redis.WithPrefix(cfg.Store.RedisPrefix))
		opts = append(opts,
			navstack.WithLocker(redis.NewLocker(client, cfg.Store.RedisPrefix)),
			navstack.WithLinkSource(links, links.Open),
		)

	default:
		return nil, nil, fmt.Errorf("unknown store kind %q", cfg.Store.Kind)
	}

	mws, err := storeMiddleware(cfg.Store)
	if err != nil {
		_ = closer()
		return nil, nil, err
	}
	opts = append(opts, navstack.WithStore(middleware.Chain(store, mws...)))

	app, err := navstack.New(opts...)
	if err != nil {
		_ = closer()
		return nil, nil, err
	}
	return app, closer, nil
}

// storeMiddleware builds the at-rest transforms: masking first, then encryption.
func storeMiddleware(cfg config.StoreConfig) ([]middleware.Middleware, error) {
	var mws []middleware.Middleware
	if len(cfg.MaskParams) > 0 {
		pii, err := middleware.NewPIIMiddleware(cfg.MaskParams)
		if err != nil {
			return nil, fmt.Errorf("invalid mask pattern: %w", err)
		}
		mws = append(mws, pii)
	}
	if cfg.Secret != "" {
		key, err := middleware.DeriveKey([]byte(cfg.Secret))
		if err != nil {
			return nil, err
		}
		enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
		if err != nil {
			return nil, err
		}
		mws = append(mws, enc)
	}
	return mws, nil
}

// LoadConfig loads the config file named by the --config flag (may be empty)
// and applies the --log-level override.
func LoadConfig(path, level string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if level != "" {
		if _, err := config.ParseLevel(level); err != nil {
			return config.Config{}, err
		}
		cfg.LogLevel = level
	}
	return cfg, nil
}

// Fatal prints err to stderr and exits.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
