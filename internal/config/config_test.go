package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/navstack/internal/logging"
	"github.com/aretw0/navstack/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", c.HTTP.Addr)
	assert.Equal(t, StoreMemory, c.Store.Kind)
	assert.Equal(t, "default", c.Session)
	assert.Equal(t, string(domain.AppStateReady), c.App.State)
	assert.Equal(t, slog.LevelInfo, c.Level())
	assert.Equal(t, logging.FormatText, c.Logging().Format)
}

func TestLoad_LoggingFromEnv(t *testing.T) {
	t.Setenv("NAVSTACK_LOG_FORMAT", "json")
	t.Setenv("NAVSTACK_LOG_LEVEL", "warn")
	t.Setenv("NAVSTACK_SESSION", "device-1")

	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, logging.Options{Level: slog.LevelWarn, Format: logging.FormatJSON, Session: "device-1"}, c.Logging())
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "navstack.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: debug
http:
  addr: ":9090"
store:
  kind: bolt
  bolt_path: /tmp/stacks.db
  mask_params: ["^value$", "public_key"]
app:
  state: GetStarted
  launch_url: https://example.com/invite/abc
`), 0o644))

	t.Setenv("NAVSTACK_HTTP_ADDR", ":7070")

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", c.HTTP.Addr, "env overrides file")
	assert.Equal(t, StoreBolt, c.Store.Kind)
	assert.Equal(t, "/tmp/stacks.db", c.Store.BoltPath)
	assert.Equal(t, []string{"^value$", "public_key"}, c.Store.MaskParams)
	assert.Empty(t, c.Store.Secret)
	assert.Equal(t, "GetStarted", c.App.State)
	assert.Equal(t, "https://example.com/invite/abc", c.App.LaunchURL)
	assert.Equal(t, slog.LevelDebug, c.Level())
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("store kind", func(t *testing.T) {
		t.Setenv("NAVSTACK_STORE_KIND", "sqlite")
		_, err := Load("")
		assert.ErrorContains(t, err, "unknown store kind")
	})

	t.Run("app state", func(t *testing.T) {
		t.Setenv("NAVSTACK_APP_STATE", "Booting")
		_, err := Load("")
		assert.ErrorContains(t, err, "unknown app state")
	})

	t.Run("log level", func(t *testing.T) {
		t.Setenv("NAVSTACK_LOG_LEVEL", "loud")
		_, err := Load("")
		assert.ErrorContains(t, err, "invalid log level")
	})

	t.Run("log format", func(t *testing.T) {
		t.Setenv("NAVSTACK_LOG_FORMAT", "xml")
		_, err := Load("")
		assert.ErrorContains(t, err, "invalid log format")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
