// Package config loads navstack settings from an optional YAML file and
// NAVSTACK_ environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/navstack/internal/logging"
	"github.com/aretw0/navstack/pkg/domain"
	"github.com/spf13/viper"
)

// Store kinds.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreBolt   = "bolt"
)

// Config holds application configuration.
type Config struct {
	LogLevel  string      `mapstructure:"log_level"`
	LogFormat string      `mapstructure:"log_format"`
	Session   string      `mapstructure:"session"`
	HTTP      HTTPConfig  `mapstructure:"http"`
	Store     StoreConfig `mapstructure:"store"`
	App       AppConfig   `mapstructure:"app"`
}

// HTTPConfig holds the host API settings.
type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

// StoreConfig selects and configures the stack store.
type StoreConfig struct {
	Kind        string `mapstructure:"kind"`
	RedisAddr   string `mapstructure:"redis_addr"`
	RedisPrefix string `mapstructure:"redis_prefix"`
	BoltPath    string `mapstructure:"bolt_path"`
	// Secret enables at-rest encryption of stacks when non-empty.
	Secret string `mapstructure:"secret"`
	// MaskParams are regexps of route param keys masked before saving.
	MaskParams []string `mapstructure:"mask_params"`
}

// AppConfig seeds the simulated messenger.
type AppConfig struct {
	State     string `mapstructure:"state"`
	LaunchURL string `mapstructure:"launch_url"`
	ThemePath string `mapstructure:"theme_path"`
}

// Load reads configuration from path (optional) and env.
// Env var overrides use prefix NAVSTACK_, with dots replaced by underscores.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", string(logging.FormatText))
	v.SetDefault("session", "default")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("store.kind", StoreMemory)
	v.SetDefault("store.redis_addr", "localhost:6379")
	v.SetDefault("store.redis_prefix", "navstack:session:")
	v.SetDefault("store.bolt_path", "navstack.db")
	v.SetDefault("store.secret", "")
	v.SetDefault("store.mask_params", []string{})
	v.SetDefault("app.state", string(domain.AppStateReady))
	v.SetDefault("app.launch_url", "")
	v.SetDefault("app.theme_path", "")

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("NAVSTACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks enumerated fields.
func (c Config) Validate() error {
	switch c.Store.Kind {
	case StoreMemory, StoreRedis, StoreBolt:
	default:
		return fmt.Errorf("unknown store kind %q", c.Store.Kind)
	}
	if !domain.AppState(c.App.State).Known() {
		return fmt.Errorf("unknown app state %q", c.App.State)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := logging.ParseFormat(c.LogFormat); err != nil {
		return err
	}
	return nil
}

// Logging returns the logger settings. The session is attached to every record.
func (c Config) Logging() logging.Options {
	format, _ := logging.ParseFormat(c.LogFormat)
	return logging.Options{
		Level:   c.Level(),
		Format:  format,
		Session: c.Session,
	}
}

// Level returns the parsed log level. Validate guarantees it parses.
func (c Config) Level() slog.Level {
	level, _ := ParseLevel(c.LogLevel)
	return level
}

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}
