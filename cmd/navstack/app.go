package main

import (
	"context"
	"errors"

	"github.com/aretw0/navstack"
	"github.com/aretw0/navstack/internal/cli"
	"github.com/aretw0/navstack/internal/config"
	"github.com/aretw0/navstack/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// loadConfig reads the persistent --config and --log-level flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	level, _ := cmd.Flags().GetString("log-level")
	return cli.LoadConfig(path, level)
}

// buildApp builds the App with metrics registered on reg (may be nil).
func buildApp(ctx context.Context, cfg config.Config, reg *prometheus.Registry) (*navstack.App, func() error, error) {
	return cli.BuildApp(ctx, cfg, logging.NewWithOptions(cfg.Logging()), reg)
}

// waitReady blocks until the app has mounted its first screen or Run failed.
func waitReady(app *navstack.App, appErr <-chan error) error {
	select {
	case <-app.Ready():
		return nil
	case err := <-appErr:
		if err == nil {
			err = errors.New("navigator stopped before ready")
		}
		return err
	}
}
