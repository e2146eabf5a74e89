package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/navstack/internal/presentation/tui"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the host HTTP API",
	Long:  `Runs the navigator and exposes links, lifecycle, stack, routes and services-auth over HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.HTTP.Addr = addr
		}

		reg := prometheus.NewRegistry()
		app, closeStore, err := buildApp(ctx, cfg, reg)
		if err != nil {
			return err
		}
		defer closeStore()

		if tui.IsTerminal(os.Stdout) {
			tui.PrintBanner(os.Stdout)
		}

		appErr := make(chan error, 1)
		go func() { appErr <- app.Run(ctx) }()
		if err := waitReady(app, appErr); err != nil {
			return err
		}

		server := app.HTTPServer()
		defer server.Close()
		handler, err := server.Handler()
		if err != nil {
			return fmt.Errorf("failed to build handler: %w", err)
		}

		srv := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}
		serverErrors := make(chan error, 1)
		go func() {
			fmt.Fprintf(cmd.ErrOrStderr(), "Starting navstack on %s (session %s, store %s)\n", srv.Addr, cfg.Session, cfg.Store.Kind)
			serverErrors <- srv.ListenAndServe()
		}()

		var runErr error
		appDone := false
		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				runErr = fmt.Errorf("server error: %w", err)
			}
		case err := <-appErr:
			appDone = true
			if err != nil {
				runErr = fmt.Errorf("navigator stopped: %w", err)
			}
		case <-ctx.Done():
			fmt.Fprintln(cmd.ErrOrStderr(), "\nStart shutdown...")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
			_ = srv.Close()
		}
		stop()
		if !appDone {
			if err := <-appErr; runErr == nil {
				runErr = err
			}
		}
		return runErr
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (overrides http.addr)")
}
