package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Runs the navigator as an MCP server, so AI agents can open links, move the
lifecycle and navigate through tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		addr, _ := cmd.Flags().GetString("addr")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Logs go to stderr so they never corrupt JSON-RPC on stdout.
		log.SetOutput(os.Stderr)

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		app, closeStore, err := buildApp(ctx, cfg, nil)
		if err != nil {
			return err
		}
		defer closeStore()

		appErr := make(chan error, 1)
		go func() { appErr <- app.Run(ctx) }()
		if err := waitReady(app, appErr); err != nil {
			return err
		}

		srv := app.MCPServer()
		switch transport {
		case "stdio":
			err = srv.ServeStdio()
		case "sse":
			err = srv.ServeSSE(ctx, addr, "http://localhost"+addr)
			if errors.Is(err, http.ErrServerClosed) {
				err = nil
			}
		default:
			err = fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}

		stop()
		if runErr := <-appErr; err == nil {
			err = runErr
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().String("addr", ":8081", "Address to listen on (only for SSE)")
}
