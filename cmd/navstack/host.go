package main

import (
	"fmt"

	"github.com/aretw0/navstack/internal/cli"
	"github.com/aretw0/navstack/internal/presentation/tui"
	"github.com/aretw0/navstack/pkg/domain"
	"github.com/spf13/cobra"
)

func client(cmd *cobra.Command) *cli.Client {
	server, _ := cmd.Flags().GetString("server")
	return cli.NewClient(server)
}

var openCmd = &cobra.Command{
	Use:   "open <url>",
	Short: "Deliver a URL to a running server as if the OS had opened it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return client(cmd).Open(cmd.Context(), args[0])
	},
}

var stateCmd = &cobra.Command{
	Use:   "state <app-state>",
	Short: "Move the lifecycle state of a running server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		state := domain.AppState(args[0])
		if !state.Known() {
			return fmt.Errorf("unknown app state %q", args[0])
		}
		return client(cmd).SetAppState(cmd.Context(), state)
	},
}

var stackCmd = &cobra.Command{
	Use:   "stack",
	Short: "Print the stack of a running server",
	RunE: func(cmd *cobra.Command, args []string) error {
		stack, err := client(cmd).Stack(cmd.Context())
		if err != nil {
			return err
		}
		render, err := tui.NewRenderer(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		text, err := render(tui.StackMarkdown(stack))
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), text)
		return err
	},
}

func init() {
	for _, c := range []*cobra.Command{openCmd, stateCmd, stackCmd} {
		c.Flags().String("server", "http://localhost:8080", "Base URL of the navstack server")
		rootCmd.AddCommand(c)
	}
}
