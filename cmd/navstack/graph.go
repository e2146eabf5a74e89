package main

import (
	"fmt"

	"github.com/aretw0/navstack/internal/cli"
	"github.com/aretw0/navstack/internal/presentation/graph"
	"github.com/aretw0/navstack/pkg/routes"
	"github.com/aretw0/navstack/pkg/screens"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the route table and lifecycle resets as a Mermaid diagram",
	Long: `Outputs a Mermaid diagram (graph TD) of every route, grouped by section, with the
lifecycle states that reset the stack. With --server, the live stack is highlighted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := routes.Berty(screens.New().Screens())
		if err != nil {
			return err
		}

		var overlay *graph.Overlay
		if server, _ := cmd.Flags().GetString("server"); server != "" {
			stack, err := cli.NewClient(server).Stack(cmd.Context())
			if err != nil {
				return err
			}
			overlay = graph.OverlayFromStack(stack)
		}

		_, err = fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(table.Entries(), overlay))
		return err
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("server", "", "Base URL of a running navstack server to overlay its stack")
}
