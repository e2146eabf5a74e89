package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/navstack/internal/presentation/tui"
	"github.com/aretw0/navstack/pkg/routes"
	"github.com/aretw0/navstack/pkg/screens"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the route table with its header chrome",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("output")

		table, err := routes.Berty(screens.New().Screens())
		if err != nil {
			return err
		}
		entries := table.Entries()
		out := cmd.OutOrStdout()

		switch format {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		case "yaml":
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(entries)
		case "markdown":
			render, err := tui.NewRenderer(out)
			if err != nil {
				return err
			}
			text, err := render(tui.RoutesMarkdown(entries))
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(out, text)
			return err
		default:
			return fmt.Errorf("unknown output format %q (json, yaml, markdown)", format)
		}
	},
}

func init() {
	rootCmd.AddCommand(routesCmd)
	routesCmd.Flags().StringP("output", "o", "markdown", "Output format: json, yaml or markdown")
}
