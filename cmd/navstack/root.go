package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "navstack",
	Short: "navstack drives a messenger navigation stack from lifecycle states and deep links",
	Long: `navstack runs the navigation core of a messenger app headless: lifecycle transitions
reset the stack, deep links open the deep-link modal, and hosts drive navigation over
HTTP or MCP.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file (env: NAVSTACK_*)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
}
