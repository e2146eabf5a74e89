package main

import (
	"fmt"

	"github.com/aretw0/navstack"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of navstack",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "navstack version %s\n", navstack.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
