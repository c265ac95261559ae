// Package cli implements the Stride command-line interface using Cobra.
// Subcommands cover the daemon (serve) and quick local actions against the
// same data directory (status, clean, broke, log, add).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stride",
	Short: "Stride — vision board, planner, and streak tracker",
	Long: `Stride tracks daily habits: a vision board, a day planner, an
activity streak, and a progressive freedom streak for habit recovery.
Data lives locally by default and can sync to a remote document store.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
