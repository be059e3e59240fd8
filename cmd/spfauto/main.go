package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "spfauto",
	Short: "Batch query driver for SQLPathFinder",
	Long: `spfauto runs identifier batches through the SQLPathFinder desktop
application: it launches the application, clears blocking update dialogs,
pastes the identifiers into the query's parameter prompts and waits for the
result file to finish writing. Press ESC at any time to stop after the
current batch.`,
	// No RunE - defaults to showing help when no subcommand is provided
}

var (
	configPath string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default spf_automation.yaml next to the executable)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
