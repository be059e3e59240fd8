package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"spf-automation/config"
	"spf-automation/lots"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration and input files without touching the application",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		fmt.Println("config: ok")

		checkPath("executable", cfg.Paths.Executable, false)
		checkPath("document", cfg.Paths.Document, true)
		checkPath("upgrade helper", cfg.Paths.UpgradeHelper, false)

		if cfg.Paths.LotsFile != "" {
			items, err := lots.Read(cfg.Paths.LotsFile)
			if err != nil {
				fmt.Printf("lots file: %v\n", err)
				return fmt.Errorf("check failed")
			}
			fmt.Printf("lots file: %d identifiers\n", len(items))
			if n := cfg.Processing.MaxLotsPerBatch; n > 0 {
				batches := (len(items) + n - 1) / n
				fmt.Printf("batching: %d batch(es) of up to %d\n", batches, n)
			}
		} else {
			fmt.Println("lots file: not configured (pass --lots at run time)")
		}

		fmt.Printf("output: %s\n", cfg.Paths.OutputCSV)
		fmt.Printf("timeouts: launch %s, per-action %s, overall %s\n",
			cfg.Timeouts.Launch(), cfg.Timeouts.UIAction(), cfg.Timeouts.Overall())
		return nil
	},
}

func checkPath(name, path string, required bool) {
	switch {
	case path == "":
		if required {
			fmt.Printf("%s: NOT SET\n", name)
		} else {
			fmt.Printf("%s: not set\n", name)
		}
	default:
		if _, err := os.Stat(path); err != nil {
			fmt.Printf("%s: MISSING (%s)\n", name, path)
		} else {
			fmt.Printf("%s: %s\n", name, path)
		}
	}
}
