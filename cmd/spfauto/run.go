package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"spf-automation/clipboard"
	"spf-automation/config"
	"spf-automation/diag"
	"spf-automation/hotkey"
	"spf-automation/logutil"
	"spf-automation/lots"
	"spf-automation/spf"
	"spf-automation/winauto"
)

var (
	lotsPath string
	maxBatch int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run every identifier in the lots file through the application",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		logutil.Setup(cfg.Logging.EnableFileLogging, cfg.Paths.LogDir)

		if lotsPath == "" {
			lotsPath = cfg.Paths.LotsFile
		}
		if lotsPath == "" {
			return fmt.Errorf("no lots file: set paths.lots_file or pass --lots")
		}
		items, err := lots.Read(lotsPath)
		if err != nil {
			return err
		}
		if maxBatch > 0 {
			cfg.Processing.MaxLotsPerBatch = maxBatch
		}

		if err := clipboard.Init(); err != nil {
			return fmt.Errorf("clipboard init: %w", err)
		}

		driver := spf.New(cfg, spf.Deps{
			Desktop:   winauto.NewDesktop(),
			Launcher:  winauto.NewLauncher(),
			Clipboard: clipboard.Writer{},
			Clock:     winauto.SystemClock(),
		})

		hotkey.ListenEscape(driver.RequestAbort)
		defer hotkey.Stop()

		artifacts, err := driver.Run(items)
		for _, a := range artifacts {
			fmt.Printf("result: %s\n", a)
		}
		if err != nil {
			log.Printf("Run failed: %v", err)
			if shot, capErr := diag.CaptureError(cfg.Paths.LogDir, "spf_error"); capErr == nil {
				fmt.Printf("screenshot: %s\n", shot)
			}
			return err
		}
		fmt.Printf("done: %d identifiers in %d batch(es)\n", len(items), len(artifacts))
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&lotsPath, "lots", "", "identifier list file (overrides paths.lots_file)")
	runCmd.Flags().IntVar(&maxBatch, "max-batch", 0, "max identifiers per batch (overrides processing.max_lots_per_batch)")
}
