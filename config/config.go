// Package config loads the driver configuration from a YAML file, with a few
// environment overrides resolved through an optional .env file next to the
// executable.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigPathEnvVar overrides the config file location.
	ConfigPathEnvVar = "SPF_AUTOMATION_CONFIG"
)

// Paths are the file-system touch points of one automation run.
type Paths struct {
	// Executable is the query application binary. When empty the document is
	// opened through the OS default handler instead.
	Executable string `yaml:"executable"`
	// Document is the query document the application opens (a .vg2 file).
	Document string `yaml:"document"`
	// OutputCSV is the well-known path the application writes results to.
	OutputCSV string `yaml:"output_csv"`
	// LotsFile lists the work-item identifiers, one per line.
	LotsFile string `yaml:"lots_file"`
	// UpgradeHelper is the script that drives the application self-upgrade.
	UpgradeHelper string `yaml:"upgrade_helper"`
	LogDir        string `yaml:"log_dir"`
}

// Timeouts carries every deadline in seconds. Each wait is configured
// independently; there is no global cancellation.
type Timeouts struct {
	LaunchSec                int `yaml:"launch"`
	UIActionSec              int `yaml:"ui_action"`
	IndicatorWaitSec         int `yaml:"indicator_wait"`
	FileStabilizeChecks      int `yaml:"file_stabilize_checks"`
	FileStabilizeIntervalSec int `yaml:"file_stabilize_interval"`
	OverallSec               int `yaml:"overall"`
}

func (t Timeouts) Launch() time.Duration        { return time.Duration(t.LaunchSec) * time.Second }
func (t Timeouts) UIAction() time.Duration      { return time.Duration(t.UIActionSec) * time.Second }
func (t Timeouts) IndicatorWait() time.Duration { return time.Duration(t.IndicatorWaitSec) * time.Second }
func (t Timeouts) FileStabilizeInterval() time.Duration {
	return time.Duration(t.FileStabilizeIntervalSec) * time.Second
}
func (t Timeouts) Overall() time.Duration { return time.Duration(t.OverallSec) * time.Second }

// UI holds the title patterns and control identifiers discovered for the
// target application. Patterns are tried in order, most specific first.
type UI struct {
	MainWindowTitle     string   `yaml:"main_window_title"`
	PromptTitles        []string `yaml:"prompt_titles"`
	UpdateTitles        []string `yaml:"update_titles"`
	UpdateConfirmTitles []string `yaml:"update_confirm_titles"`
	// IndicatorTitle matches (case-insensitive substring) the window that
	// signals the query started executing.
	IndicatorTitle string `yaml:"indicator_title"`
	PasteControlID string `yaml:"paste_control_id"`
	OKControlID    string `yaml:"ok_control_id"`
	// ProcessName identifies leftover processes to terminate after an upgrade.
	ProcessName string `yaml:"process_name"`
}

// Processing controls batching.
type Processing struct {
	// MaxLotsPerBatch bounds batch size; <=0 means a single batch.
	MaxLotsPerBatch int `yaml:"max_lots_per_batch"`
	// MaxPrompts is how many sequential parameter prompts one query may
	// raise. The application gives no a-priori signal of the count.
	MaxPrompts int `yaml:"max_prompts"`
}

type Logging struct {
	EnableFileLogging bool `yaml:"file_logging"`
}

type Config struct {
	Paths      Paths      `yaml:"paths"`
	Timeouts   Timeouts   `yaml:"timeouts"`
	UI         UI         `yaml:"ui"`
	Processing Processing `yaml:"processing"`
	Logging    Logging    `yaml:"logging"`
}

// Load reads the YAML config at path. When path is empty the location is
// resolved from SPF_AUTOMATION_CONFIG (optionally set by a .env file in the
// executable's directory), falling back to spf_automation.yaml next to the
// executable.
func Load(path string) (*Config, error) {
	loadDotenv()

	if path == "" {
		path = resolvePath()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	applyEnvOverrides(cfg)
	resolveRelativePaths(cfg, filepath.Dir(path))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the config names the inputs a run cannot start
// without. Output/report paths are not required to exist yet.
func (c *Config) Validate() error {
	if c.Paths.Document == "" {
		return fmt.Errorf("config: paths.document is required")
	}
	if c.Paths.OutputCSV == "" {
		return fmt.Errorf("config: paths.output_csv is required")
	}
	if c.UI.MainWindowTitle == "" {
		return fmt.Errorf("config: ui.main_window_title is required")
	}
	if c.Timeouts.FileStabilizeChecks <= 0 {
		return fmt.Errorf("config: timeouts.file_stabilize_checks must be positive")
	}
	return nil
}

// DocumentStem is the document file name without extension, used to pick the
// right main window when several instances are open.
func (c *Config) DocumentStem() string {
	base := filepath.Base(c.Paths.Document)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func defaults() *Config {
	return &Config{
		Timeouts: Timeouts{
			LaunchSec:                60,
			UIActionSec:              15,
			IndicatorWaitSec:         10,
			FileStabilizeChecks:      4,
			FileStabilizeIntervalSec: 2,
			OverallSec:               900,
		},
		UI: UI{
			MainWindowTitle: "SQLPathFinder",
			PromptTitles: []string{
				`.*Prompt.*Values.*`,
				`Prompt For Values \(in\)`,
				`.*Prompt.*`,
				`.*Values.*in.*`,
			},
			UpdateTitles: []string{
				`Update Recommended`,
				`.*Update.*Recommended.*`,
				`.*Update.*`,
			},
			UpdateConfirmTitles: []string{
				`Update SQLPathFinder\?`,
				`.*Update.*SQLPathFinder.*`,
			},
			IndicatorTitle: "Query Log",
			PasteControlID: "cmdPaste",
			OKControlID:    "CmdOK",
			ProcessName:    "SQLPathFinder",
		},
		Processing: Processing{
			MaxPrompts: 3,
		},
	}
}

func loadDotenv() {
	execPath, err := os.Executable()
	if err != nil {
		return
	}
	envPath := filepath.Join(filepath.Dir(execPath), ".env")
	if _, err := os.Stat(envPath); err == nil {
		_ = godotenv.Load(envPath)
	}
}

func resolvePath() string {
	if alt := os.Getenv(ConfigPathEnvVar); alt != "" {
		return alt
	}
	if execPath, err := os.Executable(); err == nil {
		return filepath.Join(filepath.Dir(execPath), "spf_automation.yaml")
	}
	return "spf_automation.yaml"
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ENABLE_FILE_LOGGING"); v != "" {
		cfg.Logging.EnableFileLogging = strings.EqualFold(v, "true")
	}
	if v := os.Getenv("SPF_OUTPUT_CSV"); v != "" {
		cfg.Paths.OutputCSV = v
	}
}

func resolveRelativePaths(cfg *Config, baseDir string) {
	for _, p := range []*string{
		&cfg.Paths.Executable,
		&cfg.Paths.Document,
		&cfg.Paths.OutputCSV,
		&cfg.Paths.LotsFile,
		&cfg.Paths.UpgradeHelper,
		&cfg.Paths.LogDir,
	} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(baseDir, *p)
		}
	}
}
