// Package spf drives an interactive query application that exposes no
// scripting interface. Queries are executed by locating the application's
// windows, feeding identifier lists through its parameter prompts, and
// watching the result file it writes.
package spf

import (
	"sync/atomic"

	"spf-automation/config"
	"spf-automation/winauto"
)

// Clipboard is the slice of clipboard behavior the driver needs.
type Clipboard interface {
	Write(text string) error
}

// Deps are the external surfaces a Driver acts through. Every field is
// required.
type Deps struct {
	Desktop   winauto.Desktop
	Launcher  winauto.Launcher
	Clipboard Clipboard
	Clock     winauto.Clock
}

// Driver runs identifier batches through the application end to end.
// A Driver is not safe for concurrent use; RequestAbort is the only method
// that may be called from another goroutine.
type Driver struct {
	cfg    *config.Config
	cls    *classifier
	desk   winauto.Desktop
	launch winauto.Launcher
	clip   Clipboard
	clock  winauto.Clock

	window     winauto.Window
	haveWindow bool

	aborted atomic.Bool
}

func New(cfg *config.Config, deps Deps) *Driver {
	return &Driver{
		cfg: cfg,
		cls: newClassifier(
			cfg.UI.PromptTitles,
			cfg.UI.UpdateTitles,
			cfg.UI.UpdateConfirmTitles,
			cfg.UI.IndicatorTitle,
		),
		desk:   deps.Desktop,
		launch: deps.Launcher,
		clip:   deps.Clipboard,
		clock:  deps.Clock,
	}
}

// RequestAbort stops the run at the next batch boundary. Safe to call from
// any goroutine.
func (d *Driver) RequestAbort() {
	d.aborted.Store(true)
}

func (d *Driver) abortRequested() bool {
	return d.aborted.Load()
}
