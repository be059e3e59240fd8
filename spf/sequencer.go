package spf

import (
	"fmt"
	"log"
	"time"

	"spf-automation/winauto"
)

const (
	// postTriggerSettle covers the gap between the run keystroke and the
	// first prompt window being created.
	postTriggerSettle = 2500 * time.Millisecond
	indicatorPoll     = 500 * time.Millisecond
	promptPoll        = 500 * time.Millisecond
)

// Submit triggers query execution and walks the parameter prompts, pasting
// values into each one. A query raises one to MaxPrompts prompts; the
// execution indicator window is the only signal that no more will come.
func (d *Driver) Submit(values []string) error {
	d.focusWindow(d.window)
	if err := d.triggerRun(); err != nil {
		return err
	}
	d.clock.Sleep(postTriggerSettle)

	// The first prompt always appears; anything else means the trigger was
	// lost or the application is wedged.
	dlg, err := d.awaitPrompt(1, d.cfg.Timeouts.UIAction())
	if err != nil {
		return err
	}
	if err := d.injectValues(dlg, values); err != nil {
		return err
	}

	maxPrompts := d.cfg.Processing.MaxPrompts
	if maxPrompts < 1 {
		maxPrompts = 1
	}
	for attempt := 2; attempt <= maxPrompts; attempt++ {
		if d.awaitIndicator(d.cfg.Timeouts.IndicatorWait()) {
			log.Printf("Sequencer: execution indicator up after %d prompt(s)", attempt-1)
			return nil
		}
		// The next prompt gets its own bounded wait; prompts can lag well
		// behind the previous confirmation while the query plan loads.
		dlg, ok := d.awaitNextPrompt(d.cfg.Timeouts.UIAction())
		if !ok {
			// No prompt within the deadline and no indicator. The query may
			// run without showing its log window; let the completion wait
			// decide.
			log.Printf("Sequencer: no prompt %d and no indicator, assuming query started", attempt)
			return nil
		}
		if err := d.injectValues(dlg, values); err != nil {
			return err
		}
	}

	if d.awaitIndicator(d.cfg.Timeouts.IndicatorWait()) {
		log.Printf("Sequencer: execution indicator up after %d prompt(s)", maxPrompts)
	} else {
		log.Printf("Sequencer: indicator not seen after %d prompts, continuing", maxPrompts)
	}
	return nil
}

// triggerRun sends the run keystroke (F8), falling back from posted message
// to sent message to a synthetic key tap.
func (d *Driver) triggerRun() error {
	err := d.desk.PostKey(d.window, winauto.VKF8)
	if err == nil {
		return nil
	}
	log.Printf("Sequencer: PostKey F8 failed: %v", err)

	err = d.desk.SendKey(d.window, winauto.VKF8)
	if err == nil {
		return nil
	}
	log.Printf("Sequencer: SendKey F8 failed: %v", err)

	d.focusWindow(d.window)
	if err := d.desk.TapKey("f8"); err != nil {
		return fmt.Errorf("trigger run: every F8 strategy failed: %w", err)
	}
	return nil
}

func (d *Driver) awaitPrompt(attempt int, timeout time.Duration) (winauto.Window, error) {
	var dlg winauto.Window
	start := d.clock.Now()
	ok := winauto.Wait(d.clock, promptPoll, timeout, func() bool {
		var found bool
		dlg, found = d.currentPrompt()
		return found
	})
	if !ok {
		return winauto.Window{}, &PromptTimeoutError{Attempt: attempt, Elapsed: d.clock.Now().Sub(start)}
	}
	return dlg, nil
}

func (d *Driver) currentPrompt() (winauto.Window, bool) {
	wins, err := d.desk.Windows()
	if err != nil {
		return winauto.Window{}, false
	}
	return d.cls.findDialog(wins, DialogPrompt)
}

// awaitNextPrompt polls for an optional follow-up prompt. The wait ends early
// when the execution indicator shows up instead, since that means no further
// prompt is coming.
func (d *Driver) awaitNextPrompt(timeout time.Duration) (winauto.Window, bool) {
	var dlg winauto.Window
	var havePrompt bool
	winauto.Wait(d.clock, promptPoll, timeout, func() bool {
		wins, err := d.desk.Windows()
		if err != nil {
			return false
		}
		dlg, havePrompt = d.cls.findDialog(wins, DialogPrompt)
		if havePrompt {
			return true
		}
		_, indicator := d.cls.findDialog(wins, DialogQueryRunning)
		return indicator
	})
	return dlg, havePrompt
}

func (d *Driver) awaitIndicator(timeout time.Duration) bool {
	return winauto.Wait(d.clock, indicatorPoll, timeout, func() bool {
		wins, err := d.desk.Windows()
		if err != nil {
			return false
		}
		_, found := d.cls.findDialog(wins, DialogQueryRunning)
		return found
	})
}
