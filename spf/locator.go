package spf

import (
	"fmt"
	"log"
	"strings"
	"time"

	"spf-automation/winauto"
)

// launchSettle gives a fresh process time to create its first window before
// polling starts.
const launchSettle = 3 * time.Second

// EnsureWindow makes sure a usable main window exists, launching the
// application if necessary, and remembers it for the rest of the run.
func (d *Driver) EnsureWindow() error {
	if d.haveWindow && d.windowAlive(d.window) {
		return nil
	}
	d.haveWindow = false

	before, err := d.mainWindows()
	if err != nil {
		return fmt.Errorf("enumerate windows: %w", err)
	}
	if len(before) > 0 {
		// Reuse an instance that is already open rather than spawning
		// another one.
		w := d.pickMainWindow(before)
		log.Printf("Locator: reusing open window %q", w.Title)
		d.window = w
		d.haveWindow = true
		return nil
	}

	if err := d.launchApplication(); err != nil {
		return err
	}
	d.clock.Sleep(launchSettle)

	w, err := d.awaitMainWindow(d.cfg.Timeouts.Launch())
	if err != nil {
		return err
	}
	log.Printf("Locator: acquired window %q", w.Title)
	d.window = w
	d.haveWindow = true
	return nil
}

// CloseAll shuts down every main window and then kills any leftover process.
// Used before a relaunch and during final release.
func (d *Driver) CloseAll() {
	wins, err := d.mainWindows()
	if err == nil {
		for _, w := range wins {
			log.Printf("Locator: closing window %q", w.Title)
			if err := d.desk.Close(w); err != nil {
				log.Printf("Locator: close %q failed: %v", w.Title, err)
			}
		}
	}
	if d.cfg.UI.ProcessName != "" {
		if err := d.launch.KillByName(d.cfg.UI.ProcessName); err != nil {
			log.Printf("Locator: kill %q failed: %v", d.cfg.UI.ProcessName, err)
		}
	}
	d.haveWindow = false
}

func (d *Driver) launchApplication() error {
	paths := d.cfg.Paths
	if paths.Executable != "" {
		log.Printf("Locator: launching %s %s", paths.Executable, paths.Document)
		if err := d.launch.Start(paths.Executable, paths.Document); err != nil {
			return fmt.Errorf("launch application: %w", err)
		}
		return nil
	}
	// No executable configured: let the OS route the document to its
	// registered handler.
	log.Printf("Locator: opening document %s", paths.Document)
	if err := d.launch.OpenDocument(paths.Document); err != nil {
		return fmt.Errorf("open document: %w", err)
	}
	return nil
}

func (d *Driver) awaitMainWindow(timeout time.Duration) (winauto.Window, error) {
	var found winauto.Window
	start := d.clock.Now()
	ok := winauto.Wait(d.clock, time.Second, timeout, func() bool {
		wins, err := d.mainWindows()
		if err != nil || len(wins) == 0 {
			return false
		}
		found = d.pickMainWindow(wins)
		return true
	})
	if !ok {
		return winauto.Window{}, &AcquisitionTimeoutError{
			Title:   d.cfg.UI.MainWindowTitle,
			Elapsed: d.clock.Now().Sub(start),
		}
	}
	return found, nil
}

// mainWindows returns visible top-level windows whose title carries the
// application name and which are not one of its transient dialogs.
func (d *Driver) mainWindows() ([]winauto.Window, error) {
	wins, err := d.desk.Windows()
	if err != nil {
		return nil, err
	}
	var out []winauto.Window
	for _, w := range wins {
		if !strings.Contains(strings.ToLower(w.Title), strings.ToLower(d.cfg.UI.MainWindowTitle)) {
			continue
		}
		if d.cls.Classify(w.Title) != DialogNone {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

// pickMainWindow prefers the window whose title mentions the loaded
// document, so a second instance with another document is not hijacked.
func (d *Driver) pickMainWindow(wins []winauto.Window) winauto.Window {
	stem := strings.ToLower(d.cfg.DocumentStem())
	if stem != "" {
		for _, w := range wins {
			if strings.Contains(strings.ToLower(w.Title), stem) {
				return w
			}
		}
	}
	return wins[0]
}

func (d *Driver) windowAlive(w winauto.Window) bool {
	wins, err := d.desk.Windows()
	if err != nil {
		return false
	}
	for _, cand := range wins {
		if cand.Handle == w.Handle {
			return true
		}
	}
	return false
}
