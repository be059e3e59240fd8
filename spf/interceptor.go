package spf

import (
	"log"
	"strings"
	"time"

	"spf-automation/winauto"
)

// ScanOutcome reports what a dialog sweep found and did.
type ScanOutcome int

const (
	// ScanNoDialog means no blocking dialog was present; nothing was touched.
	ScanNoDialog ScanOutcome = iota
	// ScanResolved means a dialog was found and dismissed.
	ScanResolved
	// ScanRelaunchRequired means the application was closed for an upgrade
	// and must be launched again.
	ScanRelaunchRequired
)

const (
	dismissSettle      = time.Second
	manualGrace        = 30 * time.Second
	confirmWait        = 30 * time.Second
	upgradeClickSettle = 5 * time.Second
	postKillSettle     = 3 * time.Second
)

// affirmativeButtons are tried in order against an update dialog. The
// accelerator form appears on older builds.
var affirmativeButtons = []string{"Yes", "&Yes", "Update"}

// confirmButtons accept the second dialog the upgrade helper raises.
var confirmButtons = []string{"Update", "&Update", "Yes"}

// ScanAndResolve looks for an update dialog blocking the application and
// clears it. Running with no dialog present is a no-op, so it is safe to
// call both before and after window acquisition.
//
// When an upgrade helper is configured, clearing the update dialog always
// runs the full upgrade and reports ScanRelaunchRequired; without one the
// dialog is only dismissed and the run continues on the current version.
func (d *Driver) ScanAndResolve() (ScanOutcome, error) {
	wins, err := d.desk.Windows()
	if err != nil {
		return ScanNoDialog, err
	}
	dlg, found := d.cls.findDialog(wins, DialogUpdateRecommended)
	if !found {
		return ScanNoDialog, nil
	}

	log.Printf("Interceptor: update dialog %q detected", dlg.Title)
	if !d.resolveDialog(dlg, affirmativeButtons) {
		// Give the operator a window to click it away by hand.
		if !d.awaitDialogGone(dlg, manualGrace) {
			return ScanNoDialog, &DialogResolutionError{Title: dlg.Title, Kind: DialogUpdateRecommended}
		}
		log.Printf("Interceptor: dialog %q cleared manually", dlg.Title)
	}

	if d.cfg.Paths.UpgradeHelper == "" {
		log.Printf("Interceptor: no upgrade helper configured, continuing on current version")
		return ScanResolved, nil
	}
	if err := d.escalateUpgrade(); err != nil {
		return ScanNoDialog, err
	}
	return ScanRelaunchRequired, nil
}

// resolveDialog focuses dlg and works through the activation strategies in
// order until one makes the dialog go away. Every strategy reports uniformly
// so the chain short-circuits on the first success.
func (d *Driver) resolveDialog(dlg winauto.Window, buttons []string) bool {
	d.focusWindow(dlg)

	strategies := []struct {
		name string
		act  func() bool
	}{
		{"first-button", func() bool { return d.clickFirstButton(dlg) }},
		{"exact-title", func() bool { return d.clickByTitle(dlg, buttons, false) }},
		{"substring-title", func() bool { return d.clickByTitle(dlg, buttons, true) }},
		{"coordinate", func() bool { return d.clickByCoordinate(dlg, buttons) }},
	}
	for _, s := range strategies {
		if !s.act() {
			continue
		}
		d.clock.Sleep(dismissSettle)
		if d.dialogGone(dlg) {
			log.Printf("Interceptor: resolved %q via %s", dlg.Title, s.name)
			return true
		}
	}
	return false
}

// clickFirstButton invokes the first enumerated button-class control.
func (d *Driver) clickFirstButton(dlg winauto.Window) bool {
	ctrls, err := d.desk.Controls(dlg)
	if err != nil {
		return false
	}
	for _, c := range ctrls {
		if !strings.Contains(strings.ToLower(c.Class), "button") {
			continue
		}
		return d.desk.Invoke(c) == nil
	}
	return false
}

func (d *Driver) clickByTitle(dlg winauto.Window, titles []string, substring bool) bool {
	ctrl, ok := d.matchButton(dlg, titles, substring)
	if !ok {
		return false
	}
	return d.desk.Invoke(ctrl) == nil
}

// clickByCoordinate synthesizes a mouse click at the matched control's
// center, or at the dialog center when no controls are enumerable at all.
func (d *Driver) clickByCoordinate(dlg winauto.Window, titles []string) bool {
	if ctrl, ok := d.matchButton(dlg, titles, true); ok {
		x, y := ctrl.Rect.Center()
		return d.desk.ClickAt(x, y) == nil
	}
	if ctrls, err := d.desk.Controls(dlg); err == nil && len(ctrls) == 0 {
		x, y := dlg.Rect.Center()
		return d.desk.ClickAt(x, y) == nil
	}
	return false
}

func (d *Driver) matchButton(dlg winauto.Window, titles []string, substring bool) (winauto.Control, bool) {
	ctrls, err := d.desk.Controls(dlg)
	if err != nil {
		return winauto.Control{}, false
	}
	for _, want := range titles {
		for _, c := range ctrls {
			if c.Title == want {
				return c, true
			}
		}
	}
	if substring {
		for _, want := range titles {
			needle := strings.ToLower(strings.TrimPrefix(want, "&"))
			for _, c := range ctrls {
				if strings.Contains(strings.ToLower(c.Title), needle) {
					return c, true
				}
			}
		}
	}
	return winauto.Control{}, false
}

// escalateUpgrade runs the upgrade helper, accepts the second confirmation
// dialog it raises and tears the application down so the updated build
// starts clean.
func (d *Driver) escalateUpgrade() error {
	log.Printf("Interceptor: escalating to upgrade helper %s", d.cfg.Paths.UpgradeHelper)
	if err := d.launch.RunDetached(d.cfg.Paths.UpgradeHelper); err != nil {
		return &DialogResolutionError{Title: d.cfg.Paths.UpgradeHelper, Kind: DialogUpdateConfirm}
	}

	var confirm winauto.Window
	found := winauto.Wait(d.clock, time.Second, confirmWait, func() bool {
		wins, err := d.desk.Windows()
		if err != nil {
			return false
		}
		var ok bool
		confirm, ok = d.cls.findDialog(wins, DialogUpdateConfirm)
		return ok
	})
	if found {
		if !d.resolveDialog(confirm, confirmButtons) {
			return &DialogResolutionError{Title: confirm.Title, Kind: DialogUpdateConfirm}
		}
		d.clock.Sleep(upgradeClickSettle)
	} else {
		log.Printf("Interceptor: upgrade confirmation never appeared, closing anyway")
	}

	d.CloseAll()
	d.clock.Sleep(postKillSettle)
	return nil
}

func (d *Driver) focusWindow(w winauto.Window) {
	if err := d.desk.Focus(w); err != nil {
		log.Printf("Interceptor: focus %q denied, raising instead: %v", w.Title, err)
		if err := d.desk.Raise(w); err != nil {
			log.Printf("Interceptor: raise %q failed: %v", w.Title, err)
		}
	}
}

func (d *Driver) dialogGone(dlg winauto.Window) bool {
	wins, err := d.desk.Windows()
	if err != nil {
		return false
	}
	for _, w := range wins {
		if w.Handle == dlg.Handle {
			return false
		}
	}
	return true
}

func (d *Driver) awaitDialogGone(dlg winauto.Window, timeout time.Duration) bool {
	return winauto.Wait(d.clock, time.Second, timeout, func() bool {
		return d.dialogGone(dlg)
	})
}
