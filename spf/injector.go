package spf

import (
	"fmt"
	"log"
	"strings"
	"time"

	"spf-automation/winauto"
)

const (
	pasteSettle  = time.Second
	submitSettle = 500 * time.Millisecond
)

// JoinValues renders identifiers in the line format the prompt's paste
// handler expects: CRLF separated, no trailing terminator.
func JoinValues(values []string) string {
	return strings.Join(values, "\r\n")
}

// injectValues delivers values into the parameter prompt dlg through the
// clipboard and confirms it. The prompt's own paste button is used rather
// than synthetic Ctrl+V so the control validates the input itself.
func (d *Driver) injectValues(dlg winauto.Window, values []string) error {
	text := JoinValues(values)
	if err := d.clip.Write(text); err != nil {
		return &InjectionError{Stage: "clipboard", Window: dlg.Title, Err: err}
	}
	d.focusWindow(dlg)

	paste, ok := d.findControl(dlg, d.cfg.UI.PasteControlID, "Paste")
	if !ok {
		return &InjectionError{
			Stage:  "locate-paste",
			Window: dlg.Title,
			Err:    fmt.Errorf("no control with id %q or a Paste title", d.cfg.UI.PasteControlID),
		}
	}
	if err := d.desk.Invoke(paste); err != nil {
		return &InjectionError{Stage: "paste", Window: dlg.Title, Err: err}
	}
	d.clock.Sleep(pasteSettle)

	if okBtn, found := d.findControl(dlg, d.cfg.UI.OKControlID, "OK"); found {
		if err := d.desk.Invoke(okBtn); err != nil {
			return &InjectionError{Stage: "confirm", Window: dlg.Title, Err: err}
		}
	} else {
		// Some prompt variants expose no OK control; Enter activates the
		// default button.
		log.Printf("Injector: no OK control on %q, sending Enter", dlg.Title)
		if err := d.desk.SendKey(dlg, winauto.VKReturn); err != nil {
			return &InjectionError{Stage: "confirm", Window: dlg.Title, Err: err}
		}
	}
	d.clock.Sleep(submitSettle)
	log.Printf("Injector: pasted %d values into %q", len(values), dlg.Title)
	return nil
}

// findControl looks up a child control by its dialog control ID first, then
// by exact title, then by a case-insensitive substring of the title. Exact
// goes before substring so an unrelated label containing the word cannot
// shadow the real button.
func (d *Driver) findControl(dlg winauto.Window, id, title string) (winauto.Control, bool) {
	ctrls, err := d.desk.Controls(dlg)
	if err != nil {
		return winauto.Control{}, false
	}
	for _, c := range ctrls {
		if c.ID != "" && strings.EqualFold(c.ID, id) {
			return c, true
		}
	}
	for _, c := range ctrls {
		if strings.EqualFold(c.Title, title) {
			return c, true
		}
	}
	for _, c := range ctrls {
		if strings.Contains(strings.ToLower(c.Title), strings.ToLower(title)) {
			return c, true
		}
	}
	return winauto.Control{}, false
}
