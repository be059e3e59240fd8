package spf

import (
	"log"
	"regexp"
	"strings"

	"spf-automation/winauto"
)

// DialogKind classifies top-level windows the driver may encounter while the
// application is busy.
type DialogKind int

const (
	// DialogNone is a window the driver does not act on.
	DialogNone DialogKind = iota
	// DialogPrompt is a parameter prompt awaiting input.
	DialogPrompt
	// DialogUpdateRecommended is the soft upgrade nag. Dismissing it lets
	// the run continue on the current version.
	DialogUpdateRecommended
	// DialogUpdateConfirm is the hard upgrade confirmation raised by the
	// upgrade helper. Accepting it closes the application.
	DialogUpdateConfirm
	// DialogQueryRunning is the execution indicator. Its presence means the
	// query started and no more prompts will appear.
	DialogQueryRunning
)

func (k DialogKind) String() string {
	switch k {
	case DialogPrompt:
		return "prompt"
	case DialogUpdateRecommended:
		return "update-recommended"
	case DialogUpdateConfirm:
		return "update-confirm"
	case DialogQueryRunning:
		return "query-running"
	default:
		return "none"
	}
}

// classifier matches window titles against the configured patterns. Patterns
// are compiled once; a pattern that fails to compile is matched literally.
type classifier struct {
	prompt        []*regexp.Regexp
	update        []*regexp.Regexp
	updateConfirm []*regexp.Regexp
	indicator     string
}

func newClassifier(promptTitles, updateTitles, confirmTitles []string, indicatorTitle string) *classifier {
	return &classifier{
		prompt:        compilePatterns(promptTitles),
		update:        compilePatterns(updateTitles),
		updateConfirm: compilePatterns(confirmTitles),
		indicator:     strings.ToLower(indicatorTitle),
	}
}

func compilePatterns(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("^(?:" + p + ")$")
		if err != nil {
			log.Printf("Dialogs: invalid title pattern %q, matching literally: %v", p, err)
			re = regexp.MustCompile("^" + regexp.QuoteMeta(p) + "$")
		}
		out = append(out, re)
	}
	return out
}

// Classify maps a window title to the dialog kind the driver should treat it
// as. The confirm patterns are checked before the broader update patterns so
// ".*Update.*" does not swallow the confirmation dialog.
func (c *classifier) Classify(title string) DialogKind {
	if title == "" {
		return DialogNone
	}
	if c.indicator != "" && strings.Contains(strings.ToLower(title), c.indicator) {
		return DialogQueryRunning
	}
	if matchAny(c.updateConfirm, title) {
		return DialogUpdateConfirm
	}
	if matchAny(c.prompt, title) {
		return DialogPrompt
	}
	if matchAny(c.update, title) {
		return DialogUpdateRecommended
	}
	return DialogNone
}

func matchAny(patterns []*regexp.Regexp, title string) bool {
	for _, re := range patterns {
		if re.MatchString(title) {
			return true
		}
	}
	return false
}

// findDialog returns the first visible window of kind, scanning in desktop
// z-order.
func (c *classifier) findDialog(windows []winauto.Window, kind DialogKind) (winauto.Window, bool) {
	for _, w := range windows {
		if c.Classify(w.Title) == kind {
			return w, true
		}
	}
	return winauto.Window{}, false
}
