// Package clipboard writes text to the shared system clipboard. On windows it
// sets both the Unicode and the legacy single-byte formats, because the
// automated application's Paste action only splits multi-entry input when the
// clipboard looks like a plain text-editor copy.
package clipboard

import (
	xclipboard "golang.design/x/clipboard"
)

// Init prepares the clipboard backend. Must be called once before Write.
func Init() error {
	return xclipboard.Init()
}

// Write replaces the clipboard content with text. The previous content is
// always fully overwritten, never appended to.
func Write(text string) error {
	return setText(text)
}

func writeFallback(text string) error {
	// Write to clipboard - this returns a channel, not an error
	xclipboard.Write(xclipboard.FmtText, []byte(text))
	return nil
}

// Writer adapts the package to the driver's clipboard interface.
type Writer struct{}

func (Writer) Write(text string) error { return Write(text) }
