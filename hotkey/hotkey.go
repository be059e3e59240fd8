// Package hotkey watches the keyboard for the abort key while a run is in
// progress.
package hotkey

import (
	"log"

	gohook "github.com/robotn/gohook"
)

// Escape rawcodes differ between platforms.
const (
	escRawcodeWindows = 27
	escRawcodeX11     = 65307
)

// ListenEscape invokes callback every time the Escape key is pressed,
// anywhere on the desktop. The callback runs on the hook goroutine and must
// not block.
func ListenEscape(callback func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("PANIC in hotkey goroutine: %v", r)
			}
		}()

		evChan := gohook.Start()
		if evChan == nil {
			log.Printf("Hotkey: gohook.Start() returned nil channel")
			return
		}
		log.Printf("Hotkey: listening for ESC (press to abort after the current batch)")

		for ev := range evChan {
			if ev.Kind != gohook.KeyDown {
				continue
			}
			if ev.Rawcode == escRawcodeWindows || ev.Rawcode == escRawcodeX11 {
				log.Printf("Hotkey: ESC pressed, abort requested")
				callback()
			}
		}
		log.Printf("Hotkey: event channel closed")
	}()
}

// Stop tears down the global keyboard hook.
func Stop() {
	gohook.End()
}
