// Package winauto is the window-automation surface the driver runs on: visible
// top-level window enumeration, child-control discovery and activation,
// keyboard message dispatch, and process launch/teardown. The real
// implementation talks to win32; everything is behind interfaces so the
// driver state machine can run against fakes.
package winauto

// Window is a visible top-level window at the moment of enumeration. Window
// lists are never cached: windows appear and disappear asynchronously, so
// callers re-enumerate before every decision.
type Window struct {
	Handle uintptr
	Title  string
	PID    uint32
	Rect   Rect
}

// Control is a child control of a window. ID carries the dialog control
// identifier when the platform exposes one; Title is the visible text.
type Control struct {
	Handle uintptr
	ID     string
	Title  string
	Class  string
	Rect   Rect
}

type Rect struct {
	Left, Top, Right, Bottom int
}

// Center returns the midpoint in screen coordinates, for synthetic clicks.
func (r Rect) Center() (int, int) {
	return (r.Left + r.Right) / 2, (r.Top + r.Bottom) / 2
}

// Desktop exposes the window-level automation calls the driver needs.
type Desktop interface {
	// Windows enumerates the currently visible top-level windows.
	Windows() ([]Window, error)

	// Focus asks the window system to bring w to the foreground.
	// It can be denied when the calling process lacks foreground rights.
	Focus(w Window) error

	// Raise forces w to the front by pinning it topmost and then restoring
	// its z-order. Fallback for when Focus is denied.
	Raise(w Window) error

	// Controls enumerates the child controls of w.
	Controls(w Window) ([]Control, error)

	// Invoke activates a control programmatically (button click semantics).
	Invoke(c Control) error

	// ClickAt performs a synthetic mouse click at screen coordinates.
	ClickAt(x, y int) error

	// PostKey posts an asynchronous key-down/key-up pair to w.
	PostKey(w Window, vk uint16) error

	// SendKey delivers a synchronous key-down/key-up pair to w.
	SendKey(w Window, vk uint16) error

	// TapKey presses a key through the global synthetic-input channel.
	// The key name follows the usual lowercase convention ("f8", "enter").
	TapKey(key string) error

	// Close requests that w close itself.
	Close(w Window) error
}

// Launcher starts and tears down the external application.
type Launcher interface {
	// Start launches an executable without waiting for it to exit.
	Start(path string, args ...string) error

	// OpenDocument opens a document with its registered default handler.
	OpenDocument(path string) error

	// RunDetached runs a helper script fire-and-forget.
	RunDetached(path string) error

	// KillByName terminates every process whose image name contains name.
	KillByName(name string) error
}

// Virtual-key codes used by the driver.
const (
	VKReturn uint16 = 0x0D
	VKEscape uint16 = 0x1B
	VKF8     uint16 = 0x77
)
