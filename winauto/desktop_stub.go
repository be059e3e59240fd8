//go:build !windows

package winauto

import "errors"

var errUnsupported = errors.New("window automation is only supported on windows")

type stubDesktop struct{}

// NewDesktop returns a Desktop that fails every call on non-windows hosts.
// The driver and its tests run against fakes there.
func NewDesktop() Desktop { return stubDesktop{} }

func (stubDesktop) Windows() ([]Window, error)         { return nil, errUnsupported }
func (stubDesktop) Focus(Window) error                 { return errUnsupported }
func (stubDesktop) Raise(Window) error                 { return errUnsupported }
func (stubDesktop) Controls(Window) ([]Control, error) { return nil, errUnsupported }
func (stubDesktop) Invoke(Control) error               { return errUnsupported }
func (stubDesktop) ClickAt(int, int) error             { return errUnsupported }
func (stubDesktop) PostKey(Window, uint16) error       { return errUnsupported }
func (stubDesktop) SendKey(Window, uint16) error       { return errUnsupported }
func (stubDesktop) TapKey(string) error                { return errUnsupported }
func (stubDesktop) Close(Window) error                 { return errUnsupported }
