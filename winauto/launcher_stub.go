//go:build !windows

package winauto

type stubLauncher struct{}

// NewLauncher returns a Launcher that fails every call on non-windows hosts.
func NewLauncher() Launcher { return stubLauncher{} }

func (stubLauncher) Start(string, ...string) error { return errUnsupported }
func (stubLauncher) OpenDocument(string) error     { return errUnsupported }
func (stubLauncher) RunDetached(string) error      { return errUnsupported }
func (stubLauncher) KillByName(string) error       { return errUnsupported }
