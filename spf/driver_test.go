package spf

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"spf-automation/config"
	"spf-automation/winauto"
)

// fakeDesktop is an in-memory desktop. Tests mutate its window list (often
// from onInvoke or the clock's onSleep hook) to simulate dialogs appearing
// and disappearing.
type fakeDesktop struct {
	mu       sync.Mutex
	windows  []winauto.Window
	controls map[uintptr][]winauto.Control

	invoked []string // control titles, in order
	focused []string
	posted  []uint16
	sent    []uint16
	tapped  []string
	clicks  [][2]int
	closed  []string

	onInvoke  func(c winauto.Control)
	onPostKey func(vk uint16)
}

func newFakeDesktop() *fakeDesktop {
	return &fakeDesktop{controls: make(map[uintptr][]winauto.Control)}
}

func (f *fakeDesktop) setWindows(wins ...winauto.Window) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.windows = wins
}

func (f *fakeDesktop) addWindow(w winauto.Window) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.windows = append(f.windows, w)
}

func (f *fakeDesktop) removeWindow(handle uintptr) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.windows[:0]
	for _, w := range f.windows {
		if w.Handle != handle {
			out = append(out, w)
		}
	}
	f.windows = out
}

func (f *fakeDesktop) Windows() ([]winauto.Window, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]winauto.Window, len(f.windows))
	copy(out, f.windows)
	return out, nil
}

func (f *fakeDesktop) Focus(w winauto.Window) error {
	f.focused = append(f.focused, w.Title)
	return nil
}

func (f *fakeDesktop) Raise(w winauto.Window) error { return nil }

func (f *fakeDesktop) Controls(w winauto.Window) ([]winauto.Control, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.controls[w.Handle], nil
}

func (f *fakeDesktop) Invoke(c winauto.Control) error {
	f.invoked = append(f.invoked, c.Title)
	if f.onInvoke != nil {
		f.onInvoke(c)
	}
	return nil
}

func (f *fakeDesktop) ClickAt(x, y int) error {
	f.clicks = append(f.clicks, [2]int{x, y})
	return nil
}

func (f *fakeDesktop) PostKey(w winauto.Window, vk uint16) error {
	f.posted = append(f.posted, vk)
	if f.onPostKey != nil {
		f.onPostKey(vk)
	}
	return nil
}

func (f *fakeDesktop) SendKey(w winauto.Window, vk uint16) error {
	f.sent = append(f.sent, vk)
	return nil
}

func (f *fakeDesktop) TapKey(key string) error {
	f.tapped = append(f.tapped, key)
	return nil
}

func (f *fakeDesktop) Close(w winauto.Window) error {
	f.closed = append(f.closed, w.Title)
	f.removeWindow(w.Handle)
	return nil
}

type fakeLauncher struct {
	started  [][]string
	opened   []string
	detached []string
	killed   []string
	onStart  func()
	onDetach func()
}

func (f *fakeLauncher) Start(path string, args ...string) error {
	f.started = append(f.started, append([]string{path}, args...))
	if f.onStart != nil {
		f.onStart()
	}
	return nil
}

func (f *fakeLauncher) OpenDocument(path string) error {
	f.opened = append(f.opened, path)
	return nil
}

func (f *fakeLauncher) RunDetached(path string) error {
	f.detached = append(f.detached, path)
	if f.onDetach != nil {
		f.onDetach()
	}
	return nil
}

func (f *fakeLauncher) KillByName(name string) error {
	f.killed = append(f.killed, name)
	return nil
}

type fakeClipboard struct {
	writes []string
	err    error
}

func (f *fakeClipboard) Write(text string) error {
	if f.err != nil {
		return f.err
	}
	f.writes = append(f.writes, text)
	return nil
}

// fakeClock advances instantly on Sleep so polling loops run without real
// delays. onSleep fires before the advance, letting tests stage desktop or
// filesystem changes "during" a wait.
type fakeClock struct {
	now     time.Time
	onSleep func(d time.Duration)
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	if c.onSleep != nil {
		c.onSleep(d)
	}
	c.now = c.now.Add(d)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		Paths: config.Paths{
			Executable:    filepath.Join(dir, "spf.exe"),
			Document:      filepath.Join(dir, "queries.vg2"),
			OutputCSV:     filepath.Join(dir, "result.csv"),
			UpgradeHelper: filepath.Join(dir, "upgrade.cmd"),
		},
		Timeouts: config.Timeouts{
			LaunchSec:                10,
			UIActionSec:              5,
			IndicatorWaitSec:         2,
			FileStabilizeChecks:      4,
			FileStabilizeIntervalSec: 2,
			OverallSec:               60,
		},
		UI: config.UI{
			MainWindowTitle: "SQLPathFinder",
			PromptTitles: []string{
				`.*Prompt.*Values.*`,
				`Prompt For Values \(in\)`,
				`.*Prompt.*`,
				`.*Values.*in.*`,
			},
			UpdateTitles: []string{
				`Update Recommended`,
				`.*Update.*Recommended.*`,
				`.*Update.*`,
			},
			UpdateConfirmTitles: []string{
				`Update SQLPathFinder\?`,
				`.*Update.*SQLPathFinder.*`,
			},
			IndicatorTitle: "Query Log",
			PasteControlID: "cmdPaste",
			OKControlID:    "CmdOK",
			ProcessName:    "SQLPathFinder",
		},
		Processing: config.Processing{MaxPrompts: 3},
	}
	return cfg
}

type testEnv struct {
	driver *Driver
	desk   *fakeDesktop
	launch *fakeLauncher
	clip   *fakeClipboard
	clock  *fakeClock
	cfg    *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := testConfig(t)
	desk := newFakeDesktop()
	launch := &fakeLauncher{}
	clip := &fakeClipboard{}
	clock := newFakeClock()
	return &testEnv{
		driver: New(cfg, Deps{Desktop: desk, Launcher: launch, Clipboard: clip, Clock: clock}),
		desk:   desk,
		launch: launch,
		clip:   clip,
		clock:  clock,
		cfg:    cfg,
	}
}

// mainWin is the application window used by most tests.
func mainWin() winauto.Window {
	return winauto.Window{Handle: 100, Title: "SQLPathFinder - queries", PID: 42}
}

// promptWin builds a parameter prompt with working paste and OK controls.
func (e *testEnv) promptWin(handle uintptr) winauto.Window {
	w := winauto.Window{Handle: handle, Title: "Prompt For Values (in)", PID: 42}
	e.desk.controls[handle] = []winauto.Control{
		{Handle: handle*10 + 1, ID: "cmdPaste", Title: "Paste"},
		{Handle: handle*10 + 2, ID: "CmdOK", Title: "OK"},
	}
	return w
}
