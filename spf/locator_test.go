package spf

import (
	"errors"
	"testing"
	"time"

	"spf-automation/winauto"
)

func TestEnsureWindowReusesOpenInstance(t *testing.T) {
	env := newTestEnv(t)
	env.desk.setWindows(mainWin())

	if err := env.driver.EnsureWindow(); err != nil {
		t.Fatalf("EnsureWindow: %v", err)
	}
	if len(env.launch.started)+len(env.launch.opened) != 0 {
		t.Errorf("launched despite open instance: started=%v opened=%v", env.launch.started, env.launch.opened)
	}
	if env.driver.window.Handle != mainWin().Handle {
		t.Errorf("window = %+v, want handle %d", env.driver.window, mainWin().Handle)
	}
}

func TestEnsureWindowLaunchesExecutable(t *testing.T) {
	env := newTestEnv(t)
	env.launch.onStart = func() {
		env.desk.addWindow(mainWin())
	}

	if err := env.driver.EnsureWindow(); err != nil {
		t.Fatalf("EnsureWindow: %v", err)
	}
	if len(env.launch.started) != 1 {
		t.Fatalf("started = %v, want one launch", env.launch.started)
	}
	got := env.launch.started[0]
	if got[0] != env.cfg.Paths.Executable || got[1] != env.cfg.Paths.Document {
		t.Errorf("launch args = %v, want [exe document]", got)
	}
}

func TestEnsureWindowOpensDocumentWithoutExecutable(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.Paths.Executable = ""
	appeared := false
	env.clock.onSleep = func(time.Duration) {
		if !appeared {
			appeared = true
			env.desk.addWindow(mainWin())
		}
	}

	if err := env.driver.EnsureWindow(); err != nil {
		t.Fatalf("EnsureWindow: %v", err)
	}
	if len(env.launch.opened) != 1 || env.launch.opened[0] != env.cfg.Paths.Document {
		t.Errorf("opened = %v, want [document]", env.launch.opened)
	}
}

func TestEnsureWindowTimeout(t *testing.T) {
	env := newTestEnv(t)

	err := env.driver.EnsureWindow()
	var acqErr *AcquisitionTimeoutError
	if !errors.As(err, &acqErr) {
		t.Fatalf("err = %v, want *AcquisitionTimeoutError", err)
	}
	if acqErr.Title != "SQLPathFinder" {
		t.Errorf("title = %q, want SQLPathFinder", acqErr.Title)
	}
}

// With two instances open, the one showing the configured document wins.
func TestEnsureWindowPrefersDocumentTitle(t *testing.T) {
	env := newTestEnv(t)
	other := winauto.Window{Handle: 90, Title: "SQLPathFinder - scratch"}
	ours := winauto.Window{Handle: 100, Title: "SQLPathFinder - queries"}
	env.desk.setWindows(other, ours)

	if err := env.driver.EnsureWindow(); err != nil {
		t.Fatalf("EnsureWindow: %v", err)
	}
	if env.driver.window.Handle != ours.Handle {
		t.Errorf("window = %+v, want the document window", env.driver.window)
	}
}

// Transient dialogs carrying the application name must not pass for main
// windows.
func TestEnsureWindowIgnoresDialogs(t *testing.T) {
	env := newTestEnv(t)
	env.desk.setWindows(winauto.Window{Handle: 400, Title: "Update SQLPathFinder?"})

	err := env.driver.EnsureWindow()
	var acqErr *AcquisitionTimeoutError
	if !errors.As(err, &acqErr) {
		t.Fatalf("err = %v, want *AcquisitionTimeoutError", err)
	}
}

func TestCloseAll(t *testing.T) {
	env := newTestEnv(t)
	env.desk.setWindows(
		winauto.Window{Handle: 90, Title: "SQLPathFinder - scratch"},
		winauto.Window{Handle: 100, Title: "SQLPathFinder - queries"},
		winauto.Window{Handle: 1, Title: "Notepad"},
	)
	env.driver.haveWindow = true

	env.driver.CloseAll()

	if len(env.desk.closed) != 2 {
		t.Errorf("closed = %v, want both application windows", env.desk.closed)
	}
	if len(env.launch.killed) != 1 || env.launch.killed[0] != "SQLPathFinder" {
		t.Errorf("killed = %v, want [SQLPathFinder]", env.launch.killed)
	}
	if env.driver.haveWindow {
		t.Error("haveWindow still set after CloseAll")
	}
}
