package spf

import (
	"errors"
	"testing"
	"time"

	"spf-automation/winauto"
)

func primeMainWindow(env *testEnv) {
	env.desk.setWindows(mainWin())
	env.driver.window = mainWin()
	env.driver.haveWindow = true
}

func TestSubmitSinglePrompt(t *testing.T) {
	env := newTestEnv(t)
	primeMainWindow(env)
	prompt := env.promptWin(200)
	env.desk.addWindow(prompt)
	env.desk.onInvoke = func(c winauto.Control) {
		if c.Handle == 2002 { // prompt OK
			env.desk.removeWindow(200)
			env.desk.addWindow(winauto.Window{Handle: 500, Title: "SQLPathFinder Query Log"})
		}
	}

	if err := env.driver.Submit([]string{"LOT1", "LOT2"}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(env.desk.posted) != 1 || env.desk.posted[0] != winauto.VKF8 {
		t.Errorf("posted = %v, want [VK_F8]", env.desk.posted)
	}
	if len(env.clip.writes) != 1 || env.clip.writes[0] != "LOT1\r\nLOT2" {
		t.Errorf("clipboard writes = %v, want one CRLF-joined paste", env.clip.writes)
	}
}

// Two prompts appear back to back, then the execution indicator. The values
// must be pasted exactly twice; once the indicator is up there is no third
// prompt attempt.
func TestSubmitTwoPromptsThenIndicator(t *testing.T) {
	env := newTestEnv(t)
	primeMainWindow(env)
	first := env.promptWin(200)
	second := env.promptWin(210)
	env.desk.addWindow(first)
	env.desk.onInvoke = func(c winauto.Control) {
		switch c.Handle {
		case 2002: // OK on the first prompt
			env.desk.removeWindow(200)
			env.desk.addWindow(second)
		case 2102: // OK on the second prompt
			env.desk.removeWindow(210)
			env.desk.addWindow(winauto.Window{Handle: 500, Title: "SQLPathFinder Query Log"})
		}
	}

	if err := env.driver.Submit([]string{"LOT1"}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(env.clip.writes) != 2 {
		t.Fatalf("clipboard writes = %d, want exactly 2", len(env.clip.writes))
	}
	want := []string{"Paste", "OK", "Paste", "OK"}
	if len(env.desk.invoked) != len(want) {
		t.Fatalf("invoked = %v, want %v", env.desk.invoked, want)
	}
	for i := range want {
		if env.desk.invoked[i] != want[i] {
			t.Fatalf("invoked = %v, want %v", env.desk.invoked, want)
		}
	}
}

// The second prompt can trail the first confirmation by more than the
// indicator wait. It must still get its own bounded wait and be serviced.
func TestSubmitLateSecondPromptStillServiced(t *testing.T) {
	env := newTestEnv(t)
	primeMainWindow(env)
	first := env.promptWin(200)
	second := env.promptWin(210)
	env.desk.addWindow(first)

	var firstConfirmed time.Time
	env.desk.onInvoke = func(c winauto.Control) {
		switch c.Handle {
		case 2002: // OK on the first prompt
			env.desk.removeWindow(200)
			firstConfirmed = env.clock.Now()
		case 2102: // OK on the second prompt
			env.desk.removeWindow(210)
			env.desk.addWindow(winauto.Window{Handle: 500, Title: "SQLPathFinder Query Log"})
		}
	}
	// The second prompt shows up 1.5s after the indicator wait has already
	// expired.
	late := env.cfg.Timeouts.IndicatorWait() + 1500*time.Millisecond
	added := false
	env.clock.onSleep = func(time.Duration) {
		if !added && !firstConfirmed.IsZero() && env.clock.Now().Sub(firstConfirmed) >= late {
			added = true
			env.desk.addWindow(second)
		}
	}

	if err := env.driver.Submit([]string{"LOT1"}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(env.clip.writes) != 2 {
		t.Fatalf("clipboard writes = %d, want 2: second prompt was never serviced", len(env.clip.writes))
	}
}

// The follow-up prompt wait ends as soon as the indicator appears instead.
func TestAwaitNextPromptStopsOnIndicator(t *testing.T) {
	env := newTestEnv(t)
	env.desk.setWindows(mainWin())
	sleeps := 0
	env.clock.onSleep = func(time.Duration) {
		sleeps++
		if sleeps == 2 {
			env.desk.addWindow(winauto.Window{Handle: 500, Title: "SQLPathFinder Query Log"})
		}
	}

	_, ok := env.driver.awaitNextPrompt(env.cfg.Timeouts.UIAction())
	if ok {
		t.Fatal("awaitNextPrompt reported a prompt when only the indicator appeared")
	}
	if sleeps != 2 {
		t.Errorf("sleeps = %d, want 2: wait should stop when the indicator shows", sleeps)
	}
}

func TestSubmitFirstPromptNeverAppears(t *testing.T) {
	env := newTestEnv(t)
	primeMainWindow(env)

	err := env.driver.Submit([]string{"LOT1"})
	var promptErr *PromptTimeoutError
	if !errors.As(err, &promptErr) {
		t.Fatalf("err = %v, want *PromptTimeoutError", err)
	}
	if promptErr.Attempt != 1 {
		t.Errorf("attempt = %d, want 1", promptErr.Attempt)
	}
	if len(env.clip.writes) != 0 {
		t.Errorf("clipboard writes = %v, want none", env.clip.writes)
	}
}

// A query whose indicator window never shows still completes the prompt walk;
// the completion wait on the output file decides success.
func TestSubmitNoIndicatorAfterPrompt(t *testing.T) {
	env := newTestEnv(t)
	primeMainWindow(env)
	prompt := env.promptWin(200)
	env.desk.addWindow(prompt)
	env.desk.onInvoke = func(c winauto.Control) {
		if c.Handle == 2002 {
			env.desk.removeWindow(200)
		}
	}

	if err := env.driver.Submit([]string{"LOT1"}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(env.clip.writes) != 1 {
		t.Errorf("clipboard writes = %d, want 1", len(env.clip.writes))
	}
}

func TestSubmitInjectionErrorPropagates(t *testing.T) {
	env := newTestEnv(t)
	primeMainWindow(env)
	// Prompt with no paste control at all.
	env.desk.addWindow(winauto.Window{Handle: 200, Title: "Prompt For Values (in)"})

	err := env.driver.Submit([]string{"LOT1"})
	var injErr *InjectionError
	if !errors.As(err, &injErr) {
		t.Fatalf("err = %v, want *InjectionError", err)
	}
}
