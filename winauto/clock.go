package winauto

import "time"

// Clock abstracts time for the polling loops so tests can drive them with a
// fake instead of sleeping.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// SystemClock returns the real wall clock.
func SystemClock() Clock { return systemClock{} }

// Wait polls cond every interval until it reports true or timeout elapses.
// cond is always checked at least once, immediately. Returns false on timeout.
//
// The external application exposes no events or callbacks, so every wait in
// the driver is one of these bounded polls.
func Wait(c Clock, interval, timeout time.Duration, cond func() bool) bool {
	deadline := c.Now().Add(timeout)
	for {
		if cond() {
			return true
		}
		if !c.Now().Before(deadline) {
			return false
		}
		c.Sleep(interval)
	}
}
