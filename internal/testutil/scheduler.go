// Package testutil provides deterministic test doubles shared across the
// engine and harness test suites.
package testutil

import (
	"time"

	"github.com/RHellenes/drag-and-drop/internal/engine"
)

// ManualScheduler is an engine.Scheduler driven by explicit Advance calls.
//
// Timers never fire on their own, so long-press behavior becomes a pure
// function of the test script: arm, advance past the timeout, observe. No
// sleeps, no goroutines, no flakes.
//
// ManualScheduler is not safe for concurrent use; tests drive it from one
// goroutine, which is also how hosts deliver pointer input.
type ManualScheduler struct {
	now    time.Duration
	timers []*manualTimer
}

// NewManualScheduler creates a scheduler at time zero with no timers armed.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// AfterFunc arms fn to fire once the scheduler has advanced d past now.
func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) engine.TimerHandle {
	t := &manualTimer{sched: s, at: s.now + d, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves the scheduler clock forward and fires every due timer in
// deadline order. Callbacks run synchronously inside Advance, so a callback
// that arms a new timer within the advanced window fires in the same call.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.now += d
	for {
		t := s.nextDue()
		if t == nil {
			return
		}
		t.fired = true
		t.fn()
	}
}

// Pending returns the number of armed, unfired, unstopped timers.
func (s *ManualScheduler) Pending() int {
	n := 0
	for _, t := range s.timers {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}

func (s *ManualScheduler) nextDue() *manualTimer {
	var due *manualTimer
	for _, t := range s.timers {
		if t.fired || t.stopped || t.at > s.now {
			continue
		}
		if due == nil || t.at < due.at {
			due = t
		}
	}
	return due
}

type manualTimer struct {
	sched   *ManualScheduler
	at      time.Duration
	fn      func()
	fired   bool
	stopped bool
}

// Stop prevents an unfired timer from firing. Reports whether it did.
func (t *manualTimer) Stop() bool {
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}
