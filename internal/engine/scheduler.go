package engine

import "time"

// TimerHandle is a cancellable scheduled call. Stop reports whether the call
// was prevented from firing.
type TimerHandle interface {
	Stop() bool
}

// Scheduler schedules delayed calls. The engine uses it for long-press
// timers so touch emulation stays testable: production hosts use the real
// scheduler, tests drive a manual one.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) TimerHandle
}

// realScheduler delegates to time.AfterFunc.
type realScheduler struct{}

// NewScheduler returns the production wall-clock scheduler.
//
// Note that time.AfterFunc fires on its own goroutine; hosts that use the
// real scheduler must deliver the callback back onto their event loop if
// they also deliver pointer input there. The bubbletea demo does this via
// tea messages; tests avoid it entirely with the manual scheduler.
func NewScheduler() Scheduler {
	return realScheduler{}
}

func (realScheduler) AfterFunc(d time.Duration, fn func()) TimerHandle {
	return time.AfterFunc(d, fn)
}
