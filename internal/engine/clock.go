package engine

import "sync/atomic"

// Clock is a monotonic logical clock stamping canonical events.
//
// Every canonical event carries a strictly increasing seq from this clock,
// so recorded traces order deterministically and replays reproduce the same
// sequence. Wall-clock timestamps are never used for ordering.
//
// Thread-safety: safe for concurrent use, though the engine's cooperative
// model means a single goroutine typically calls Next().
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0. The first Next() returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and advances the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without advancing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
