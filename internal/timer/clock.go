package timer

import (
	"sync/atomic"
	"time"
)

// Clock supplies the scheduler's notion of now, in milliseconds.
type Clock interface {
	Millis() uint64
}

// SystemClock counts wall milliseconds since it was created.
type SystemClock struct {
	start time.Time
}

func NewSystemClock() *SystemClock { return &SystemClock{start: time.Now()} }

func (c *SystemClock) Millis() uint64 {
	return uint64(time.Since(c.start).Milliseconds())
}

// ManualClock only moves when told to. Used by tests and offline simulation.
type ManualClock struct {
	now atomic.Uint64
}

func NewManualClock(start uint64) *ManualClock {
	c := &ManualClock{}
	c.now.Store(start)
	return c
}

func (c *ManualClock) Millis() uint64 { return c.now.Load() }

func (c *ManualClock) Set(ms uint64) { c.now.Store(ms) }

func (c *ManualClock) Advance(d time.Duration) {
	c.now.Add(uint64(d.Milliseconds()))
}
