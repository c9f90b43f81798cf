package loop

import "time"

// Clock supplies frame timestamps in milliseconds. Timestamps never go
// backwards within one session.
type Clock interface {
	Now() float64
}

// WallClock measures real elapsed time since it was created.
type WallClock struct {
	start time.Time
}

// NewWallClock returns a clock whose zero is the moment of the call.
func NewWallClock() *WallClock {
	return &WallClock{start: time.Now()}
}

// Now returns the milliseconds elapsed since the clock was created.
func (c *WallClock) Now() float64 {
	return float64(time.Since(c.start)) / float64(time.Millisecond)
}

// ManualClock is a clock that only moves when told to.
type ManualClock struct {
	now float64
}

// Now returns the current manual time.
func (c *ManualClock) Now() float64 {
	return c.now
}

// Set jumps to t. Earlier times are ignored.
func (c *ManualClock) Set(t float64) {
	if t > c.now {
		c.now = t
	}
}

// Advance moves the clock forward by ms milliseconds.
func (c *ManualClock) Advance(ms float64) {
	if ms > 0 {
		c.now += ms
	}
}
