package engine

import "fmt"

// Clock is the simulated battle time in seconds.
type Clock struct {
	now float64
}

// NewClock starts a clock at start.
func NewClock(start float64) *Clock {
	return &Clock{now: start}
}

func (c *Clock) Now() float64 {
	return c.now
}

// AdvanceTo moves the clock forward. Moving backwards is a programming error
// and panics.
func (c *Clock) AdvanceTo(t float64) {
	if t < c.now {
		panic(fmt.Sprintf("engine: clock regression from %.6f to %.6f", c.now, t))
	}
	c.now = t
}
