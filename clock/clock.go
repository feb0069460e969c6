// Package clock accumulates simulation time for the frame driver.
package clock

import "time"

// Clock tracks simulated time. Time only accumulates while running and never
// decreases; the first sample establishes the wall-clock baseline.
type Clock struct {
	elapsed time.Duration
	last    time.Time
	sampled bool
}

// Advance samples the wall clock and returns the time step for this tick.
// The step is zero on the first sample, while paused, and when now is not
// after the previous sample.
func (c *Clock) Advance(now time.Time, running bool) time.Duration {
	if !c.sampled {
		c.sampled = true
		c.last = now
		return 0
	}
	dt := now.Sub(c.last)
	c.last = now
	if !running || dt <= 0 {
		return 0
	}
	c.elapsed += dt
	return dt
}

// Elapsed returns the accumulated simulation time.
func (c *Clock) Elapsed() time.Duration { return c.elapsed }

// Reset returns the clock to its initial state.
func (c *Clock) Reset() { *c = Clock{} }
