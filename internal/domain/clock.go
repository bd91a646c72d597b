package domain

import "time"

// Clock is the authoritative transport position of a room. All instants
// are taken from the server clock.
type Clock struct {
	running   bool
	startedAt time.Time
	elapsed   time.Duration
}

func (c Clock) Running() bool {
	return c.running
}

func (c Clock) Position(now time.Time) time.Duration {
	if !c.running {
		return c.elapsed
	}

	position := now.Sub(c.startedAt) + c.elapsed
	if position < 0 {
		return c.elapsed
	}

	return position
}

// Resume reports false when the clock was already running.
func (c *Clock) Resume(now time.Time) bool {
	if c.running {
		return false
	}

	c.running = true
	c.startedAt = now
	return true
}

// Pause reports false when the clock was already paused.
func (c *Clock) Pause(now time.Time) bool {
	if !c.running {
		return false
	}

	c.elapsed = c.Position(now)
	c.running = false
	return true
}

func (c *Clock) Restart(now time.Time) {
	c.running = true
	c.startedAt = now
	c.elapsed = 0
}

func (c *Clock) Seek(now time.Time, position time.Duration) {
	c.elapsed = position
	if c.running {
		c.startedAt = now
	}
}
