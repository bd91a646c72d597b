package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClock(t *testing.T) {
	t0 := time.UnixMilli(1_000_000)

	t.Run("initially paused at zero", func(t *testing.T) {
		var c Clock
		assert.False(t, c.Running())
		assert.Equal(t, time.Duration(0), c.Position(t0.Add(time.Hour)))
	})

	t.Run("position advances while running", func(t *testing.T) {
		var c Clock
		c.Restart(t0)
		assert.Equal(t, 3*time.Second, c.Position(t0.Add(3*time.Second)))
	})

	t.Run("pause freezes position", func(t *testing.T) {
		var c Clock
		c.Restart(t0)
		assert.True(t, c.Pause(t0.Add(5*time.Second)))
		assert.False(t, c.Running())
		assert.Equal(t, 5*time.Second, c.Position(t0.Add(time.Minute)))
	})

	t.Run("pause twice is a no-op", func(t *testing.T) {
		var c Clock
		c.Restart(t0)
		assert.True(t, c.Pause(t0.Add(time.Second)))
		assert.False(t, c.Pause(t0.Add(2*time.Second)))
		assert.Equal(t, time.Second, c.Position(t0.Add(3*time.Second)))
	})

	t.Run("resume keeps accumulated time", func(t *testing.T) {
		var c Clock
		c.Restart(t0)
		c.Pause(t0.Add(5 * time.Second))
		assert.True(t, c.Resume(t0.Add(10*time.Second)))
		assert.False(t, c.Resume(t0.Add(11*time.Second)))
		assert.Equal(t, 7*time.Second, c.Position(t0.Add(12*time.Second)))
	})

	t.Run("seek while running", func(t *testing.T) {
		var c Clock
		c.Restart(t0)
		c.Seek(t0.Add(2*time.Second), 30*time.Second)
		assert.Equal(t, 31*time.Second, c.Position(t0.Add(3*time.Second)))
	})

	t.Run("seek while paused", func(t *testing.T) {
		var c Clock
		c.Seek(t0, 4*time.Second)
		assert.False(t, c.Running())
		assert.Equal(t, 4*time.Second, c.Position(t0.Add(time.Hour)))
	})

	t.Run("clock skew never yields a position below accumulated", func(t *testing.T) {
		var c Clock
		c.Restart(t0)
		assert.Equal(t, time.Duration(0), c.Position(t0.Add(-time.Second)))
	})
}
