package playback

import (
	"sync"
	"time"
)

// Clock is a wall-time driven playback position, the stand-in for the audio
// element clock that drives segment highlighting. It advances only while
// playing, stops at the configured duration, and may jump arbitrarily via
// Seek. Safe for use from multiple goroutines.
type Clock struct {
	mu       sync.Mutex
	playing  bool
	pos      float64
	duration float64
	lastTick time.Time

	now func() time.Time
}

// NewClock creates a paused clock at position 0 for an audio resource of
// the given duration in seconds.
func NewClock(duration float64) *Clock {
	if duration < 0 {
		duration = 0
	}
	return &Clock{duration: duration, now: time.Now}
}

// Play starts advancing the position.
func (c *Clock) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.playing {
		return
	}
	c.playing = true
	c.lastTick = c.now()
}

// Pause freezes the position.
func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.advanceLocked()
	c.playing = false
}

// Toggle flips between playing and paused and reports the new state.
func (c *Clock) Toggle() bool {
	c.mu.Lock()
	playing := c.playing
	c.mu.Unlock()

	if playing {
		c.Pause()
	} else {
		c.Play()
	}
	return !playing
}

// Seek jumps to target, clamped into [0, duration], and returns the
// position actually used.
func (c *Clock) Seek(target float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pos = ClampSeek(target, c.duration)
	c.lastTick = c.now()
	return c.pos
}

// Pos returns the current playback position, advancing it first when
// playing. Reaching the end pauses the clock.
func (c *Clock) Pos() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.advanceLocked()
	return c.pos
}

// Playing reports whether the clock is advancing.
func (c *Clock) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.advanceLocked()
	return c.playing
}

// Duration returns the configured audio duration.
func (c *Clock) Duration() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.duration
}

func (c *Clock) advanceLocked() {
	if !c.playing {
		return
	}

	now := c.now()
	c.pos += now.Sub(c.lastTick).Seconds()
	c.lastTick = now

	if c.pos >= c.duration {
		c.pos = c.duration
		c.playing = false
	}
}
