package effects

import "math"

// MinHaste is the lower clamp applied to every haste factor.
const MinHaste = 1e-3

// ClampHaste keeps a haste factor strictly positive.
func ClampHaste(h float64) float64 {
	if math.IsNaN(h) || h < MinHaste {
		return MinHaste
	}
	return h
}

// Track is a periodic cadence (auto attacks, special pulses, enemy swings)
// whose interval scales with haste.
type Track struct {
	BaseInterval float64
	NextTrigger  float64

	haste     float64
	paused    bool
	remaining float64
}

// NewTrack returns a track with haste 1 and no trigger scheduled.
func NewTrack(base float64) *Track {
	return &Track{BaseInterval: base, haste: 1, NextTrigger: math.Inf(1)}
}

// Haste returns the current haste factor.
func (t *Track) Haste() float64 {
	if t.haste == 0 {
		return 1
	}
	return t.haste
}

// SetHaste updates the haste factor. It does not re-time NextTrigger.
func (t *Track) SetHaste(h float64) {
	t.haste = ClampHaste(h)
}

// CurrentInterval returns BaseInterval / Haste.
func (t *Track) CurrentInterval() float64 {
	return t.BaseInterval / t.Haste()
}

// Schedule sets the next trigger one interval after now and returns it.
func (t *Track) Schedule(now float64) float64 {
	t.NextTrigger = now + t.CurrentInterval()
	return t.NextTrigger
}

// Paused reports whether the track is paused.
func (t *Track) Paused() bool {
	return t.paused
}

// Pause freezes the time left until the next trigger.
func (t *Track) Pause(now float64) {
	if t.paused {
		return
	}
	t.paused = true
	t.remaining = math.Max(0, t.NextTrigger-now)
	t.NextTrigger = math.Inf(1)
}

// Resume restores a paused track and returns the new trigger time.
func (t *Track) Resume(now float64) float64 {
	if !t.paused {
		return t.NextTrigger
	}
	t.paused = false
	t.NextTrigger = now + t.remaining
	t.remaining = 0
	return t.NextTrigger
}
