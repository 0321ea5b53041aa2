package effects

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

func TestTrackIntervalScalesWithHaste(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := rapid.Float64Range(0.1, 10).Draw(t, "base")
		haste := rapid.Float64Range(0.01, 5).Draw(t, "haste")
		tr := NewTrack(base)
		tr.SetHaste(haste)
		want := base / haste
		if got := tr.CurrentInterval(); math.Abs(got-want) > 1e-9 {
			t.Fatalf("interval %v, want %v", got, want)
		}
	})
}

func TestTrackHasteClamp(t *testing.T) {
	tr := NewTrack(2)
	tr.SetHaste(0)
	if tr.Haste() != MinHaste {
		t.Fatalf("expected haste clamped to %v, got %v", MinHaste, tr.Haste())
	}
	tr.SetHaste(-4)
	if tr.Haste() != MinHaste {
		t.Fatalf("negative haste should clamp, got %v", tr.Haste())
	}
}

func TestTrackPauseResume(t *testing.T) {
	tr := NewTrack(2)
	if next := tr.Schedule(1); next != 3 {
		t.Fatalf("expected next trigger 3, got %v", next)
	}
	tr.Pause(2.5)
	if !tr.Paused() || !math.IsInf(tr.NextTrigger, 1) {
		t.Fatalf("expected paused track with infinite trigger")
	}
	if next := tr.Resume(10); next != 10.5 {
		t.Fatalf("expected resume to keep 0.5s remaining, got %v", next)
	}
	if tr.Paused() {
		t.Fatalf("track still paused after resume")
	}
}
