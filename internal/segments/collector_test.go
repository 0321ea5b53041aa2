package segments

import (
	"testing"

	"idle-battle-sim/internal/character"
)

func TestFlushOnEventCap(t *testing.T) {
	c := NewCollector(Limits{MaxEvents: 3, MaxDuration: 100}, 0, 0)
	for i := 0; i < 2; i++ {
		c.Tick()
	}
	if c.ShouldFlush(1) {
		t.Fatalf("two events are below the cap")
	}
	c.Tick()
	if !c.ShouldFlush(1) {
		t.Fatalf("expected flush at the event cap even though duration is short")
	}
}

func TestFlushOnDurationCap(t *testing.T) {
	c := NewCollector(Limits{}, 2, 0)
	c.Tick()
	if c.ShouldFlush(6.9) {
		t.Fatalf("4.9s is below the default cap")
	}
	if !c.ShouldFlush(7) {
		t.Fatalf("expected flush at 5s with one event")
	}
	if c.Limits().MaxEvents != DefaultMaxEvents {
		t.Fatalf("expected default event cap")
	}
}

func TestFlushSnapshotsAndResets(t *testing.T) {
	c := NewCollector(Limits{}, 0, 4)
	c.Tick()
	c.RecordDamage("skill:slam", 120, character.DamagePhysical)
	c.RecordDamage("dot:rend", 30, character.DamageTrue)
	c.AddTag("cast:slam", 1)
	c.RecordResource("rage", -15)
	c.ObserveRng(4, 6)
	c.ObserveRng(6, 9)

	seg := c.Flush(2.5)
	if seg.Index != 0 || seg.StartTime != 0 || seg.EndTime != 2.5 || seg.EventCount != 1 {
		t.Fatalf("unexpected header %+v", seg)
	}
	if seg.TotalDamage != 150 || seg.DamageByType["physical"] != 120 || seg.DamageBySource["dot:rend"] != 30 {
		t.Fatalf("unexpected damage %+v", seg)
	}
	if seg.RngIndexStart != 4 || seg.RngIndexEnd != 9 {
		t.Fatalf("unexpected rng range %d..%d", seg.RngIndexStart, seg.RngIndexEnd)
	}
	if c.Pending() {
		t.Fatalf("collector should be empty after flush")
	}

	seg.Tags["cast:slam"] = 99
	if got := c.Segments()[0].Tags["cast:slam"]; got != 1 {
		t.Fatalf("flushed segments must not change, got %d", got)
	}

	c.Tick()
	next := c.Flush(3)
	if next.Index != 1 || next.StartTime != 2.5 {
		t.Fatalf("next segment should start where the last ended: %+v", next)
	}
	if next.RngIndexStart != 9 || next.RngIndexEnd != 9 {
		t.Fatalf("segment without draws should carry the cursor, got %d..%d", next.RngIndexStart, next.RngIndexEnd)
	}
}

func TestForceFlushOnlyWhenPending(t *testing.T) {
	c := NewCollector(Limits{}, 0, 0)
	if _, ok := c.ForceFlush(1); ok {
		t.Fatalf("nothing pending, nothing flushed")
	}
	c.Tick()
	if _, ok := c.ForceFlush(1.5); !ok {
		t.Fatalf("expected trailing segment")
	}
	if _, ok := c.ForceFlush(1.5); ok {
		t.Fatalf("second forced flush must be a no-op")
	}
	if len(c.Segments()) != 1 {
		t.Fatalf("expected exactly one segment, got %d", len(c.Segments()))
	}
}

func TestSummarize(t *testing.T) {
	c := NewCollector(Limits{MaxEvents: 1}, 0, 0)
	c.Tick()
	c.RecordDamage("a", 10, character.DamageMagic)
	c.ObserveRng(0, 2)
	c.Flush(1)
	c.Tick()
	c.RecordDamage("b", 30, character.DamageMagic)
	c.RecordDamage("a", 5, character.DamageMagic)
	c.ObserveRng(2, 3)
	c.Flush(2)

	sum := Summarize(c.Segments())
	if sum.TotalDamage != 45 || sum.Events != 2 || sum.RngIndexEnd != 3 {
		t.Fatalf("unexpected summary %+v", sum)
	}
	rows := sum.Breakdown()
	if rows[0].Source != "b" || rows[1].Damage != 15 {
		t.Fatalf("unexpected breakdown %+v", rows)
	}
}
