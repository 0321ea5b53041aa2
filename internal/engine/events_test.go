package engine

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestSchedulerOrdersByTimeThenInsertion(t *testing.T) {
	s := NewScheduler()
	s.Schedule(&Event{At: 2, Kind: EventAttackTick})
	s.Schedule(&Event{At: 1, Kind: EventSpecialPulse})
	s.Schedule(&Event{At: 2, Kind: EventProcPulse})
	s.Schedule(&Event{At: 2, Kind: EventEnemyAttack})

	want := []EventKind{EventSpecialPulse, EventAttackTick, EventProcPulse, EventEnemyAttack}
	for i, kind := range want {
		ev, ok := s.PopNext()
		if !ok {
			t.Fatalf("pop %d: queue empty", i)
		}
		if ev.Kind != kind {
			t.Fatalf("pop %d: got %s want %s", i, ev.Kind, kind)
		}
	}
	if _, ok := s.PopNext(); ok {
		t.Fatalf("expected empty queue")
	}
}

func TestSchedulerSkipsCancelled(t *testing.T) {
	s := NewScheduler()
	first := s.Schedule(&Event{At: 1, Kind: EventCastComplete, CastID: 7})
	s.Schedule(&Event{At: 3, Kind: EventAttackTick})
	first.Cancel()

	ev, ok := s.PeekNext()
	if !ok || ev.Kind != EventAttackTick {
		t.Fatalf("expected cancelled event to be skipped, got %+v", ev)
	}
	if !first.Cancelled() {
		t.Fatalf("cancel flag lost")
	}
	if s.Len() != 1 {
		t.Fatalf("cancelled head should be discarded, len %d", s.Len())
	}
	var nilEvent *Event
	nilEvent.Cancel()
	if nilEvent.Cancelled() {
		t.Fatalf("nil event reports cancelled")
	}
}

func TestClockRegressionPanics(t *testing.T) {
	c := NewClock(1)
	c.AdvanceTo(1)
	c.AdvanceTo(2.5)
	if c.Now() != 2.5 {
		t.Fatalf("clock at %v", c.Now())
	}
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic on regression")
		}
		if msg, _ := r.(string); !strings.Contains(msg, "clock regression") {
			t.Fatalf("unexpected panic %v", r)
		}
	}()
	c.AdvanceTo(2)
}

func TestBattleFinishOnce(t *testing.T) {
	b := newBattle(uuid.New(), uuid.New(), 2, 6, 10)
	if b.Elapsed() != 0 {
		t.Fatalf("running battle has elapsed time")
	}
	if !b.Finish(25) {
		t.Fatalf("first finish should succeed")
	}
	if b.Finish(40) {
		t.Fatalf("second finish should be ignored")
	}
	if b.EndTime != 25 || b.Elapsed() != 15 {
		t.Fatalf("unexpected end %v elapsed %v", b.EndTime, b.Elapsed())
	}
}
