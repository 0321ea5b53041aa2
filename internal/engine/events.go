package engine

import (
	"container/heap"
	"fmt"
)

// EventKind identifies what an event does when executed.
type EventKind int

const (
	EventAttackTick EventKind = iota
	EventSpecialPulse
	EventProcPulse
	EventCastComplete
	EventCastInterrupt
	EventEnemyAttack
	EventPlayerRevive
)

func (k EventKind) String() string {
	switch k {
	case EventAttackTick:
		return "attack_tick"
	case EventSpecialPulse:
		return "special_pulse"
	case EventProcPulse:
		return "proc_pulse"
	case EventCastComplete:
		return "cast_complete"
	case EventCastInterrupt:
		return "cast_interrupt"
	case EventEnemyAttack:
		return "enemy_attack"
	case EventPlayerRevive:
		return "player_revive"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is one scheduled occurrence. Only the fields relevant to Kind are
// set.
type Event struct {
	At     float64
	Kind   EventKind
	CastID uint64
	Enemy  int

	seq       uint64
	index     int
	cancelled bool
}

// Cancel marks the event so the scheduler discards it.
func (e *Event) Cancel() {
	if e == nil {
		return
	}
	e.cancelled = true
}

// Cancelled reports whether Cancel was called.
func (e *Event) Cancelled() bool {
	return e != nil && e.cancelled
}

// eventQueue orders by time, then by insertion order.
type eventQueue []*Event

func (q eventQueue) Len() int { return len(q) }
func (q eventQueue) Less(i, j int) bool {
	if q[i].At != q[j].At {
		return q[i].At < q[j].At
	}
	return q[i].seq < q[j].seq
}
func (q eventQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}
func (q *eventQueue) Push(x any) {
	ev := x.(*Event)
	ev.index = len(*q)
	*q = append(*q, ev)
}
func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	ev := old[n-1]
	old[n-1] = nil
	ev.index = -1
	*q = old[:n-1]
	return ev
}

// Scheduler is a min-queue of events. Events with equal timestamps run in
// the order they were scheduled.
type Scheduler struct {
	queue   eventQueue
	nextSeq uint64
}

// NewScheduler returns an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Schedule inserts ev and returns it as a cancel handle.
func (s *Scheduler) Schedule(ev *Event) *Event {
	if ev == nil {
		return nil
	}
	ev.seq = s.nextSeq
	s.nextSeq++
	ev.cancelled = false
	heap.Push(&s.queue, ev)
	return ev
}

// PeekNext returns the earliest live event without removing it.
func (s *Scheduler) PeekNext() (*Event, bool) {
	s.cleanFront()
	if len(s.queue) == 0 {
		return nil, false
	}
	return s.queue[0], true
}

// PopNext removes and returns the earliest live event.
func (s *Scheduler) PopNext() (*Event, bool) {
	s.cleanFront()
	if len(s.queue) == 0 {
		return nil, false
	}
	return heap.Pop(&s.queue).(*Event), true
}

// Len counts queued events, including cancelled ones not yet discarded.
func (s *Scheduler) Len() int {
	return len(s.queue)
}

func (s *Scheduler) cleanFront() {
	for len(s.queue) > 0 && s.queue[0].cancelled {
		heap.Pop(&s.queue)
	}
}
