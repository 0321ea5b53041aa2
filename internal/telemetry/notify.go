package telemetry

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Kind names a battle notification.
type Kind string

const (
	KindPlayerDeath    Kind = "player_death"
	KindPlayerRevive   Kind = "player_revive"
	KindEnemyKilled    Kind = "enemy_killed"
	KindBattleComplete Kind = "battle_complete"
)

// Notification is one fire-and-forget battle event.
type Notification struct {
	Kind     Kind
	BattleID uuid.UUID
	At       float64
	Subject  string
}

// Notifier receives notifications. Implementations must not block.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// ChannelSink buffers notifications in a channel and drops them when the
// buffer is full.
type ChannelSink struct {
	ch      chan Notification
	dropped atomic.Int64
}

// NewChannelSink returns a sink with the given buffer size.
func NewChannelSink(size int) *ChannelSink {
	if size < 0 {
		size = 0
	}
	return &ChannelSink{ch: make(chan Notification, size)}
}

// Notify enqueues n without blocking.
func (s *ChannelSink) Notify(n Notification) {
	select {
	case s.ch <- n:
	default:
		s.dropped.Add(1)
	}
}

// C returns the receive side of the buffer.
func (s *ChannelSink) C() <-chan Notification {
	return s.ch
}

// Dropped returns how many notifications did not fit.
func (s *ChannelSink) Dropped() int64 {
	return s.dropped.Load()
}

// Close closes the channel. Notify must not be called afterwards.
func (s *ChannelSink) Close() {
	close(s.ch)
}
