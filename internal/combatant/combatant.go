package combatant

//go:generate go tool mockgen -destination=./mocks/combatant_mock.go -package=mocks . Combatant

import (
	"fmt"

	"idle-battle-sim/internal/character"
	"idle-battle-sim/internal/rng"
)

// State is the life state of a combatant.
type State int

const (
	StateAlive State = iota
	StateDead
	StateReviving
)

func (s State) String() string {
	switch s {
	case StateAlive:
		return "alive"
	case StateDead:
		return "dead"
	case StateReviving:
		return "reviving"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Hit is one incoming damage instance before mitigation.
type Hit struct {
	Source        string
	Amount        int64
	Type          character.DamageType
	AttackerLevel int

	ArmorPenFlat float64
	ArmorPenPct  float64
	MagicPenFlat float64
	MagicPenPct  float64

	// Rng is used for defensive rolls such as block.
	Rng *rng.Context
}

// DamageOutcome reports what a hit did.
type DamageOutcome struct {
	Incoming int64
	Applied  int64
	Overkill int64
	Blocked  bool
	Killed   bool
}

// Combatant is anything that can be targeted and damaged.
type Combatant interface {
	ID() string
	HP() int64
	MaxHP() int64
	State() State
	CanBeTargeted() bool
	CanAct() bool
	ThreatWeight() float64
	DeathTime() float64
	ReviveTime() float64
	ReceiveDamage(hit Hit, now float64) DamageOutcome
}

// HealthPercent returns hp as a percentage of max hp.
func HealthPercent(c Combatant) float64 {
	if c == nil || c.MaxHP() <= 0 {
		return 0
	}
	return float64(c.HP()) / float64(c.MaxHP()) * 100.0
}

// life is the shared HP bookkeeping of players and enemies.
type life struct {
	hp         int64
	maxHP      int64
	state      State
	deathTime  float64
	reviveTime float64
}

func (l *life) HP() int64          { return l.hp }
func (l *life) MaxHP() int64       { return l.maxHP }
func (l *life) State() State       { return l.state }
func (l *life) DeathTime() float64 { return l.deathTime }
func (l *life) ReviveTime() float64 {
	return l.reviveTime
}
func (l *life) CanBeTargeted() bool { return l.state == StateAlive && l.hp > 0 }
func (l *life) CanAct() bool        { return l.state == StateAlive }

// take subtracts an already mitigated amount and reports overkill.
func (l *life) take(amount int64, now float64) (applied, overkill int64, killed bool) {
	if l.state != StateAlive || amount <= 0 {
		return 0, 0, false
	}
	if amount >= l.hp {
		applied = l.hp
		overkill = amount - l.hp
		l.hp = 0
		l.state = StateDead
		l.deathTime = now
		return applied, overkill, true
	}
	l.hp -= amount
	return amount, 0, false
}
