package effects

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"idle-battle-sim/internal/character"
)

var (
	ErrUnknownBuff   = errors.New("unknown buff")
	ErrDuplicateBuff = errors.New("duplicate buff definition")
	ErrInvalidBuff   = errors.New("invalid buff definition")
)

// StackPolicy decides what re-applying an active buff does.
type StackPolicy int

const (
	// PolicyRefresh resets the duration with pandemic carry-over.
	PolicyRefresh StackPolicy = iota
	// PolicyStack adds a stack (capped) and then refreshes.
	PolicyStack
	// PolicyExtend adds the base duration to the current expiry.
	PolicyExtend
)

func (p StackPolicy) String() string {
	switch p {
	case PolicyRefresh:
		return "refresh"
	case PolicyStack:
		return "stack"
	case PolicyExtend:
		return "extend"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParseStackPolicy converts a config string into a StackPolicy.
func ParseStackPolicy(s string) (StackPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "refresh":
		return PolicyRefresh, nil
	case "stack":
		return PolicyStack, nil
	case "extend":
		return PolicyExtend, nil
	default:
		return 0, fmt.Errorf("unknown stack policy '%s'", s)
	}
}

// PeriodicKind describes what a periodic tick does.
type PeriodicKind int

const (
	PeriodicNone PeriodicKind = iota
	PeriodicDamage
	PeriodicResource
)

func (k PeriodicKind) String() string {
	switch k {
	case PeriodicNone:
		return "none"
	case PeriodicDamage:
		return "damage"
	case PeriodicResource:
		return "resource"
	default:
		return fmt.Sprintf("periodic(%d)", int(k))
	}
}

// ParsePeriodicKind converts a config string into a PeriodicKind.
func ParsePeriodicKind(s string) (PeriodicKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return PeriodicNone, nil
	case "damage", "dot":
		return PeriodicDamage, nil
	case "resource":
		return PeriodicResource, nil
	default:
		return 0, fmt.Errorf("unknown periodic type '%s'", s)
	}
}

// BuffDefinition is the immutable description of a buff.
type BuffDefinition struct {
	ID            string
	Duration      float64
	MaxStacks     int
	Policy        StackPolicy
	PandemicRatio float64

	HasteAdditive       float64
	HasteMultiplicative float64 // 0 or 1 means no multiplicative haste

	Periodic             PeriodicKind
	TickInterval         float64
	TickValue            float64
	TickAPCoefficient    float64
	TickSPCoefficient    float64
	TickResource         string
	TickDamageType       character.DamageType
	HasteAffectsPeriodic bool
	TriggersOnHit        bool

	PhysicalBonus float64
	MagicBonus    float64
	TrueBonus     float64

	ArmorPenFlat float64
	ArmorPenPct  float64
	MagicPenFlat float64
	MagicPenPct  float64

	CritChanceBonus     float64
	CritMultiplierBonus float64
}

// Validate checks the definition for values the manager cannot handle.
func (d *BuffDefinition) Validate() error {
	if d == nil {
		return fmt.Errorf("%w: nil definition", ErrInvalidBuff)
	}
	if d.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidBuff)
	}
	if d.Duration <= 0 || math.IsInf(d.Duration, 0) || math.IsNaN(d.Duration) {
		return fmt.Errorf("%w: %s: duration must be > 0", ErrInvalidBuff, d.ID)
	}
	if d.MaxStacks < 0 {
		return fmt.Errorf("%w: %s: max_stacks must be >= 0", ErrInvalidBuff, d.ID)
	}
	if d.PandemicRatio < 0 {
		return fmt.Errorf("%w: %s: pandemic ratio must be >= 0", ErrInvalidBuff, d.ID)
	}
	if d.HasteMultiplicative < 0 {
		return fmt.Errorf("%w: %s: multiplicative haste must be >= 0", ErrInvalidBuff, d.ID)
	}
	if d.Periodic != PeriodicNone && d.TickInterval <= 0 {
		return fmt.Errorf("%w: %s: periodic buffs need tick_interval > 0", ErrInvalidBuff, d.ID)
	}
	if d.Periodic == PeriodicResource && d.TickResource == "" {
		return fmt.Errorf("%w: %s: resource ticks need a resource id", ErrInvalidBuff, d.ID)
	}
	return nil
}

func (d *BuffDefinition) stackCap() int {
	if d.MaxStacks <= 0 {
		return 1
	}
	return d.MaxStacks
}

func (d *BuffDefinition) hasteMult() float64 {
	if d.HasteMultiplicative <= 0 {
		return 1
	}
	return d.HasteMultiplicative
}

// BuffInstance is an active buff.
type BuffInstance struct {
	Def        *BuffDefinition
	Stacks     int
	AppliedAt  float64
	ExpiresAt  float64
	NextTickAt float64

	// Snapshots taken at apply/refresh time.
	TickInterval float64
	Haste        float64
	AttackPower  float64
	SpellPower   float64
}

// Remaining returns the seconds left before the instance expires.
func (b *BuffInstance) Remaining(now float64) float64 {
	if b == nil || now >= b.ExpiresAt {
		return 0
	}
	return b.ExpiresAt - now
}

// TickAmount returns the per-tick value using the snapshotted stats.
func (b *BuffInstance) TickAmount() float64 {
	d := b.Def
	base := d.TickValue + b.AttackPower*d.TickAPCoefficient + b.SpellPower*d.TickSPCoefficient
	return base * float64(b.Stacks)
}

// Aggregate is the combined effect of every active buff.
type Aggregate struct {
	HasteAdditive       float64
	HasteMultiplicative float64

	PhysicalBonus float64
	MagicBonus    float64
	TrueBonus     float64

	ArmorPenFlat float64
	ArmorPenPct  float64
	MagicPenFlat float64
	MagicPenPct  float64

	CritChanceBonus     float64
	CritMultiplierBonus float64
}

// Haste returns (1 + additive) * multiplicative.
func (a Aggregate) Haste() float64 {
	mult := a.HasteMultiplicative
	if mult == 0 {
		mult = 1
	}
	return ClampHaste((1 + a.HasteAdditive) * mult)
}

// DamageMultiplier returns the outgoing damage multiplier for a damage type.
func (a Aggregate) DamageMultiplier(t character.DamageType) float64 {
	switch t {
	case character.DamageMagic:
		return 1 + a.MagicBonus
	case character.DamageTrue:
		return 1 + a.TrueBonus
	default:
		return 1 + a.PhysicalBonus
	}
}

func emptyAggregate() Aggregate {
	return Aggregate{HasteMultiplicative: 1}
}

func (a *Aggregate) add(inst *BuffInstance) {
	d := inst.Def
	n := float64(inst.Stacks)
	a.HasteAdditive += d.HasteAdditive * n
	a.HasteMultiplicative *= math.Pow(d.hasteMult(), n)
	a.PhysicalBonus += d.PhysicalBonus * n
	a.MagicBonus += d.MagicBonus * n
	a.TrueBonus += d.TrueBonus * n
	a.ArmorPenFlat += d.ArmorPenFlat * n
	a.ArmorPenPct += d.ArmorPenPct * n
	a.MagicPenFlat += d.MagicPenFlat * n
	a.MagicPenPct += d.MagicPenPct * n
	a.CritChanceBonus += d.CritChanceBonus * n
	a.CritMultiplierBonus += d.CritMultiplierBonus * n
}

func (a *Aggregate) clamp() {
	a.ArmorPenPct = clamp01(a.ArmorPenPct)
	a.MagicPenPct = clamp01(a.MagicPenPct)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
