package skills

import (
	"errors"
	"fmt"
	"strings"

	"idle-battle-sim/internal/apl"
	"idle-battle-sim/internal/character"
)

var (
	ErrInvalidSkill   = errors.New("invalid skill definition")
	ErrDuplicateSkill = errors.New("duplicate skill")
)

// AoEMode selects how a skill spreads damage over several targets.
type AoEMode int

const (
	AoENone AoEMode = iota
	// AoECleaveFull deals full damage to every selected target.
	AoECleaveFull
	// AoESplitEven divides the damage across the selected targets.
	AoESplitEven
)

func (m AoEMode) String() string {
	switch m {
	case AoENone:
		return "none"
	case AoECleaveFull:
		return "cleave_full"
	case AoESplitEven:
		return "split_even"
	default:
		return fmt.Sprintf("aoe(%d)", int(m))
	}
}

// ParseAoEMode converts a config string into an AoEMode.
func ParseAoEMode(s string) (AoEMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "single":
		return AoENone, nil
	case "cleave_full", "cleave":
		return AoECleaveFull, nil
	case "split_even", "split":
		return AoESplitEven, nil
	default:
		return 0, fmt.Errorf("unknown aoe mode '%s'", s)
	}
}

// Definition is the immutable description of an auto-cast skill.
type Definition struct {
	ID       string
	Name     string
	Priority int

	Resource string
	Cost     float64
	// Gain is resource granted when the skill resolves.
	Gain         float64
	GainResource string

	Cooldown             float64
	HasteAffectsCooldown bool
	Charges              int
	Recharge             float64
	HasteAffectsRecharge bool

	BaseDamage    float64
	APCoefficient float64
	SPCoefficient float64
	DamageType    character.DamageType
	CritChance    *float64

	AoE                AoEMode
	MaxTargets         int
	IncludePrimary     bool
	RemainderToPrimary bool

	CastTime         float64
	HasteAffectsCast bool
	SpendAtStart     bool
	Interruptible    bool

	ApplyBuff string
	When      apl.Condition
}

// Validate checks values the runtime cannot handle.
func (d *Definition) Validate() error {
	if d == nil {
		return fmt.Errorf("%w: nil definition", ErrInvalidSkill)
	}
	if d.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidSkill)
	}
	if d.Cost < 0 || d.Cooldown < 0 || d.Recharge < 0 || d.CastTime < 0 {
		return fmt.Errorf("%w: %s: negative cost or timing", ErrInvalidSkill, d.ID)
	}
	if d.Cost > 0 && d.Resource == "" {
		return fmt.Errorf("%w: %s: cost without resource", ErrInvalidSkill, d.ID)
	}
	if d.Charges > 1 && d.rechargeBase() <= 0 {
		return fmt.Errorf("%w: %s: multi-charge skills need a recharge time", ErrInvalidSkill, d.ID)
	}
	if d.AoE != AoENone && d.MaxTargets < 1 {
		return fmt.Errorf("%w: %s: aoe skills need max_targets >= 1", ErrInvalidSkill, d.ID)
	}
	if d.CritChance != nil && (*d.CritChance < 0 || *d.CritChance > 1) {
		return fmt.Errorf("%w: %s: crit chance override must be in [0,1]", ErrInvalidSkill, d.ID)
	}
	return nil
}

func (d *Definition) rechargeBase() float64 {
	if d.Recharge > 0 {
		return d.Recharge
	}
	return d.Cooldown
}

// gainResource falls back to the cost resource.
func (d *Definition) gainResource() string {
	if d.GainResource != "" {
		return d.GainResource
	}
	return d.Resource
}
