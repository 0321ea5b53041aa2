package combatant

import (
	"fmt"
	"math"

	"idle-battle-sim/internal/character"
)

// EnemyDefinition is the immutable description of an enemy type.
type EnemyDefinition struct {
	ID              string
	Name            string
	Level           int
	MaxHP           int64
	Armor           float64
	MagicResist     float64
	AttackDamage    float64
	AttackInterval  float64
	DamageType      character.DamageType
	ThreatWeight    float64
	InterruptChance float64
}

// Enemy is one live instance of an EnemyDefinition.
type Enemy struct {
	life
	Def        *EnemyDefinition
	instanceID string
	overkill   int64
}

// NewEnemy spawns an instance at full health. index disambiguates copies of
// the same definition inside a group.
func NewEnemy(def *EnemyDefinition, index int) *Enemy {
	maxHP := def.MaxHP
	if maxHP <= 0 {
		maxHP = 1
	}
	return &Enemy{
		life:       life{hp: maxHP, maxHP: maxHP, state: StateAlive, reviveTime: math.Inf(1)},
		Def:        def,
		instanceID: fmt.Sprintf("%s#%d", def.ID, index),
	}
}

func (e *Enemy) ID() string {
	return e.instanceID
}

func (e *Enemy) ThreatWeight() float64 {
	return e.Def.ThreatWeight
}

// Overkill returns the damage past zero of the killing blow.
func (e *Enemy) Overkill() int64 {
	return e.overkill
}

// ReceiveDamage applies armor or resist after the attacker's penetration.
func (e *Enemy) ReceiveDamage(hit Hit, now float64) DamageOutcome {
	out := DamageOutcome{Incoming: hit.Amount}
	if e.state != StateAlive {
		return out
	}
	amount := hit.Amount
	switch hit.Type {
	case character.DamagePhysical:
		armor := EffectiveValue(e.Def.Armor, hit.ArmorPenFlat, hit.ArmorPenPct)
		amount = ApplyReduction(amount, ArmorReduction(armor, hit.AttackerLevel))
	case character.DamageMagic:
		resist := EffectiveValue(e.Def.MagicResist, hit.MagicPenFlat, hit.MagicPenPct)
		amount = ApplyReduction(amount, ArmorReduction(resist, hit.AttackerLevel))
	}
	out.Applied, out.Overkill, out.Killed = e.take(amount, now)
	if out.Killed {
		e.overkill = out.Overkill
	}
	return out
}
