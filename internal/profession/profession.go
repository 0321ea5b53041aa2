// Package profession holds the class modules that plug buffs, skills and
// hooks into a battle.
package profession

import (
	"errors"
	"fmt"
	"sort"

	"idle-battle-sim/internal/character"
	"idle-battle-sim/internal/combatant"
	"idle-battle-sim/internal/effects"
	"idle-battle-sim/internal/perks"
	"idle-battle-sim/internal/skills"
)

var ErrUnknownProfession = errors.New("unknown profession")

// Resource is one pool a profession fights with.
type Resource struct {
	ID    string
	Max   float64
	Start float64
}

// AutoAttack describes the basic attack fired on the attack track.
type AutoAttack struct {
	Interval      float64
	BaseDamage    float64
	APCoefficient float64
	SPCoefficient float64
	DamageType    character.DamageType
}

// Kit is the configured content of a profession: everything a module
// registers at battle start. Kits are built once by the config loader and
// shared read-only between battles.
type Kit struct {
	Name            string
	Resources       []Resource
	Buffs           []*effects.BuffDefinition
	Skills          []*skills.Definition
	AutoAttack      AutoAttack
	SpecialInterval float64
	Opener          []string
	Params          map[string]float64
}

// Param returns a tunable or def when unset.
func (k *Kit) Param(name string, def float64) float64 {
	if k == nil {
		return def
	}
	if v, ok := k.Params[name]; ok {
		return v
	}
	return def
}

// Attack is a resolved auto attack.
type Attack struct {
	Target  *combatant.Enemy
	Crit    bool
	Damage  int64
	Outcome combatant.DamageOutcome
}

// Module is a profession plugged into one battle.
type Module interface {
	skills.Hooks

	Name() string
	Kit() *Kit
	Perks() perks.Set

	OnBattleStart(bf skills.Battlefield) error
	OnSpecialPulse(bf skills.Battlefield) error
	OnAutoAttack(bf skills.Battlefield, atk Attack) error
}

type constructor func(kit *Kit, equipped perks.Set) Module

var constructors = map[string]constructor{
	"warrior": newWarrior,
	"mage":    newMage,
	"basic":   newBasic,
}

// New builds the module for name. Professions without special behavior can
// use "basic".
func New(name string, kit *Kit, equipped perks.Set) (Module, error) {
	ctor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProfession, name)
	}
	if kit == nil {
		return nil, fmt.Errorf("profession %s: missing kit", name)
	}
	return ctor(kit, equipped), nil
}

// Supported reports whether a module exists for name.
func Supported(name string) bool {
	_, ok := constructors[name]
	return ok
}

// Names returns the supported professions in sorted order.
func Names() []string {
	out := make([]string, 0, len(constructors))
	for n := range constructors {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// base implements the shared parts of every module.
type base struct {
	name  string
	kit   *Kit
	perks perks.Set
}

func (b *base) Name() string     { return b.name }
func (b *base) Kit() *Kit        { return b.kit }
func (b *base) Perks() perks.Set { return b.perks }

// OnBattleStart applies the opener buffs.
func (b *base) OnBattleStart(bf skills.Battlefield) error {
	for _, id := range b.kit.Opener {
		if _, err := bf.Buffs().Apply(id, bf.Now()); err != nil {
			return fmt.Errorf("%s opener: %w", b.name, err)
		}
	}
	return nil
}

func (b *base) OnSpecialPulse(skills.Battlefield) error                 { return nil }
func (b *base) OnAutoAttack(skills.Battlefield, Attack) error           { return nil }
func (b *base) OnSkillCast(skills.Battlefield, skills.CastResult) error { return nil }

// applyIfKnown applies a buff only when the kit defines it.
func (b *base) applyIfKnown(bf skills.Battlefield, id string) error {
	if id == "" || !bf.Buffs().Known(id) {
		return nil
	}
	if _, err := bf.Buffs().Apply(id, bf.Now()); err != nil {
		return fmt.Errorf("%s: %w", b.name, err)
	}
	return nil
}

// gain adds resource and records the flow.
func gain(bf skills.Battlefield, resource string, amount float64) {
	if amount == 0 {
		return
	}
	if got := bf.Resources().Gain(resource, amount); got != 0 {
		bf.RecordResource(resource, got)
	}
}

type basic struct{ base }

func newBasic(kit *Kit, equipped perks.Set) Module {
	return &basic{base{name: "basic", kit: kit, perks: equipped}}
}
