package skills

import (
	"fmt"
	"math"
	"sort"

	"idle-battle-sim/internal/character"
	"idle-battle-sim/internal/combatant"
	"idle-battle-sim/internal/effects"
	"idle-battle-sim/internal/rng"
)

// Canceler cancels a scheduled event.
type Canceler interface {
	Cancel()
}

// Battlefield is the slice of battle state the auto-cast engine works with.
type Battlefield interface {
	Now() float64
	Rng() *rng.Context
	Stats() character.Stats
	Resources() *character.Resources
	Buffs() *effects.Manager
	Haste() float64

	SelectTarget() (*combatant.Enemy, bool)
	Targets() []*combatant.Enemy

	DealDamage(source string, target *combatant.Enemy, amount int64, typ character.DamageType, crit bool) combatant.DamageOutcome
	RecordResource(id string, delta float64)
	Tag(tag string)
	ScheduleCastComplete(at float64, castID uint64) Canceler
	Logf(format string, args ...any)
}

// Hooks lets a profession react to resolved casts.
type Hooks interface {
	OnSkillCast(bf Battlefield, res CastResult) error
}

// PendingCast is a skill with a cast time that has not resolved yet.
type PendingCast struct {
	ID          uint64
	Skill       *Runtime
	Target      *combatant.Enemy
	StartedAt   float64
	CompletesAt float64

	spent      bool
	paid       float64
	completion Canceler
}

// CastResult represents the result of a resolved skill.
type CastResult struct {
	Skill   *Definition
	At      float64
	Target  *combatant.Enemy
	Crit    bool
	Damage  int64 // pre-mitigation total
	Applied int64
	Targets int
	Kills   int
}

// AutoCast picks and fires skills in priority order.
type AutoCast struct {
	Hooks Hooks

	slots      []*Runtime
	byID       map[string]*Runtime
	casting    *PendingCast
	nextCastID uint64
}

// NewAutoCast sorts skills by priority (lower first, then id).
func NewAutoCast(defs []*Definition) (*AutoCast, error) {
	a := &AutoCast{byID: make(map[string]*Runtime, len(defs))}
	for _, def := range defs {
		if err := def.Validate(); err != nil {
			return nil, err
		}
		if _, dup := a.byID[def.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSkill, def.ID)
		}
		rt := NewRuntime(def)
		a.byID[def.ID] = rt
		a.slots = append(a.slots, rt)
	}
	sort.SliceStable(a.slots, func(i, j int) bool {
		pi, pj := a.slots[i].Def.Priority, a.slots[j].Def.Priority
		if pi != pj {
			return pi < pj
		}
		return a.slots[i].Def.ID < a.slots[j].Def.ID
	})
	return a, nil
}

// Skills returns the runtimes in priority order.
func (a *AutoCast) Skills() []*Runtime {
	return a.slots
}

// Runtime returns the runtime for a skill id.
func (a *AutoCast) Runtime(id string) *Runtime {
	return a.byID[id]
}

// Casting returns the in-flight cast or nil.
func (a *AutoCast) Casting() *PendingCast {
	return a.casting
}

// TryCast fires at most one skill: the first ready, affordable skill whose
// gate passes. It reports whether a skill was started or resolved.
func (a *AutoCast) TryCast(bf Battlefield) (bool, error) {
	if a.casting != nil {
		return false, nil
	}
	now := bf.Now()
	g := gate{bf: bf, ac: a}
	for _, rt := range a.slots {
		def := rt.Def
		if !rt.Ready(now) {
			continue
		}
		if !bf.Resources().CanAfford(def.Resource, def.Cost) {
			continue
		}
		if def.When != nil && !def.When.Eval(g) {
			continue
		}
		target, ok := bf.SelectTarget()
		if !ok {
			return false, nil
		}
		return true, a.start(bf, rt, target)
	}
	return false, nil
}

func (a *AutoCast) start(bf Battlefield, rt *Runtime, target *combatant.Enemy) error {
	now := bf.Now()
	def := rt.Def
	castTime := def.CastTime
	if def.HasteAffectsCast {
		castTime /= effects.ClampHaste(bf.Haste())
	}

	if castTime <= 0 {
		a.pay(bf, rt)
		_, err := a.resolve(bf, rt, target)
		return err
	}

	a.nextCastID++
	p := &PendingCast{
		ID:          a.nextCastID,
		Skill:       rt,
		Target:      target,
		StartedAt:   now,
		CompletesAt: now + castTime,
	}
	if def.SpendAtStart {
		p.paid = a.pay(bf, rt)
		p.spent = true
	}
	p.completion = bf.ScheduleCastComplete(p.CompletesAt, p.ID)
	a.casting = p
	bf.Tag("cast_start:" + def.ID)
	bf.Logf("CAST_START %s (%.2fs)", def.ID, castTime)
	return nil
}

// Complete resolves the in-flight cast when castID still matches it.
func (a *AutoCast) Complete(bf Battlefield, castID uint64) (bool, error) {
	p := a.casting
	if p == nil || p.ID != castID {
		return false, nil
	}
	a.casting = nil
	rt := p.Skill
	def := rt.Def
	if !p.spent {
		if !bf.Resources().CanAfford(def.Resource, def.Cost) {
			bf.Tag("fizzle:" + def.ID)
			bf.Logf("CAST_FIZZLE %s (resource)", def.ID)
			return false, nil
		}
		a.pay(bf, rt)
	}
	target := p.Target
	if target == nil || !target.CanBeTargeted() {
		var ok bool
		if target, ok = bf.SelectTarget(); !ok {
			bf.Tag("fizzle:" + def.ID)
			bf.Logf("CAST_FIZZLE %s (no target)", def.ID)
			return false, nil
		}
	}
	_, err := a.resolve(bf, rt, target)
	return err == nil, err
}

// Interrupt cancels the in-flight cast when castID matches it and the skill
// can be interrupted. Resource and charge paid at cast start are returned.
func (a *AutoCast) Interrupt(bf Battlefield, castID uint64) bool {
	p := a.casting
	if p == nil || p.ID != castID || !p.Skill.Def.Interruptible {
		return false
	}
	a.abort(bf, p)
	return true
}

// Abort cancels the in-flight cast regardless of interruptibility, e.g.
// when the caster dies.
func (a *AutoCast) Abort(bf Battlefield) bool {
	if a.casting == nil {
		return false
	}
	a.abort(bf, a.casting)
	return true
}

func (a *AutoCast) abort(bf Battlefield, p *PendingCast) {
	a.casting = nil
	if p.completion != nil {
		p.completion.Cancel()
	}
	def := p.Skill.Def
	if p.spent {
		now := bf.Now()
		p.Skill.Refund(now)
		if p.paid > 0 {
			gained := bf.Resources().Gain(def.Resource, p.paid)
			bf.RecordResource(def.Resource, gained)
		}
	}
	bf.Tag("interrupt:" + def.ID)
	bf.Logf("CAST_INTERRUPT %s", def.ID)
}

// pay deducts the cost and consumes a charge or starts the cooldown.
func (a *AutoCast) pay(bf Battlefield, rt *Runtime) float64 {
	def := rt.Def
	spent := bf.Resources().Spend(def.Resource, def.Cost)
	if spent > 0 {
		bf.RecordResource(def.Resource, -spent)
	}
	rt.Consume(bf.Now(), bf.Haste())
	return spent
}

func (a *AutoCast) resolve(bf Battlefield, rt *Runtime, primary *combatant.Enemy) (CastResult, error) {
	def := rt.Def
	now := bf.Now()
	stats := bf.Stats()
	agg := bf.Buffs().Aggregate()

	res := CastResult{Skill: def, At: now, Target: primary}
	raw := def.BaseDamage + stats.AttackPower*def.APCoefficient + stats.SpellPower*def.SPCoefficient
	if raw > 0 {
		chance := stats.CritChance() + agg.CritChanceBonus
		if def.CritChance != nil {
			chance = *def.CritChance
		}
		res.Crit = bf.Rng().Chance(chance)
		amount := raw * agg.DamageMultiplier(def.DamageType)
		if res.Crit {
			amount *= stats.EffectiveCritMultiplier() + agg.CritMultiplierBonus
		}
		res.Damage = int64(math.Round(amount))
		a.strike(bf, def, primary, &res)
	}

	bf.Tag("cast:" + def.ID)
	if res.Crit {
		bf.Tag("crit:skill:" + def.ID)
	}
	outcome := "HIT"
	if res.Crit {
		outcome = "CRIT"
	}
	bf.Logf("CAST_RESULT %s %s damage=%d targets=%d", def.ID, outcome, res.Applied, res.Targets)

	if def.ApplyBuff != "" {
		if _, err := bf.Buffs().Apply(def.ApplyBuff, now); err != nil {
			return res, fmt.Errorf("skill %s: %w", def.ID, err)
		}
	}
	if def.Gain != 0 {
		pool := def.gainResource()
		gained := bf.Resources().Gain(pool, def.Gain)
		bf.RecordResource(pool, gained)
	}
	if a.Hooks != nil {
		if err := a.Hooks.OnSkillCast(bf, res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func (a *AutoCast) strike(bf Battlefield, def *Definition, primary *combatant.Enemy, res *CastResult) {
	source := "skill:" + def.ID
	hit := func(target *combatant.Enemy, amount int64) {
		out := bf.DealDamage(source, target, amount, def.DamageType, res.Crit)
		res.Applied += out.Applied
		res.Targets++
		if out.Killed {
			res.Kills++
		}
	}
	if def.AoE == AoENone {
		hit(primary, res.Damage)
		return
	}
	targets := selectTargets(primary, bf.Targets(), def.MaxTargets, def.IncludePrimary)
	if len(targets) == 0 {
		return
	}
	switch def.AoE {
	case AoECleaveFull:
		for _, t := range targets {
			hit(t, res.Damage)
		}
	case AoESplitEven:
		parts := Distribute(res.Damage, len(targets), def.RemainderToPrimary)
		for i, t := range targets {
			hit(t, parts[i])
		}
	}
}

// gate adapts battle state to the condition evaluator.
type gate struct {
	bf Battlefield
	ac *AutoCast
}

func (g gate) BuffActive(id string) bool {
	return g.bf.Buffs().Active(id, g.bf.Now())
}

func (g gate) BuffRemaining(id string) float64 {
	return g.bf.Buffs().Remaining(id, g.bf.Now())
}

func (g gate) BuffStacks(id string) int {
	return g.bf.Buffs().Stacks(id)
}

func (g gate) ResourcePercent(res string) float64 {
	return g.bf.Resources().Percent(res)
}

func (g gate) CooldownReady(skill string) bool {
	rt := g.ac.Runtime(skill)
	return rt != nil && rt.Ready(g.bf.Now())
}

func (g gate) CooldownRemaining(skill string) float64 {
	rt := g.ac.Runtime(skill)
	if rt == nil {
		return math.Inf(1)
	}
	return rt.Remaining(g.bf.Now())
}

func (g gate) Charges(skill string) int {
	rt := g.ac.Runtime(skill)
	if rt == nil {
		return 0
	}
	return rt.Charges(g.bf.Now())
}

func (g gate) TargetHealthPercent() float64 {
	targets := g.bf.Targets()
	if len(targets) == 0 {
		return 0
	}
	return combatant.HealthPercent(targets[0])
}

func (g gate) EnemiesAlive() int {
	return len(g.bf.Targets())
}
