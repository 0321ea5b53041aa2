package engine

import (
	"math"

	"idle-battle-sim/internal/character"
	"idle-battle-sim/internal/combatant"
	"idle-battle-sim/internal/effects"
	"idle-battle-sim/internal/perks"
	"idle-battle-sim/internal/rng"
	"idle-battle-sim/internal/segments"
	"idle-battle-sim/internal/skills"
)

// BattleContext is the view of a running battle handed to skills and
// profession modules. It does not own any of the state it points to.
type BattleContext struct {
	clock     *Clock
	rng       *rng.Context
	stats     character.Stats
	perks     perks.Set
	resources *character.Resources
	buffs     *effects.Manager
	player    *combatant.Player
	encounter combatant.Encounter
	collector *segments.Collector
	scheduler *Scheduler
	log       *combatLog

	onKill func(target *combatant.Enemy, source string, at float64)
}

var _ skills.Battlefield = (*BattleContext)(nil)

func (c *BattleContext) Now() float64                    { return c.clock.Now() }
func (c *BattleContext) Rng() *rng.Context               { return c.rng }
func (c *BattleContext) Stats() character.Stats          { return c.stats }
func (c *BattleContext) Resources() *character.Resources { return c.resources }
func (c *BattleContext) Buffs() *effects.Manager         { return c.buffs }
func (c *BattleContext) Player() *combatant.Player       { return c.player }
func (c *BattleContext) Encounter() combatant.Encounter  { return c.encounter }

// Haste combines the panel haste with the active buffs.
func (c *BattleContext) Haste() float64 {
	return effects.ClampHaste(c.stats.HasteFactor() * c.buffs.Aggregate().Haste())
}

// SelectTarget draws a living enemy weighted by threat.
func (c *BattleContext) SelectTarget() (*combatant.Enemy, bool) {
	return combatant.SelectTarget(c.encounter.Alive(), c.rng)
}

// Targets returns the living enemies in encounter order.
func (c *BattleContext) Targets() []*combatant.Enemy {
	return c.encounter.Alive()
}

// DealDamage applies player damage to target at the current time.
func (c *BattleContext) DealDamage(source string, target *combatant.Enemy, amount int64, typ character.DamageType, crit bool) combatant.DamageOutcome {
	return c.dealDamageAt(source, target, amount, typ, crit, c.clock.Now())
}

func (c *BattleContext) dealDamageAt(source string, target *combatant.Enemy, amount int64, typ character.DamageType, crit bool, at float64) combatant.DamageOutcome {
	if target == nil {
		return combatant.DamageOutcome{}
	}
	if mult := c.perks.ExecutionerMultiplier(combatant.HealthPercent(target)); mult != 1 {
		amount = int64(math.Round(float64(amount) * mult))
	}
	agg := c.buffs.Aggregate()
	hit := combatant.Hit{
		Source:        source,
		Amount:        amount,
		Type:          typ,
		AttackerLevel: c.stats.Level,
		ArmorPenFlat:  c.stats.ArmorPenFlat + agg.ArmorPenFlat,
		ArmorPenPct:   math.Min(c.stats.ArmorPenPct+agg.ArmorPenPct, 1),
		MagicPenFlat:  c.stats.MagicPenFlat + agg.MagicPenFlat,
		MagicPenPct:   math.Min(c.stats.MagicPenPct+agg.MagicPenPct, 1),
	}
	out := target.ReceiveDamage(hit, at)
	c.collector.RecordDamage(source, out.Applied, typ)
	if out.Killed && c.onKill != nil {
		c.onKill(target, source, at)
	}
	return out
}

func (c *BattleContext) RecordResource(id string, delta float64) {
	c.collector.RecordResource(id, delta)
}

func (c *BattleContext) Tag(tag string) {
	c.collector.AddTag(tag, 1)
}

// ScheduleCastComplete queues the completion of an in-flight cast.
func (c *BattleContext) ScheduleCastComplete(at float64, castID uint64) skills.Canceler {
	return c.scheduler.Schedule(&Event{At: at, Kind: EventCastComplete, CastID: castID})
}

func (c *BattleContext) Logf(format string, args ...any) {
	c.log.logAt(c.clock.Now(), format, args...)
}
