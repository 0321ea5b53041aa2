package engine

import (
	"idle-battle-sim/internal/combatant"
	"idle-battle-sim/internal/effects"
)

// enemyController drives the swing timer of one enemy.
type enemyController struct {
	index int
	enemy *combatant.Enemy
	track *effects.Track
	event *Event
}

func (e *BattleEngine) startEnemies() {
	for _, en := range e.encounter.Enemies() {
		def := en.Def
		if def.AttackDamage <= 0 || def.AttackInterval <= 0 {
			continue
		}
		ctrl := &enemyController{
			index: len(e.enemies),
			enemy: en,
			track: effects.NewTrack(def.AttackInterval),
		}
		e.enemies = append(e.enemies, ctrl)
		ctrl.schedule(e.scheduler, e.clock.Now())
	}
}

// schedule queues the next swing while the enemy can still act.
func (c *enemyController) schedule(s *Scheduler, now float64) {
	if !c.enemy.CanAct() {
		c.event = nil
		return
	}
	c.event = s.Schedule(&Event{At: c.track.Schedule(now), Kind: EventEnemyAttack, Enemy: c.index})
}

func (c *enemyController) stop() {
	c.event.Cancel()
	c.event = nil
}
