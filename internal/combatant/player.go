package combatant

import (
	"math"

	"idle-battle-sim/internal/character"
)

// ReviveSettings controls what happens when the player dies.
type ReviveSettings struct {
	Enabled    bool
	Delay      float64
	HPFraction float64
}

// Player is the combatant controlled by the simulation.
type Player struct {
	life
	Char   *character.Character
	Revive ReviveSettings
	Deaths int
}

// NewPlayer builds a player at full health.
func NewPlayer(char *character.Character, revive ReviveSettings) *Player {
	maxHP := char.Stats.MaxHP
	if maxHP <= 0 {
		maxHP = 1
	}
	if revive.HPFraction <= 0 || revive.HPFraction > 1 {
		revive.HPFraction = 1
	}
	return &Player{
		life:   life{hp: maxHP, maxHP: maxHP, state: StateAlive, reviveTime: math.Inf(1)},
		Char:   char,
		Revive: revive,
	}
}

func (p *Player) ID() string {
	return p.Char.ID.String()
}

// ThreatWeight is 1; there is a single player per battle.
func (p *Player) ThreatWeight() float64 {
	return 1
}

// ReceiveDamage mitigates physical damage with block and armor. Magic and
// true damage bypass mitigation.
func (p *Player) ReceiveDamage(hit Hit, now float64) DamageOutcome {
	out := DamageOutcome{Incoming: hit.Amount}
	if p.state != StateAlive {
		return out
	}
	amount := hit.Amount
	if hit.Type == character.DamagePhysical {
		if hit.Rng != nil && hit.Rng.Chance(p.Char.Stats.BlockPct/100.0) {
			out.Blocked = true
			amount = ApplyReduction(amount, BlockReduction)
		}
		armor := EffectiveValue(p.Char.Stats.Armor, hit.ArmorPenFlat, hit.ArmorPenPct)
		amount = ApplyReduction(amount, ArmorReduction(armor, hit.AttackerLevel))
	}
	out.Applied, out.Overkill, out.Killed = p.take(amount, now)
	if out.Killed {
		p.Deaths++
		if p.Revive.Enabled {
			p.state = StateReviving
			p.reviveTime = now + p.Revive.Delay
		}
	}
	return out
}

// ReviveAt brings the player back with the configured HP fraction.
// It reports false when the player is not waiting for a revive.
func (p *Player) ReviveAt(now float64) bool {
	if p.state != StateReviving {
		return false
	}
	hp := int64(math.Round(float64(p.maxHP) * p.Revive.HPFraction))
	if hp < 1 {
		hp = 1
	}
	p.hp = hp
	p.state = StateAlive
	p.reviveTime = math.Inf(1)
	return true
}

// Heal restores hp up to max and returns the amount restored.
func (p *Player) Heal(amount int64) int64 {
	if p.state != StateAlive || amount <= 0 {
		return 0
	}
	before := p.hp
	p.hp += amount
	if p.hp > p.maxHP {
		p.hp = p.maxHP
	}
	return p.hp - before
}
