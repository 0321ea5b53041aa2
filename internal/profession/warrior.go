package profession

import (
	"idle-battle-sim/internal/perks"
	"idle-battle-sim/internal/skills"
)

const (
	ResourceRage = "rage"

	BuffEnrage     = "enrage"
	BuffDeepWounds = "deep_wounds"
)

// Warrior builds rage from auto attacks and pulses and goes into enrage
// when a skill crits.
type Warrior struct {
	base
}

func newWarrior(kit *Kit, equipped perks.Set) Module {
	return &Warrior{base{name: "warrior", kit: kit, perks: equipped}}
}

func (w *Warrior) OnAutoAttack(bf skills.Battlefield, atk Attack) error {
	amount := w.kit.Param("rage_per_hit", 8)
	if atk.Crit {
		amount += w.kit.Param("rage_per_crit", 4)
	}
	gain(bf, ResourceRage, amount)
	if atk.Outcome.Killed {
		gain(bf, ResourceRage, w.kit.Param("rage_on_kill", 0))
	}
	return nil
}

func (w *Warrior) OnSpecialPulse(bf skills.Battlefield) error {
	gain(bf, ResourceRage, w.kit.Param("rage_per_pulse", 5))
	return nil
}

func (w *Warrior) OnSkillCast(bf skills.Battlefield, res skills.CastResult) error {
	if res.Crit {
		if err := w.applyIfKnown(bf, BuffEnrage); err != nil {
			return err
		}
		if w.perks.Has(perks.PerkBloodFrenzy) {
			if err := w.applyIfKnown(bf, BuffDeepWounds); err != nil {
				return err
			}
		}
	}
	if res.Kills > 0 {
		gain(bf, ResourceRage, w.kit.Param("rage_on_kill", 0)*float64(res.Kills))
	}
	return nil
}
