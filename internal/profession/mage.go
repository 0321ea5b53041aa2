package profession

import (
	"idle-battle-sim/internal/perks"
	"idle-battle-sim/internal/skills"
)

const (
	ResourceMana = "mana"

	BuffHotStreak = "hot_streak"
	BuffIgnite    = "ignite"
)

// Mage regenerates mana on the special pulse and stacks hot streak on
// critical spells.
type Mage struct {
	base
}

func newMage(kit *Kit, equipped perks.Set) Module {
	return &Mage{base{name: "mage", kit: kit, perks: equipped}}
}

func (m *Mage) OnAutoAttack(bf skills.Battlefield, _ Attack) error {
	gain(bf, ResourceMana, m.kit.Param("mana_per_hit", 0))
	return nil
}

// OnSpecialPulse regenerates a fraction of max mana.
func (m *Mage) OnSpecialPulse(bf skills.Battlefield) error {
	pct := m.kit.Param("mana_regen_pct", 5)
	gain(bf, ResourceMana, bf.Resources().Max(ResourceMana)*pct/100.0)
	return nil
}

func (m *Mage) OnSkillCast(bf skills.Battlefield, res skills.CastResult) error {
	if !res.Crit || res.Damage <= 0 {
		return nil
	}
	if err := m.applyIfKnown(bf, BuffHotStreak); err != nil {
		return err
	}
	if m.perks.Has(perks.PerkIgnite) {
		return m.applyIfKnown(bf, BuffIgnite)
	}
	return nil
}
