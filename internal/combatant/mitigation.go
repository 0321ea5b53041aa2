package combatant

import "math"

const (
	// MitigationCap bounds armor and resistance reduction.
	MitigationCap = 0.75
	// BlockReduction is the fraction of physical damage removed by a block.
	BlockReduction = 0.30

	armorBase     = 400.0
	armorPerLevel = 85.0
)

// ArmorReduction returns the fraction of physical damage removed by armor
// against an attacker of the given level.
func ArmorReduction(armor float64, attackerLevel int) float64 {
	if armor <= 0 {
		return 0
	}
	if attackerLevel < 1 {
		attackerLevel = 1
	}
	r := armor / (armor + armorBase + armorPerLevel*float64(attackerLevel))
	return math.Min(r, MitigationCap)
}

// EffectiveValue applies flat then percentage penetration to armor or resist.
func EffectiveValue(value, penFlat, penPct float64) float64 {
	v := value - penFlat
	if v <= 0 {
		return 0
	}
	if penPct > 0 {
		v *= 1 - math.Min(penPct, 1)
	}
	return v
}

// ApplyReduction scales amount by (1 - reduction) and rounds to whole damage.
func ApplyReduction(amount int64, reduction float64) int64 {
	if amount <= 0 {
		return 0
	}
	if reduction <= 0 {
		return amount
	}
	out := int64(math.Round(float64(amount) * (1 - reduction)))
	if out < 0 {
		return 0
	}
	return out
}
