package perks

import (
	"sort"
	"strings"

	"idle-battle-sim/internal/character"
)

type Rarity string

const (
	RarityLegendary Rarity = "legendary"
	RarityEpic      Rarity = "epic"
	RarityRare      Rarity = "rare"
)

const (
	PerkExecutioner = "executioner"
	PerkArcaneFlux  = "arcane_flux"

	PerkBloodFrenzy  = "blood_frenzy"
	PerkIgnite       = "ignite"
	PerkSecondWind   = "second_wind"
	PerkQuickened    = "quickened"
	PerkBattleTrance = "battle_trance"

	PerkSharpened = "sharpened"
	PerkAttuned   = "attuned"
	PerkBulwark   = "bulwark"
	PerkHardened  = "hardened"
)

var perkRarity = map[string]Rarity{
	PerkExecutioner: RarityLegendary,
	PerkArcaneFlux:  RarityLegendary,

	PerkBloodFrenzy:  RarityEpic,
	PerkIgnite:       RarityEpic,
	PerkSecondWind:   RarityEpic,
	PerkQuickened:    RarityEpic,
	PerkBattleTrance: RarityEpic,

	PerkSharpened: RarityRare,
	PerkAttuned:   RarityRare,
	PerkBulwark:   RarityRare,
	PerkHardened:  RarityRare,
}

const (
	ExecutionerThresholdPct = 20.0
	ExecutionerBonus        = 0.25

	ArcaneFluxCritMultiplier = 0.5

	SecondWindHPFraction = 0.25
	QuickenedHastePct    = 5.0
	BattleTranceCritPct  = 3.0

	SharpenedArmorPen = 150.0
	AttunedMagicPen   = 20.0
	BulwarkBlockPct   = 10.0
	HardenedArmor     = 400.0
)

// Normalize returns the canonical lowercase snake_case perk name.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// RarityOf returns the rarity and whether the perk is known.
func RarityOf(name string) (Rarity, bool) {
	r, ok := perkRarity[name]
	return r, ok
}

// IsKnown returns true if the perk identifier is recognized.
func IsKnown(name string) bool {
	_, ok := perkRarity[name]
	return ok
}

// Known returns all perk identifiers keyed by name.
func Known() map[string]Rarity {
	out := make(map[string]Rarity, len(perkRarity))
	for k, v := range perkRarity {
		out[k] = v
	}
	return out
}

// Set is an equipped perk selection.
type Set map[string]struct{}

// NewSet normalizes names into a set. Unknown names are kept; validation
// happens at config load.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[Normalize(n)] = struct{}{}
	}
	return s
}

// Has reports whether name is equipped.
func (s Set) Has(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s[Normalize(name)]
	return ok
}

// Names returns the equipped perks in sorted order.
func (s Set) Names() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// ApplyStats folds the passive stat perks into a panel.
func (s Set) ApplyStats(stats character.Stats) character.Stats {
	if s.Has(PerkQuickened) {
		stats.HastePct += QuickenedHastePct
	}
	if s.Has(PerkBattleTrance) {
		stats.CritPct += BattleTranceCritPct
	}
	if s.Has(PerkSharpened) {
		stats.ArmorPenFlat += SharpenedArmorPen
	}
	if s.Has(PerkAttuned) {
		stats.MagicPenFlat += AttunedMagicPen
	}
	if s.Has(PerkBulwark) {
		stats.BlockPct += BulwarkBlockPct
	}
	if s.Has(PerkHardened) {
		stats.Armor += HardenedArmor
	}
	if s.Has(PerkArcaneFlux) {
		stats.CritMultiplier = stats.EffectiveCritMultiplier() + ArcaneFluxCritMultiplier
	}
	return stats
}

// ExecutionerMultiplier returns the damage multiplier against a target at
// targetHealthPct.
func (s Set) ExecutionerMultiplier(targetHealthPct float64) float64 {
	if !s.Has(PerkExecutioner) || targetHealthPct >= ExecutionerThresholdPct {
		return 1
	}
	return 1 + ExecutionerBonus
}
