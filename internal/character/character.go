package character

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// DamageType identifies how damage interacts with mitigation.
type DamageType int

const (
	DamagePhysical DamageType = iota
	DamageMagic
	DamageTrue
)

func (d DamageType) String() string {
	switch d {
	case DamagePhysical:
		return "physical"
	case DamageMagic:
		return "magic"
	case DamageTrue:
		return "true"
	default:
		return fmt.Sprintf("damage_type(%d)", int(d))
	}
}

// ParseDamageType converts a config string into a DamageType.
func ParseDamageType(s string) (DamageType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "physical":
		return DamagePhysical, nil
	case "magic", "magical":
		return DamageMagic, nil
	case "true", "pure":
		return DamageTrue, nil
	default:
		return 0, fmt.Errorf("unknown damage type '%s'", s)
	}
}

// Stats represents a character panel.
type Stats struct {
	Level          int
	MaxHP          int64
	AttackPower    float64
	SpellPower     float64
	CritPct        float64 // Percentage (e.g., 25.5 for 25.5%)
	CritMultiplier float64 // 0 means the default of 2.0
	HastePct       float64 // Percentage
	Armor          float64
	BlockPct       float64 // Percentage
	MagicResist    float64

	ArmorPenFlat float64
	ArmorPenPct  float64 // Fraction in [0,1]
	MagicPenFlat float64
	MagicPenPct  float64 // Fraction in [0,1]
}

// DefaultCritMultiplier applies when a panel does not set one.
const DefaultCritMultiplier = 2.0

// HasteFactor returns the panel haste as a multiplier (1 = no haste).
func (s Stats) HasteFactor() float64 {
	return 1 + s.HastePct/100.0
}

// CritChance returns the panel crit chance as a probability.
func (s Stats) CritChance() float64 {
	return s.CritPct / 100.0
}

// EffectiveCritMultiplier returns the crit multiplier with the default applied.
func (s Stats) EffectiveCritMultiplier() float64 {
	if s.CritMultiplier <= 0 {
		return DefaultCritMultiplier
	}
	return s.CritMultiplier
}

// Pool is one named resource (rage, mana, energy...).
type Pool struct {
	Current float64
	Max     float64
}

// Resources tracks the current value of every resource pool.
type Resources struct {
	pools map[string]*Pool
}

// NewResources returns an empty resource set.
func NewResources() *Resources {
	return &Resources{pools: make(map[string]*Pool)}
}

// Define adds or replaces a pool.
func (r *Resources) Define(id string, max, start float64) {
	if start > max {
		start = max
	}
	if start < 0 {
		start = 0
	}
	r.pools[id] = &Pool{Current: start, Max: max}
}

// Has reports whether the pool exists.
func (r *Resources) Has(id string) bool {
	_, ok := r.pools[id]
	return ok
}

// Current returns the current value of a pool (0 if unknown).
func (r *Resources) Current(id string) float64 {
	if p, ok := r.pools[id]; ok {
		return p.Current
	}
	return 0
}

// Max returns the cap of a pool (0 if unknown).
func (r *Resources) Max(id string) float64 {
	if p, ok := r.pools[id]; ok {
		return p.Max
	}
	return 0
}

// Percent returns the pool fill level in 0-100.
func (r *Resources) Percent(id string) float64 {
	p, ok := r.pools[id]
	if !ok || p.Max <= 0 {
		return 0
	}
	return p.Current / p.Max * 100.0
}

// CanAfford checks whether cost can be paid. Costless checks always pass.
func (r *Resources) CanAfford(id string, cost float64) bool {
	if cost <= 0 || id == "" {
		return true
	}
	return r.Current(id) >= cost
}

// Spend deducts cost and returns the amount actually deducted.
func (r *Resources) Spend(id string, cost float64) float64 {
	p, ok := r.pools[id]
	if !ok || cost <= 0 {
		return 0
	}
	if cost > p.Current {
		cost = p.Current
	}
	p.Current -= cost
	return cost
}

// Gain adds amount (negative drains) clamped to the pool bounds and returns
// the applied delta.
func (r *Resources) Gain(id string, amount float64) float64 {
	p, ok := r.pools[id]
	if !ok || amount == 0 {
		return 0
	}
	before := p.Current
	p.Current += amount
	if p.Current > p.Max {
		p.Current = p.Max
	}
	if p.Current < 0 {
		p.Current = 0
	}
	return p.Current - before
}

// IDs returns the pool ids in sorted order.
func (r *Resources) IDs() []string {
	ids := make([]string, 0, len(r.pools))
	for id := range r.pools {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Character represents the player character sheet.
type Character struct {
	ID         uuid.UUID
	Name       string
	Profession string
	Stats      Stats
	Resources  *Resources
}

// NewCharacter creates a character with the given panel and no resources.
func NewCharacter(id uuid.UUID, name string, stats Stats) *Character {
	return &Character{
		ID:        id,
		Name:      name,
		Stats:     stats,
		Resources: NewResources(),
	}
}
