package config

import (
	"fmt"
	"io/fs"
	"path"

	"gopkg.in/yaml.v3"

	"idle-battle-sim/internal/apl"
)

// Resource declares a resource pool.
type Resource struct {
	ID    string  `yaml:"id" json:"id"`
	Max   float64 `yaml:"max" json:"max"`
	Start float64 `yaml:"start" json:"start,omitempty"`
}

// AutoAttack configures the attack track.
type AutoAttack struct {
	IntervalSeconds float64 `yaml:"interval_seconds" json:"interval_seconds"`
	BaseDamage      float64 `yaml:"base_damage" json:"base_damage,omitempty"`
	APCoefficient   float64 `yaml:"ap_coefficient" json:"ap_coefficient,omitempty"`
	SPCoefficient   float64 `yaml:"sp_coefficient" json:"sp_coefficient,omitempty"`
	DamageType      string  `yaml:"damage_type" json:"damage_type,omitempty"`
}

// Buff is a buff definition as written in YAML.
type Buff struct {
	ID              string  `yaml:"id" json:"id"`
	DurationSeconds float64 `yaml:"duration_seconds" json:"duration_seconds"`
	MaxStacks       int     `yaml:"max_stacks" json:"max_stacks,omitempty"`
	Policy          string  `yaml:"policy" json:"policy,omitempty" jsonschema:"enum=refresh,enum=stack,enum=extend"`
	PandemicRatio   float64 `yaml:"pandemic_ratio" json:"pandemic_ratio,omitempty"`

	HasteAdditive       float64 `yaml:"haste_additive" json:"haste_additive,omitempty"`
	HasteMultiplicative float64 `yaml:"haste_multiplicative" json:"haste_multiplicative,omitempty"`

	Periodic             string  `yaml:"periodic" json:"periodic,omitempty" jsonschema:"enum=none,enum=damage,enum=resource"`
	TickIntervalSeconds  float64 `yaml:"tick_interval_seconds" json:"tick_interval_seconds,omitempty"`
	TickValue            float64 `yaml:"tick_value" json:"tick_value,omitempty"`
	TickAPCoefficient    float64 `yaml:"tick_ap_coefficient" json:"tick_ap_coefficient,omitempty"`
	TickSPCoefficient    float64 `yaml:"tick_sp_coefficient" json:"tick_sp_coefficient,omitempty"`
	TickResource         string  `yaml:"tick_resource" json:"tick_resource,omitempty"`
	TickDamageType       string  `yaml:"tick_damage_type" json:"tick_damage_type,omitempty"`
	HasteAffectsPeriodic bool    `yaml:"haste_affects_periodic" json:"haste_affects_periodic,omitempty"`
	TriggersOnHit        bool    `yaml:"triggers_on_hit" json:"triggers_on_hit,omitempty"`

	PhysicalBonus float64 `yaml:"physical_bonus" json:"physical_bonus,omitempty"`
	MagicBonus    float64 `yaml:"magic_bonus" json:"magic_bonus,omitempty"`
	TrueBonus     float64 `yaml:"true_bonus" json:"true_bonus,omitempty"`

	ArmorPenFlat float64 `yaml:"armor_pen_flat" json:"armor_pen_flat,omitempty"`
	ArmorPenPct  float64 `yaml:"armor_pen_pct" json:"armor_pen_pct,omitempty"`
	MagicPenFlat float64 `yaml:"magic_pen_flat" json:"magic_pen_flat,omitempty"`
	MagicPenPct  float64 `yaml:"magic_pen_pct" json:"magic_pen_pct,omitempty"`

	CritChanceBonus     float64 `yaml:"crit_chance_bonus" json:"crit_chance_bonus,omitempty"`
	CritMultiplierBonus float64 `yaml:"crit_multiplier_bonus" json:"crit_multiplier_bonus,omitempty"`
}

// Skill is a skill definition as written in YAML.
type Skill struct {
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name,omitempty"`
	Priority int    `yaml:"priority" json:"priority"`

	Resource     string  `yaml:"resource" json:"resource,omitempty"`
	Cost         float64 `yaml:"cost" json:"cost,omitempty"`
	Gain         float64 `yaml:"gain" json:"gain,omitempty"`
	GainResource string  `yaml:"gain_resource" json:"gain_resource,omitempty"`

	CooldownSeconds      float64 `yaml:"cooldown_seconds" json:"cooldown_seconds,omitempty"`
	HasteAffectsCooldown bool    `yaml:"haste_affects_cooldown" json:"haste_affects_cooldown,omitempty"`
	Charges              int     `yaml:"charges" json:"charges,omitempty"`
	RechargeSeconds      float64 `yaml:"recharge_seconds" json:"recharge_seconds,omitempty"`
	HasteAffectsRecharge bool    `yaml:"haste_affects_recharge" json:"haste_affects_recharge,omitempty"`

	BaseDamage    float64  `yaml:"base_damage" json:"base_damage,omitempty"`
	APCoefficient float64  `yaml:"ap_coefficient" json:"ap_coefficient,omitempty"`
	SPCoefficient float64  `yaml:"sp_coefficient" json:"sp_coefficient,omitempty"`
	DamageType    string   `yaml:"damage_type" json:"damage_type,omitempty"`
	CritChance    *float64 `yaml:"crit_chance" json:"crit_chance,omitempty"`

	AoE                string `yaml:"aoe" json:"aoe,omitempty" jsonschema:"enum=none,enum=cleave_full,enum=split_even"`
	MaxTargets         int    `yaml:"max_targets" json:"max_targets,omitempty"`
	IncludePrimary     *bool  `yaml:"include_primary" json:"include_primary,omitempty"`
	RemainderToPrimary bool   `yaml:"remainder_to_primary" json:"remainder_to_primary,omitempty"`

	CastTimeSeconds  float64 `yaml:"cast_time_seconds" json:"cast_time_seconds,omitempty"`
	HasteAffectsCast bool    `yaml:"haste_affects_cast" json:"haste_affects_cast,omitempty"`
	SpendAtStart     bool    `yaml:"spend_at_start" json:"spend_at_start,omitempty"`
	Interruptible    bool    `yaml:"interruptible" json:"interruptible,omitempty"`

	ApplyBuff string             `yaml:"apply_buff" json:"apply_buff,omitempty"`
	When      *apl.ConditionNode `yaml:"when" json:"-"`
}

// Profession is one professions/*.yaml file after its imports are merged.
type Profession struct {
	Name                   string             `yaml:"name" json:"name,omitempty"`
	Module                 string             `yaml:"module" json:"module,omitempty"`
	Imports                []string           `yaml:"imports" json:"imports,omitempty"`
	Variables              map[string]any     `yaml:"variables" json:"variables,omitempty"`
	Resources              []Resource         `yaml:"resources" json:"resources,omitempty"`
	AutoAttack             AutoAttack         `yaml:"auto_attack" json:"auto_attack"`
	SpecialIntervalSeconds float64            `yaml:"special_interval_seconds" json:"special_interval_seconds,omitempty"`
	Opener                 []string           `yaml:"opener" json:"opener,omitempty"`
	Params                 map[string]float64 `yaml:"params" json:"params,omitempty"`
	Buffs                  []Buff             `yaml:"buffs" json:"buffs,omitempty"`
	Skills                 []Skill            `yaml:"skills" json:"skills,omitempty"`
}

// ModuleName returns the profession module that runs this file.
func (p *Profession) ModuleName() string {
	if p.Module != "" {
		return p.Module
	}
	return p.Name
}

// LoadProfession loads a profession file, resolving imports relative to the
// importing file. Imported content comes first; entries redefined by the
// importing file replace the imported ones in place.
func LoadProfession(fsys fs.FS, name string) (*Profession, error) {
	seen := map[string]bool{}
	return loadRecursive(fsys, name, seen)
}

func loadRecursive(fsys fs.FS, name string, seen map[string]bool) (*Profession, error) {
	normalized := path.Clean(name)
	if seen[normalized] {
		return nil, fmt.Errorf("%w: profession import cycle detected at %s", ErrInvalidConfig, normalized)
	}
	seen[normalized] = true

	data, err := fs.ReadFile(fsys, normalized)
	if err != nil {
		return nil, err
	}
	var file Profession
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", normalized, err)
	}

	merged := &Profession{}
	for _, imp := range file.Imports {
		child, err := loadRecursive(fsys, path.Join(path.Dir(normalized), imp), seen)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", normalized, err)
		}
		merged.merge(child)
	}
	merged.merge(&file)
	merged.Name = file.Name
	merged.Module = file.Module
	merged.Imports = file.Imports

	seen[normalized] = false
	return merged, nil
}

// merge layers other on top of p.
func (p *Profession) merge(other *Profession) {
	if len(other.Variables) > 0 && p.Variables == nil {
		p.Variables = make(map[string]any, len(other.Variables))
	}
	for k, v := range other.Variables {
		p.Variables[k] = v
	}
	if len(other.Params) > 0 && p.Params == nil {
		p.Params = make(map[string]float64, len(other.Params))
	}
	for k, v := range other.Params {
		p.Params[k] = v
	}
	if other.AutoAttack.IntervalSeconds > 0 {
		p.AutoAttack = other.AutoAttack
	}
	if other.SpecialIntervalSeconds > 0 {
		p.SpecialIntervalSeconds = other.SpecialIntervalSeconds
	}
	p.Opener = append(p.Opener, other.Opener...)
	p.Resources = upsert(p.Resources, other.Resources, func(r Resource) string { return r.ID })
	p.Buffs = upsert(p.Buffs, other.Buffs, func(b Buff) string { return b.ID })
	p.Skills = upsert(p.Skills, other.Skills, func(s Skill) string { return s.ID })
}

func upsert[T any](dst, src []T, id func(T) string) []T {
	for _, item := range src {
		replaced := false
		for i := range dst {
			if id(dst[i]) == id(item) {
				dst[i] = item
				replaced = true
				break
			}
		}
		if !replaced {
			dst = append(dst, item)
		}
	}
	return dst
}
