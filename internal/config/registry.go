package config

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"idle-battle-sim/internal/apl"
	"idle-battle-sim/internal/character"
	"idle-battle-sim/internal/combatant"
	"idle-battle-sim/internal/effects"
	"idle-battle-sim/internal/perks"
	"idle-battle-sim/internal/profession"
	"idle-battle-sim/internal/skills"
)

// Registry is the read-only snapshot of profession kits, enemies and groups
// shared by every battle. It is built once and never mutated afterwards.
type Registry struct {
	kits    map[string]*profession.Kit
	modules map[string]string
	enemies map[string]*combatant.EnemyDefinition
	groups  map[string][]*combatant.EnemyDefinition
}

// Registry converts the loaded files into domain definitions. Conditions are
// compiled here so every battle shares the same immutable trees.
func (cfg *Config) Registry() (*Registry, error) {
	r := &Registry{
		kits:    make(map[string]*profession.Kit, len(cfg.Professions)),
		modules: make(map[string]string, len(cfg.Professions)),
		enemies: make(map[string]*combatant.EnemyDefinition, len(cfg.Enemies.Enemies)),
		groups:  make(map[string][]*combatant.EnemyDefinition, len(cfg.Enemies.Groups)),
	}
	for name, prof := range cfg.Professions {
		kit, err := buildKit(prof)
		if err != nil {
			return nil, fmt.Errorf("profession %s: %w", name, err)
		}
		r.kits[name] = kit
		r.modules[name] = prof.ModuleName()
	}
	for i := range cfg.Enemies.Enemies {
		def, err := buildEnemy(&cfg.Enemies.Enemies[i])
		if err != nil {
			return nil, err
		}
		r.enemies[def.ID] = def
	}
	for _, g := range cfg.Enemies.Groups {
		members := make([]*combatant.EnemyDefinition, 0, len(g.Members))
		for _, id := range g.Members {
			def, ok := r.enemies[id]
			if !ok {
				return nil, fmt.Errorf("group %s: %w: %s", g.ID, ErrUnknownEnemy, id)
			}
			members = append(members, def)
		}
		r.groups[g.ID] = members
	}
	return r, nil
}

// Kit returns the kit and module name of a profession.
func (r *Registry) Kit(name string) (*profession.Kit, string, bool) {
	kit, ok := r.kits[name]
	return kit, r.modules[name], ok
}

// Module builds a profession module for one battle.
func (r *Registry) Module(name string, equipped perks.Set) (profession.Module, error) {
	kit, module, ok := r.Kit(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", profession.ErrUnknownProfession, name)
	}
	return profession.New(module, kit, equipped)
}

// Enemy returns an enemy definition.
func (r *Registry) Enemy(id string) (*combatant.EnemyDefinition, error) {
	def, ok := r.enemies[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEnemy, id)
	}
	return def, nil
}

// Group returns the member definitions of an encounter group.
func (r *Registry) Group(id string) ([]*combatant.EnemyDefinition, error) {
	members, ok := r.groups[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGroup, id)
	}
	return append([]*combatant.EnemyDefinition(nil), members...), nil
}

// ProfessionNames returns every configured profession in sorted order.
func (r *Registry) ProfessionNames() []string {
	return sortedKeys(r.kits)
}

// EnemyIDs returns every enemy id in sorted order.
func (r *Registry) EnemyIDs() []string {
	return sortedKeys(r.enemies)
}

// GroupIDs returns every group id in sorted order.
func (r *Registry) GroupIDs() []string {
	return sortedKeys(r.groups)
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Character builds the player character sheet with perks folded in.
func (cfg *Config) Character() *character.Character {
	p := cfg.Player
	id, err := uuid.Parse(p.Character.ID)
	if err != nil {
		id = uuid.NewSHA1(uuid.NameSpaceOID, []byte("idle-battle-sim/"+p.Character.Name))
	}
	s := p.Stats
	stats := character.Stats{
		Level:          p.Character.Level,
		MaxHP:          s.MaxHP,
		AttackPower:    s.AttackPower,
		SpellPower:     s.SpellPower,
		CritPct:        s.CritPercent,
		CritMultiplier: s.CritMultiplier,
		HastePct:       s.HastePercent,
		Armor:          s.Armor,
		BlockPct:       s.BlockPercent,
		MagicResist:    s.MagicResist,
		ArmorPenFlat:   s.ArmorPenFlat,
		ArmorPenPct:    s.ArmorPenFraction,
		MagicPenFlat:   s.MagicPenFlat,
		MagicPenPct:    s.MagicPenFraction,
	}
	stats = cfg.Perks().ApplyStats(stats)
	char := character.NewCharacter(id, p.Character.Name, stats)
	char.Profession = p.Character.Profession
	return char
}

// Perks returns the validated perk selection of the player.
func (cfg *Config) Perks() perks.Set {
	out := make(perks.Set, len(cfg.Player.Perks.active))
	for name := range cfg.Player.Perks.active {
		out[name] = struct{}{}
	}
	return out
}

func buildKit(p *Profession) (*profession.Kit, error) {
	kit := &profession.Kit{
		Name:            p.Name,
		SpecialInterval: p.SpecialIntervalSeconds,
		Opener:          append([]string(nil), p.Opener...),
		Params:          make(map[string]float64, len(p.Params)),
	}
	for k, v := range p.Params {
		kit.Params[k] = v
	}

	dmg, err := character.ParseDamageType(p.AutoAttack.DamageType)
	if err != nil {
		return nil, fmt.Errorf("auto_attack: %w", err)
	}
	kit.AutoAttack = profession.AutoAttack{
		Interval:      p.AutoAttack.IntervalSeconds,
		BaseDamage:    p.AutoAttack.BaseDamage,
		APCoefficient: p.AutoAttack.APCoefficient,
		SPCoefficient: p.AutoAttack.SPCoefficient,
		DamageType:    dmg,
	}

	resourceIDs := make([]string, 0, len(p.Resources))
	for _, res := range p.Resources {
		kit.Resources = append(kit.Resources, profession.Resource{ID: res.ID, Max: res.Max, Start: res.Start})
		resourceIDs = append(resourceIDs, res.ID)
	}

	buffIDs := make([]string, 0, len(p.Buffs))
	for i := range p.Buffs {
		def, err := buildBuff(&p.Buffs[i])
		if err != nil {
			return nil, err
		}
		kit.Buffs = append(kit.Buffs, def)
		buffIDs = append(buffIDs, def.ID)
	}

	skillIDs := make([]string, 0, len(p.Skills))
	for _, s := range p.Skills {
		skillIDs = append(skillIDs, s.ID)
	}
	names := apl.NewNames(skillIDs, buffIDs, resourceIDs)
	for i := range p.Skills {
		def, err := buildSkill(&p.Skills[i], p.Variables, names)
		if err != nil {
			return nil, err
		}
		kit.Skills = append(kit.Skills, def)
	}
	return kit, nil
}

func buildBuff(b *Buff) (*effects.BuffDefinition, error) {
	policy, err := effects.ParseStackPolicy(b.Policy)
	if err != nil {
		return nil, fmt.Errorf("buff %s: %w", b.ID, err)
	}
	periodic, err := effects.ParsePeriodicKind(b.Periodic)
	if err != nil {
		return nil, fmt.Errorf("buff %s: %w", b.ID, err)
	}
	tickType, err := character.ParseDamageType(b.TickDamageType)
	if err != nil {
		return nil, fmt.Errorf("buff %s: %w", b.ID, err)
	}
	def := &effects.BuffDefinition{
		ID:                   b.ID,
		Duration:             b.DurationSeconds,
		MaxStacks:            b.MaxStacks,
		Policy:               policy,
		PandemicRatio:        b.PandemicRatio,
		HasteAdditive:        b.HasteAdditive,
		HasteMultiplicative:  b.HasteMultiplicative,
		Periodic:             periodic,
		TickInterval:         b.TickIntervalSeconds,
		TickValue:            b.TickValue,
		TickAPCoefficient:    b.TickAPCoefficient,
		TickSPCoefficient:    b.TickSPCoefficient,
		TickResource:         b.TickResource,
		TickDamageType:       tickType,
		HasteAffectsPeriodic: b.HasteAffectsPeriodic,
		TriggersOnHit:        b.TriggersOnHit,
		PhysicalBonus:        b.PhysicalBonus,
		MagicBonus:           b.MagicBonus,
		TrueBonus:            b.TrueBonus,
		ArmorPenFlat:         b.ArmorPenFlat,
		ArmorPenPct:          b.ArmorPenPct,
		MagicPenFlat:         b.MagicPenFlat,
		MagicPenPct:          b.MagicPenPct,
		CritChanceBonus:      b.CritChanceBonus,
		CritMultiplierBonus:  b.CritMultiplierBonus,
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

func buildSkill(s *Skill, vars map[string]any, names apl.Names) (*skills.Definition, error) {
	dmg, err := character.ParseDamageType(s.DamageType)
	if err != nil {
		return nil, fmt.Errorf("skill %s: %w", s.ID, err)
	}
	aoe, err := skills.ParseAoEMode(s.AoE)
	if err != nil {
		return nil, fmt.Errorf("skill %s: %w", s.ID, err)
	}
	when, err := apl.Compile(s.When, vars, names)
	if err != nil {
		return nil, fmt.Errorf("skill %s: when: %w", s.ID, err)
	}
	includePrimary := true
	if s.IncludePrimary != nil {
		includePrimary = *s.IncludePrimary
	}
	def := &skills.Definition{
		ID:                   s.ID,
		Name:                 s.Name,
		Priority:             s.Priority,
		Resource:             s.Resource,
		Cost:                 s.Cost,
		Gain:                 s.Gain,
		GainResource:         s.GainResource,
		Cooldown:             s.CooldownSeconds,
		HasteAffectsCooldown: s.HasteAffectsCooldown,
		Charges:              s.Charges,
		Recharge:             s.RechargeSeconds,
		HasteAffectsRecharge: s.HasteAffectsRecharge,
		BaseDamage:           s.BaseDamage,
		APCoefficient:        s.APCoefficient,
		SPCoefficient:        s.SPCoefficient,
		DamageType:           dmg,
		CritChance:           s.CritChance,
		AoE:                  aoe,
		MaxTargets:           s.MaxTargets,
		IncludePrimary:       includePrimary,
		RemainderToPrimary:   s.RemainderToPrimary,
		CastTime:             s.CastTimeSeconds,
		HasteAffectsCast:     s.HasteAffectsCast,
		SpendAtStart:         s.SpendAtStart,
		Interruptible:        s.Interruptible,
		ApplyBuff:            s.ApplyBuff,
		When:                 when,
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}

func buildEnemy(e *Enemy) (*combatant.EnemyDefinition, error) {
	dmg, err := character.ParseDamageType(e.DamageType)
	if err != nil {
		return nil, fmt.Errorf("enemy %s: %w", e.ID, err)
	}
	weight := 1.0
	if e.ThreatWeight != nil {
		weight = *e.ThreatWeight
	}
	return &combatant.EnemyDefinition{
		ID:              e.ID,
		Name:            e.Name,
		Level:           e.Level,
		MaxHP:           e.MaxHP,
		Armor:           e.Armor,
		MagicResist:     e.MagicResist,
		AttackDamage:    e.AttackDamage,
		AttackInterval:  e.AttackIntervalSeconds,
		DamageType:      dmg,
		ThreatWeight:    weight,
		InterruptChance: e.InterruptChance,
	}, nil
}
