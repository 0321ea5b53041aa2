package config

import (
	"fmt"
	"regexp"

	"idle-battle-sim/internal/perks"
	"idle-battle-sim/internal/profession"
)

var idPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// minSliceSeconds is the smallest accepted max_slice_seconds.
const minSliceSeconds = 1e-3

func (cfg *Config) validate() error {
	if err := cfg.Engine.validate(); err != nil {
		return err
	}
	enemies, err := cfg.Enemies.validate()
	if err != nil {
		return err
	}
	for name, prof := range cfg.Professions {
		if err := prof.validate(); err != nil {
			return fmt.Errorf("%w: profession %s: %w", ErrInvalidConfig, name, err)
		}
	}
	return cfg.Player.validate(cfg, enemies)
}

func (e *Engine) validate() error {
	if e.Segments.MaxEvents < 0 || e.Segments.MaxDurationSeconds < 0 {
		return fmt.Errorf("%w: engine: segment limits must be >= 0", ErrInvalidConfig)
	}
	if s := e.Slicing.MaxSliceSeconds; s < minSliceSeconds {
		return fmt.Errorf("%w: engine: slicing.max_slice_seconds must be >= %g", ErrInvalidConfig, minSliceSeconds)
	}
	r := e.Revive
	if r.Enabled && (r.DelaySeconds < 0 || r.HPFraction < 0 || r.HPFraction > 1) {
		return fmt.Errorf("%w: engine: revive needs delay >= 0 and hp_fraction in [0,1]", ErrInvalidConfig)
	}
	return nil
}

func (e *Enemies) validate() (map[string]struct{}, error) {
	ids := make(map[string]struct{}, len(e.Enemies))
	for _, en := range e.Enemies {
		if !idPattern.MatchString(en.ID) {
			return nil, fmt.Errorf("%w: enemy id '%s' must be lowercase snake_case", ErrInvalidConfig, en.ID)
		}
		if _, dup := ids[en.ID]; dup {
			return nil, fmt.Errorf("%w: enemy '%s' defined more than once", ErrInvalidConfig, en.ID)
		}
		if en.MaxHP <= 0 {
			return nil, fmt.Errorf("%w: enemy '%s': max_hp must be > 0", ErrInvalidConfig, en.ID)
		}
		if en.AttackDamage > 0 && en.AttackIntervalSeconds <= 0 {
			return nil, fmt.Errorf("%w: enemy '%s': attacking enemies need attack_interval_seconds > 0", ErrInvalidConfig, en.ID)
		}
		if en.InterruptChance < 0 || en.InterruptChance > 1 {
			return nil, fmt.Errorf("%w: enemy '%s': interrupt_chance must be in [0,1]", ErrInvalidConfig, en.ID)
		}
		ids[en.ID] = struct{}{}
	}
	groups := make(map[string]struct{}, len(e.Groups))
	for _, g := range e.Groups {
		if _, dup := groups[g.ID]; dup {
			return nil, fmt.Errorf("%w: group '%s' defined more than once", ErrInvalidConfig, g.ID)
		}
		if len(g.Members) == 0 {
			return nil, fmt.Errorf("%w: group '%s' has no members", ErrInvalidConfig, g.ID)
		}
		for _, m := range g.Members {
			if _, ok := ids[m]; !ok {
				return nil, fmt.Errorf("%w: group '%s': unknown enemy '%s'", ErrInvalidConfig, g.ID, m)
			}
		}
		groups[g.ID] = struct{}{}
	}
	return ids, nil
}

func (p *Profession) validate() error {
	if !profession.Supported(p.ModuleName()) {
		return fmt.Errorf("%w: %s", profession.ErrUnknownProfession, p.ModuleName())
	}
	if p.AutoAttack.IntervalSeconds <= 0 {
		return fmt.Errorf("auto_attack.interval_seconds must be > 0")
	}
	check := func(kind, id string, seen map[string]struct{}) error {
		if !idPattern.MatchString(id) {
			return fmt.Errorf("%s id '%s' must be lowercase snake_case", kind, id)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%s '%s' defined more than once", kind, id)
		}
		seen[id] = struct{}{}
		return nil
	}
	resources := map[string]struct{}{}
	for _, r := range p.Resources {
		if err := check("resource", r.ID, resources); err != nil {
			return err
		}
	}
	buffs := map[string]struct{}{}
	for _, b := range p.Buffs {
		if err := check("buff", b.ID, buffs); err != nil {
			return err
		}
		if b.TickResource != "" {
			if _, ok := resources[b.TickResource]; !ok {
				return fmt.Errorf("buff '%s': unknown tick resource '%s'", b.ID, b.TickResource)
			}
		}
	}
	skillIDs := map[string]struct{}{}
	for _, s := range p.Skills {
		if err := check("skill", s.ID, skillIDs); err != nil {
			return err
		}
		for _, res := range []string{s.Resource, s.GainResource} {
			if res == "" {
				continue
			}
			if _, ok := resources[res]; !ok {
				return fmt.Errorf("skill '%s': unknown resource '%s'", s.ID, res)
			}
		}
		if s.ApplyBuff != "" {
			if _, ok := buffs[s.ApplyBuff]; !ok {
				return fmt.Errorf("skill '%s': unknown buff '%s'", s.ID, s.ApplyBuff)
			}
		}
	}
	for _, id := range p.Opener {
		if _, ok := buffs[id]; !ok {
			return fmt.Errorf("opener: unknown buff '%s'", id)
		}
	}
	return nil
}

func (p *Player) validate(cfg *Config, enemies map[string]struct{}) error {
	if p.Stats.MaxHP <= 0 {
		return fmt.Errorf("%w: player: stats.max_hp must be > 0", ErrInvalidConfig)
	}
	if p.Stats.ArmorPenFraction < 0 || p.Stats.ArmorPenFraction > 1 || p.Stats.MagicPenFraction < 0 || p.Stats.MagicPenFraction > 1 {
		return fmt.Errorf("%w: player: penetration fractions must be in [0,1]", ErrInvalidConfig)
	}
	if prof := p.Character.Profession; prof != "" {
		if _, ok := cfg.Professions[prof]; !ok {
			return fmt.Errorf("%w: player: %w: %s", ErrInvalidConfig, profession.ErrUnknownProfession, prof)
		}
	}
	if id := p.Target.Enemy; id != "" {
		if _, ok := enemies[id]; !ok {
			return fmt.Errorf("%w: player: %w: %s", ErrInvalidConfig, ErrUnknownEnemy, id)
		}
	}
	if id := p.Target.Group; id != "" {
		found := false
		for _, g := range cfg.Enemies.Groups {
			found = found || g.ID == id
		}
		if !found {
			return fmt.Errorf("%w: player: %w: %s", ErrInvalidConfig, ErrUnknownGroup, id)
		}
	}
	if p.Simulation.DurationSeconds < 0 {
		return fmt.Errorf("%w: player: simulation.duration_seconds must be >= 0", ErrInvalidConfig)
	}
	return validatePerks(&p.Perks)
}

func validatePerks(pc *PerkConfig) error {
	active := map[string]struct{}{}
	check := func(names []string, limit int, expected perks.Rarity) error {
		if limit > 0 && len(names) > limit {
			return fmt.Errorf("%w: perks: %s selections exceed limit (%d > %d)", ErrInvalidConfig, expected, len(names), limit)
		}
		for i, raw := range names {
			name := perks.Normalize(raw)
			names[i] = name
			rarity, ok := perks.RarityOf(name)
			if !ok {
				return fmt.Errorf("%w: perks: unknown perk '%s'", ErrInvalidConfig, raw)
			}
			if rarity != expected {
				return fmt.Errorf("%w: perks: perk '%s' is %s but listed under %s", ErrInvalidConfig, name, rarity, expected)
			}
			if _, dup := active[name]; dup {
				return fmt.Errorf("%w: perks: perk '%s' selected more than once", ErrInvalidConfig, name)
			}
			active[name] = struct{}{}
		}
		return nil
	}
	if err := check(pc.Equipped.Legendary, pc.Limits.Legendary, perks.RarityLegendary); err != nil {
		return err
	}
	if err := check(pc.Equipped.Epic, pc.Limits.Epic, perks.RarityEpic); err != nil {
		return err
	}
	if err := check(pc.Equipped.Rare, pc.Limits.Rare, perks.RarityRare); err != nil {
		return err
	}
	pc.active = active
	return nil
}
