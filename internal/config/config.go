package config

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrUnknownEnemy  = errors.New("unknown enemy")
	ErrUnknownGroup  = errors.New("unknown enemy group")
)

//go:embed defaults
var defaultFS embed.FS

// SegmentSettings bounds segment size.
type SegmentSettings struct {
	MaxEvents          int     `yaml:"max_events" json:"max_events"`
	MaxDurationSeconds float64 `yaml:"max_duration_seconds" json:"max_duration_seconds"`
}

// SliceSettings bounds each AdvanceTo slice.
type SliceSettings struct {
	MaxEventsPerSlice int     `yaml:"max_events_per_slice" json:"max_events_per_slice"`
	MaxSliceSeconds   float64 `yaml:"max_slice_seconds" json:"max_slice_seconds"`
}

// ReviveSettings controls player auto revive.
type ReviveSettings struct {
	Enabled      bool    `yaml:"enabled" json:"enabled"`
	DelaySeconds float64 `yaml:"delay_seconds" json:"delay_seconds"`
	HPFraction   float64 `yaml:"hp_fraction" json:"hp_fraction"`
}

// Engine holds engine.yaml.
type Engine struct {
	Segments         SegmentSettings `yaml:"segments" json:"segments"`
	Slicing          SliceSettings   `yaml:"slicing" json:"slicing"`
	ProcPulseSeconds float64         `yaml:"proc_pulse_seconds" json:"proc_pulse_seconds"`
	Revive           ReviveSettings  `yaml:"revive" json:"revive"`
}

// Enemy is one entry of enemies.yaml.
type Enemy struct {
	ID                    string   `yaml:"id" json:"id"`
	Name                  string   `yaml:"name" json:"name,omitempty"`
	Level                 int      `yaml:"level" json:"level"`
	MaxHP                 int64    `yaml:"max_hp" json:"max_hp"`
	Armor                 float64  `yaml:"armor" json:"armor,omitempty"`
	MagicResist           float64  `yaml:"magic_resist" json:"magic_resist,omitempty"`
	AttackDamage          float64  `yaml:"attack_damage" json:"attack_damage,omitempty"`
	AttackIntervalSeconds float64  `yaml:"attack_interval_seconds" json:"attack_interval_seconds,omitempty"`
	DamageType            string   `yaml:"damage_type" json:"damage_type,omitempty"`
	ThreatWeight          *float64 `yaml:"threat_weight" json:"threat_weight,omitempty"`
	InterruptChance       float64  `yaml:"interrupt_chance" json:"interrupt_chance,omitempty"`
}

// Group is a named encounter of several enemies.
type Group struct {
	ID      string   `yaml:"id" json:"id"`
	Members []string `yaml:"members" json:"members"`
}

// Enemies holds enemies.yaml.
type Enemies struct {
	Enemies []Enemy `yaml:"enemies" json:"enemies"`
	Groups  []Group `yaml:"groups" json:"groups,omitempty"`
}

// Stats is the character panel as written in player.yaml.
type Stats struct {
	MaxHP            int64   `yaml:"max_hp" json:"max_hp"`
	AttackPower      float64 `yaml:"attack_power" json:"attack_power,omitempty"`
	SpellPower       float64 `yaml:"spell_power" json:"spell_power,omitempty"`
	CritPercent      float64 `yaml:"crit_percent" json:"crit_percent,omitempty"`
	CritMultiplier   float64 `yaml:"crit_multiplier" json:"crit_multiplier,omitempty"`
	HastePercent     float64 `yaml:"haste_percent" json:"haste_percent,omitempty"`
	Armor            float64 `yaml:"armor" json:"armor,omitempty"`
	BlockPercent     float64 `yaml:"block_percent" json:"block_percent,omitempty"`
	MagicResist      float64 `yaml:"magic_resist" json:"magic_resist,omitempty"`
	ArmorPenFlat     float64 `yaml:"armor_pen_flat" json:"armor_pen_flat,omitempty"`
	ArmorPenFraction float64 `yaml:"armor_pen_fraction" json:"armor_pen_fraction,omitempty"`
	MagicPenFlat     float64 `yaml:"magic_pen_flat" json:"magic_pen_flat,omitempty"`
	MagicPenFraction float64 `yaml:"magic_pen_fraction" json:"magic_pen_fraction,omitempty"`
}

// PerkSlots lists perks per rarity.
type PerkSlots struct {
	Legendary []string `yaml:"legendary" json:"legendary,omitempty"`
	Epic      []string `yaml:"epic" json:"epic,omitempty"`
	Rare      []string `yaml:"rare" json:"rare,omitempty"`
}

// PerkLimits caps the number of perks per rarity. Zero means unlimited.
type PerkLimits struct {
	Legendary int `yaml:"legendary" json:"legendary,omitempty"`
	Epic      int `yaml:"epic" json:"epic,omitempty"`
	Rare      int `yaml:"rare" json:"rare,omitempty"`
}

// PerkConfig is the perk loadout of the player.
type PerkConfig struct {
	Limits   PerkLimits `yaml:"limits" json:"limits"`
	Equipped PerkSlots  `yaml:"equipped" json:"equipped"`

	active map[string]struct{}
}

// Player holds player.yaml.
type Player struct {
	Character struct {
		ID         string `yaml:"id" json:"id,omitempty"`
		Name       string `yaml:"name" json:"name"`
		Level      int    `yaml:"level" json:"level"`
		Profession string `yaml:"profession" json:"profession"`
	} `yaml:"character" json:"character"`
	Stats  Stats      `yaml:"stats" json:"stats"`
	Perks  PerkConfig `yaml:"perks" json:"perks"`
	Target struct {
		Enemy string `yaml:"enemy" json:"enemy,omitempty"`
		Group string `yaml:"group" json:"group,omitempty"`
	} `yaml:"target" json:"target"`
	Simulation struct {
		DurationSeconds float64 `yaml:"duration_seconds" json:"duration_seconds"`
		Iterations      int     `yaml:"iterations" json:"iterations"`
		Seed            uint64  `yaml:"seed" json:"seed"`
	} `yaml:"simulation" json:"simulation"`
}

// Config holds all configuration.
type Config struct {
	Engine      Engine
	Enemies     Enemies
	Player      Player
	Professions map[string]*Profession
}

// Load loads a config directory from disk.
func Load(dir string) (*Config, error) {
	return LoadFS(os.DirFS(dir))
}

// LoadDefaults loads the configuration embedded in the binary.
func LoadDefaults() (*Config, error) {
	sub, err := fs.Sub(defaultFS, "defaults")
	if err != nil {
		return nil, err
	}
	return LoadFS(sub)
}

// DefaultsFS exposes the embedded configuration tree.
func DefaultsFS() fs.FS {
	sub, _ := fs.Sub(defaultFS, "defaults")
	return sub
}

// LoadFS loads engine.yaml, enemies.yaml, player.yaml and every
// professions/*.yaml file from fsys, then validates the result.
func LoadFS(fsys fs.FS) (*Config, error) {
	cfg := &Config{}
	if err := readYAML(fsys, "engine.yaml", &cfg.Engine); err != nil {
		return nil, err
	}
	if err := readYAML(fsys, "enemies.yaml", &cfg.Enemies); err != nil {
		return nil, err
	}
	if err := readYAML(fsys, "player.yaml", &cfg.Player); err != nil {
		return nil, err
	}

	names, err := fs.Glob(fsys, "professions/*.yaml")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	cfg.Professions = make(map[string]*Profession, len(names))
	for _, name := range names {
		prof, err := LoadProfession(fsys, name)
		if err != nil {
			return nil, err
		}
		if prof.Name == "" {
			prof.Name = strings.TrimSuffix(path.Base(name), ".yaml")
		}
		if _, dup := cfg.Professions[prof.Name]; dup {
			return nil, fmt.Errorf("%w: profession %s defined twice", ErrInvalidConfig, prof.Name)
		}
		cfg.Professions[prof.Name] = prof
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readYAML(fsys fs.FS, name string, out any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Engine.ProcPulseSeconds <= 0 {
		cfg.Engine.ProcPulseSeconds = 1
	}
	if cfg.Engine.Slicing.MaxEventsPerSlice <= 0 {
		cfg.Engine.Slicing.MaxEventsPerSlice = 100_000
	}
	if cfg.Engine.Slicing.MaxSliceSeconds == 0 {
		cfg.Engine.Slicing.MaxSliceSeconds = 5
	}
	if cfg.Player.Simulation.Iterations <= 0 {
		cfg.Player.Simulation.Iterations = 1
	}
	if cfg.Player.Character.Level <= 0 {
		cfg.Player.Character.Level = 60
	}
}
