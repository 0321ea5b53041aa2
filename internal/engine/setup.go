package engine

import (
	"fmt"

	"idle-battle-sim/internal/combatant"
	"idle-battle-sim/internal/config"
	"idle-battle-sim/internal/rng"
	"idle-battle-sim/internal/segments"
)

// NewBattleConfig builds a battle from a loaded configuration. A zero seed
// is derived from the character id so repeated runs stay reproducible.
func NewBattleConfig(cfg *config.Config, reg *config.Registry) (BattleConfig, error) {
	char := cfg.Character()
	module, err := reg.Module(char.Profession, cfg.Perks())
	if err != nil {
		return BattleConfig{}, err
	}
	bc := BattleConfig{
		Character: char,
		Module:    module,
		Seed:      cfg.Player.Simulation.Seed,
		Duration:  cfg.Player.Simulation.DurationSeconds,
		Segments: segments.Limits{
			MaxEvents:   cfg.Engine.Segments.MaxEvents,
			MaxDuration: cfg.Engine.Segments.MaxDurationSeconds,
		},
		MaxEventsPerSlice: cfg.Engine.Slicing.MaxEventsPerSlice,
		MaxSliceSeconds:   cfg.Engine.Slicing.MaxSliceSeconds,
		ProcPulse:         cfg.Engine.ProcPulseSeconds,
		Revive: combatant.ReviveSettings{
			Enabled:    cfg.Engine.Revive.Enabled,
			Delay:      cfg.Engine.Revive.DelaySeconds,
			HPFraction: cfg.Engine.Revive.HPFraction,
		},
	}
	if bc.Seed == 0 {
		bc.Seed = rng.DeriveSeed(char.ID, "battle")
	}
	target := cfg.Player.Target
	if target.Group != "" {
		group, err := reg.Group(target.Group)
		if err != nil {
			return BattleConfig{}, err
		}
		bc.Group = group
		bc.GroupID = target.Group
	}
	if target.Enemy != "" {
		def, err := reg.Enemy(target.Enemy)
		if err != nil {
			return BattleConfig{}, err
		}
		bc.Enemy = def
	}
	return bc, nil
}

// IterationConfigs returns n battle configs that differ only by seed
// (seed, seed+1, ...). Each one gets its own profession module.
func IterationConfigs(cfg *config.Config, reg *config.Registry, n int) ([]BattleConfig, error) {
	if n <= 0 {
		n = 1
	}
	out := make([]BattleConfig, 0, n)
	for i := range n {
		bc, err := NewBattleConfig(cfg, reg)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: %w", i, err)
		}
		bc.Seed += uint64(i)
		out = append(out, bc)
	}
	return out, nil
}
