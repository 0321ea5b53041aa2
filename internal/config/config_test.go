package config

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"idle-battle-sim/internal/profession"
)

const (
	testEngine = `
segments: {max_events: 50, max_duration_seconds: 2}
revive: {enabled: true, delay_seconds: 3, hp_fraction: 0.5}
`
	testEnemies = `
enemies:
  - {id: dummy, level: 60, max_hp: 1000}
  - {id: wolf, level: 60, max_hp: 300, attack_damage: 10, attack_interval_seconds: 2}
groups:
  - {id: pack, members: [wolf, wolf]}
`
	testPlayer = `
character: {name: Tester, profession: basic}
stats: {max_hp: 1000, attack_power: 100}
target: {enemy: dummy}
simulation: {duration_seconds: 10, seed: 7}
`
	testBasic = `
name: basic
auto_attack: {interval_seconds: 2, base_damage: 10}
`
)

func testFS(overrides map[string]string) fstest.MapFS {
	files := map[string]string{
		"engine.yaml":            testEngine,
		"enemies.yaml":           testEnemies,
		"player.yaml":            testPlayer,
		"professions/basic.yaml": testBasic,
	}
	for k, v := range overrides {
		files[k] = v
	}
	fsys := fstest.MapFS{}
	for name, data := range files {
		if data == "" {
			continue
		}
		fsys[name] = &fstest.MapFile{Data: []byte(data)}
	}
	return fsys
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadDefaults()
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	for _, name := range []string{"warrior", "mage"} {
		if _, ok := cfg.Professions[name]; !ok {
			t.Fatalf("missing profession %s", name)
		}
	}
	warrior := cfg.Professions["warrior"]
	if warrior.Buffs[0].ID != "haste_potion" || warrior.Skills[0].ID != "haste_potion" {
		t.Fatalf("imported entries should come first, got buff %s skill %s", warrior.Buffs[0].ID, warrior.Skills[0].ID)
	}
	if cfg.Engine.Segments.MaxEvents != 200 || cfg.Engine.Segments.MaxDurationSeconds != 5 {
		t.Fatalf("unexpected segment settings %+v", cfg.Engine.Segments)
	}
	if cfg.Player.Simulation.Seed != 12345 || cfg.Player.Target.Enemy != "dummy" {
		t.Fatalf("unexpected player settings %+v", cfg.Player.Simulation)
	}
	if !cfg.Perks().Has("executioner") {
		t.Fatalf("expected executioner to be equipped")
	}
}

func TestRegistryFromDefaults(t *testing.T) {
	cfg, err := LoadDefaults()
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	reg, err := cfg.Registry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	if got := reg.ProfessionNames(); strings.Join(got, ",") != "mage,warrior" {
		t.Fatalf("unexpected professions %v", got)
	}
	kit, module, ok := reg.Kit("warrior")
	if !ok || module != "warrior" {
		t.Fatalf("warrior kit missing (module %q)", module)
	}
	if len(kit.Skills) != 8 {
		t.Fatalf("expected 8 warrior skills, got %d", len(kit.Skills))
	}
	if kit.Param("rage_per_hit", 0) != 8 {
		t.Fatalf("rage_per_hit param not carried")
	}
	if _, err := reg.Module("warrior", cfg.Perks()); err != nil {
		t.Fatalf("module: %v", err)
	}
	members, err := reg.Group("goblin_pack")
	if err != nil || len(members) != 3 {
		t.Fatalf("group goblin_pack: %v (%d members)", err, len(members))
	}
	if _, err := reg.Enemy("nope"); !errors.Is(err, ErrUnknownEnemy) {
		t.Fatalf("expected ErrUnknownEnemy, got %v", err)
	}
	if _, err := reg.Group("nope"); !errors.Is(err, ErrUnknownGroup) {
		t.Fatalf("expected ErrUnknownGroup, got %v", err)
	}
	if _, err := reg.Module("rogue", cfg.Perks()); !errors.Is(err, profession.ErrUnknownProfession) {
		t.Fatalf("expected ErrUnknownProfession, got %v", err)
	}
}

func TestCharacterIDIsStable(t *testing.T) {
	cfg, err := LoadFS(testFS(nil))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	a, b := cfg.Character(), cfg.Character()
	if a.ID != b.ID {
		t.Fatalf("derived character id should be stable: %s != %s", a.ID, b.ID)
	}
	if a.Stats.Level != 60 {
		t.Fatalf("expected default level 60, got %d", a.Stats.Level)
	}

	cfg.Player.Character.ID = "3f2504e0-4f89-11d3-9a0c-0305e82c3301"
	if got := cfg.Character().ID.String(); got != cfg.Player.Character.ID {
		t.Fatalf("explicit id ignored: %s", got)
	}
}

func TestLoadFSAppliesDefaults(t *testing.T) {
	cfg, err := LoadFS(testFS(nil))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Engine.ProcPulseSeconds != 1 || cfg.Engine.Slicing.MaxEventsPerSlice != 100_000 {
		t.Fatalf("engine defaults not applied: %+v", cfg.Engine)
	}
	if cfg.Player.Simulation.Iterations != 1 {
		t.Fatalf("iterations default not applied")
	}
}

func TestProfessionImports(t *testing.T) {
	fsys := testFS(map[string]string{
		"professions/basic.yaml": `
name: basic
imports: [shared/base.yaml]
resources: [{id: energy, max: 50}]
skills:
  - {id: jab, priority: 1, base_damage: 20}
`,
		"professions/shared/base.yaml": `
auto_attack: {interval_seconds: 3}
resources: [{id: energy, max: 100}]
skills:
  - {id: jab, priority: 5}
  - {id: kick, priority: 2}
`,
	})
	cfg, err := LoadFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p := cfg.Professions["basic"]
	if p.AutoAttack.IntervalSeconds != 3 {
		t.Fatalf("imported auto attack lost: %+v", p.AutoAttack)
	}
	if len(p.Resources) != 1 || p.Resources[0].Max != 50 {
		t.Fatalf("importing file should override resource: %+v", p.Resources)
	}
	if len(p.Skills) != 2 || p.Skills[0].ID != "jab" || p.Skills[0].Priority != 1 || p.Skills[1].ID != "kick" {
		t.Fatalf("unexpected merged skills %+v", p.Skills)
	}
}

func TestProfessionImportCycle(t *testing.T) {
	fsys := testFS(map[string]string{
		"professions/basic.yaml": `
name: basic
imports: [shared/a.yaml]
auto_attack: {interval_seconds: 2}
`,
		"professions/shared/a.yaml": "imports: [b.yaml]\n",
		"professions/shared/b.yaml": "imports: [a.yaml]\n",
	})
	_, err := LoadFS(fsys)
	if !errors.Is(err, ErrInvalidConfig) || !strings.Contains(err.Error(), "cycle") {
		t.Fatalf("expected import cycle error, got %v", err)
	}
}

func TestLoadFSRejects(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]string
		want      error
		contains  string
	}{
		{
			name:      "unknown target enemy",
			overrides: map[string]string{"player.yaml": strings.Replace(testPlayer, "enemy: dummy", "enemy: dragon", 1)},
			want:      ErrUnknownEnemy,
		},
		{
			name:      "unknown target group",
			overrides: map[string]string{"player.yaml": strings.Replace(testPlayer, "enemy: dummy", "group: horde", 1)},
			want:      ErrUnknownGroup,
		},
		{
			name:      "unknown profession",
			overrides: map[string]string{"player.yaml": strings.Replace(testPlayer, "profession: basic", "profession: rogue", 1)},
			want:      profession.ErrUnknownProfession,
		},
		{
			name:      "unsupported module",
			overrides: map[string]string{"professions/basic.yaml": "name: bard\nauto_attack: {interval_seconds: 2}\n"},
			want:      profession.ErrUnknownProfession,
		},
		{
			name: "uppercase enemy id",
			overrides: map[string]string{"enemies.yaml": `
enemies:
  - {id: Dummy, max_hp: 10}
`},
			want:     ErrInvalidConfig,
			contains: "snake_case",
		},
		{
			name: "group with unknown member",
			overrides: map[string]string{"enemies.yaml": `
enemies:
  - {id: dummy, max_hp: 10}
groups:
  - {id: pack, members: [ghost]}
`},
			want:     ErrInvalidConfig,
			contains: "ghost",
		},
		{
			name: "skill references unknown buff",
			overrides: map[string]string{"professions/basic.yaml": `
name: basic
auto_attack: {interval_seconds: 2}
skills:
  - {id: shout, apply_buff: fury}
`},
			want:     ErrInvalidConfig,
			contains: "fury",
		},
		{
			name: "attacking enemy without interval",
			overrides: map[string]string{"enemies.yaml": `
enemies:
  - {id: dummy, max_hp: 10, attack_damage: 5}
`},
			want:     ErrInvalidConfig,
			contains: "attack_interval_seconds",
		},
		{
			name:      "negative slice seconds",
			overrides: map[string]string{"engine.yaml": testEngine + "slicing: {max_slice_seconds: -1}\n"},
			want:      ErrInvalidConfig,
			contains:  "max_slice_seconds",
		},
		{
			name:      "slice below clock resolution",
			overrides: map[string]string{"engine.yaml": testEngine + "slicing: {max_slice_seconds: 1e-16}\n"},
			want:      ErrInvalidConfig,
			contains:  "max_slice_seconds",
		},
		{
			name:      "missing player file",
			overrides: map[string]string{"player.yaml": ""},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFS(testFS(tt.overrides))
			if err == nil {
				t.Fatalf("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if tt.contains != "" && !strings.Contains(err.Error(), tt.contains) {
				t.Fatalf("error %q should mention %q", err, tt.contains)
			}
		})
	}
}

func TestValidatePerks(t *testing.T) {
	tests := []struct {
		name    string
		cfg     PerkConfig
		wantErr string
	}{
		{
			name: "valid loadout",
			cfg: PerkConfig{
				Limits:   PerkLimits{Legendary: 1, Epic: 2},
				Equipped: PerkSlots{Legendary: []string{"Executioner"}, Epic: []string{"ignite", "quickened"}},
			},
		},
		{
			name: "over limit",
			cfg: PerkConfig{
				Limits:   PerkLimits{Epic: 1},
				Equipped: PerkSlots{Epic: []string{"ignite", "quickened"}},
			},
			wantErr: "exceed limit",
		},
		{
			name:    "wrong rarity",
			cfg:     PerkConfig{Equipped: PerkSlots{Rare: []string{"executioner"}}},
			wantErr: "listed under rare",
		},
		{
			name:    "unknown perk",
			cfg:     PerkConfig{Equipped: PerkSlots{Rare: []string{"lucky"}}},
			wantErr: "unknown perk",
		},
		{
			name:    "duplicate",
			cfg:     PerkConfig{Equipped: PerkSlots{Rare: []string{"bulwark", "bulwark"}}},
			wantErr: "more than once",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePerks(&tt.cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if _, ok := tt.cfg.active["executioner"]; !ok {
					t.Fatalf("names should be normalized into the active set")
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("SIM_SEED", "99")
	t.Setenv("SIM_DURATION", "12.5")
	t.Setenv("SIM_LOG_FORMAT", "json")
	e, err := LoadEnv()
	if err != nil {
		t.Fatalf("load env: %v", err)
	}
	if e.Seed == nil || *e.Seed != 99 {
		t.Fatalf("seed not parsed: %v", e.Seed)
	}
	if e.Duration != 12.5 || e.LogFormat != "json" || e.LogLevel != "info" {
		t.Fatalf("unexpected env %+v", e)
	}
	cfg, err := e.LoadConfig()
	if err != nil || cfg == nil {
		t.Fatalf("env with empty config dir should load defaults: %v", err)
	}

	t.Setenv("SIM_ITERATIONS", "many")
	if _, err := LoadEnv(); err == nil || !strings.Contains(err.Error(), "parse env") {
		t.Fatalf("expected parse env error, got %v", err)
	}
}
