package profession

import (
	"errors"
	"testing"

	"idle-battle-sim/internal/character"
	"idle-battle-sim/internal/combatant"
	"idle-battle-sim/internal/effects"
	"idle-battle-sim/internal/perks"
	"idle-battle-sim/internal/rng"
	"idle-battle-sim/internal/skills"
)

type stubField struct {
	now       float64
	resources *character.Resources
	buffs     *effects.Manager
	flow      map[string]float64
}

func newStubField(defs ...*effects.BuffDefinition) *stubField {
	f := &stubField{
		resources: character.NewResources(),
		buffs:     effects.NewManager(),
		flow:      make(map[string]float64),
	}
	f.resources.Define(ResourceRage, 100, 0)
	f.resources.Define(ResourceMana, 1000, 500)
	for _, def := range defs {
		_ = f.buffs.Register(def)
	}
	return f
}

func (f *stubField) Now() float64                                         { return f.now }
func (f *stubField) Rng() *rng.Context                                    { return rng.New(0) }
func (f *stubField) Stats() character.Stats                               { return character.Stats{} }
func (f *stubField) Resources() *character.Resources                      { return f.resources }
func (f *stubField) Buffs() *effects.Manager                              { return f.buffs }
func (f *stubField) Haste() float64                                       { return 1 }
func (f *stubField) SelectTarget() (*combatant.Enemy, bool)               { return nil, false }
func (f *stubField) Targets() []*combatant.Enemy                          { return nil }
func (f *stubField) RecordResource(id string, delta float64)              { f.flow[id] += delta }
func (f *stubField) Tag(string)                                           {}
func (f *stubField) ScheduleCastComplete(float64, uint64) skills.Canceler { return nil }
func (f *stubField) Logf(string, ...any)                                  {}

func (f *stubField) DealDamage(string, *combatant.Enemy, int64, character.DamageType, bool) combatant.DamageOutcome {
	return combatant.DamageOutcome{}
}

func TestNewUnknownProfession(t *testing.T) {
	if _, err := New("bard", &Kit{}, nil); !errors.Is(err, ErrUnknownProfession) {
		t.Fatalf("expected ErrUnknownProfession, got %v", err)
	}
	if !Supported("warrior") || len(Names()) != 3 {
		t.Fatalf("unexpected registry %v", Names())
	}
}

func TestWarriorRage(t *testing.T) {
	kit := &Kit{Params: map[string]float64{"rage_per_hit": 10, "rage_per_crit": 5, "rage_per_pulse": 3}}
	mod, err := New("warrior", kit, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	f := newStubField()
	if err := mod.OnAutoAttack(f, Attack{Crit: true}); err != nil {
		t.Fatalf("attack: %v", err)
	}
	if err := mod.OnSpecialPulse(f); err != nil {
		t.Fatalf("pulse: %v", err)
	}
	if got := f.resources.Current(ResourceRage); got != 18 {
		t.Fatalf("expected 18 rage, got %v", got)
	}
	if f.flow[ResourceRage] != 18 {
		t.Fatalf("expected recorded flow, got %v", f.flow)
	}
}

func TestWarriorEnrageOnCrit(t *testing.T) {
	f := newStubField(
		&effects.BuffDefinition{ID: BuffEnrage, Duration: 8},
		&effects.BuffDefinition{ID: BuffDeepWounds, Duration: 6},
	)
	mod, _ := New("warrior", &Kit{}, perks.NewSet(perks.PerkBloodFrenzy))
	if err := mod.OnSkillCast(f, skills.CastResult{Skill: &skills.Definition{ID: "slam"}}); err != nil {
		t.Fatalf("cast: %v", err)
	}
	if f.buffs.Active(BuffEnrage, 0) {
		t.Fatalf("no enrage without a crit")
	}
	if err := mod.OnSkillCast(f, skills.CastResult{Skill: &skills.Definition{ID: "slam"}, Crit: true}); err != nil {
		t.Fatalf("cast: %v", err)
	}
	if !f.buffs.Active(BuffEnrage, 0) || !f.buffs.Active(BuffDeepWounds, 0) {
		t.Fatalf("expected enrage and deep wounds")
	}
}

func TestMageRegenAndHotStreak(t *testing.T) {
	f := newStubField(&effects.BuffDefinition{ID: BuffHotStreak, Duration: 10, MaxStacks: 2, Policy: effects.PolicyStack})
	mod, _ := New("mage", &Kit{Params: map[string]float64{"mana_regen_pct": 10}}, nil)
	if err := mod.OnSpecialPulse(f); err != nil {
		t.Fatalf("pulse: %v", err)
	}
	if got := f.resources.Current(ResourceMana); got != 600 {
		t.Fatalf("expected 600 mana, got %v", got)
	}
	crit := skills.CastResult{Skill: &skills.Definition{ID: "fireball"}, Crit: true, Damage: 100}
	for i := 0; i < 3; i++ {
		if err := mod.OnSkillCast(f, crit); err != nil {
			t.Fatalf("cast: %v", err)
		}
	}
	if f.buffs.Stacks(BuffHotStreak) != 2 {
		t.Fatalf("expected capped stacks, got %d", f.buffs.Stacks(BuffHotStreak))
	}
}

func TestOpenerUnknownBuffFails(t *testing.T) {
	mod, _ := New("basic", &Kit{Opener: []string{"missing"}}, nil)
	if err := mod.OnBattleStart(newStubField()); !errors.Is(err, effects.ErrUnknownBuff) {
		t.Fatalf("expected ErrUnknownBuff, got %v", err)
	}
}
