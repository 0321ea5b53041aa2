package perks

import (
	"testing"

	"idle-battle-sim/internal/character"
)

func TestRarityRegistry(t *testing.T) {
	if r, ok := RarityOf(PerkExecutioner); !ok || r != RarityLegendary {
		t.Fatalf("expected executioner to be legendary, got %v %v", r, ok)
	}
	if IsKnown("moonfire") {
		t.Fatalf("unexpected perk")
	}
	known := Known()
	delete(known, PerkIgnite)
	if !IsKnown(PerkIgnite) {
		t.Fatalf("Known must return a copy")
	}
}

func TestApplyStats(t *testing.T) {
	s := NewSet(" Quickened ", "hardened", "arcane_flux")
	if !s.Has("QUICKENED") {
		t.Fatalf("names are normalized")
	}
	got := s.ApplyStats(character.Stats{HastePct: 10, Armor: 100})
	if got.HastePct != 15 || got.Armor != 500 || got.CritMultiplier != 2.5 {
		t.Fatalf("unexpected stats %+v", got)
	}
	if names := s.Names(); len(names) != 3 || names[0] != "arcane_flux" {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestExecutionerMultiplier(t *testing.T) {
	s := NewSet(PerkExecutioner)
	if s.ExecutionerMultiplier(50) != 1 {
		t.Fatalf("no bonus above threshold")
	}
	if s.ExecutionerMultiplier(10) != 1.25 {
		t.Fatalf("expected bonus below threshold")
	}
	var empty Set
	if empty.ExecutionerMultiplier(1) != 1 {
		t.Fatalf("nil set has no perks")
	}
}
