package combatant_test

import (
	"testing"

	"go.uber.org/mock/gomock"
	"idle-battle-sim/internal/combatant"
	"idle-battle-sim/internal/combatant/mocks"
	"idle-battle-sim/internal/rng"
)

func candidate(ctrl *gomock.Controller, id string, targetable bool, weight float64) *mocks.MockCombatant {
	m := mocks.NewMockCombatant(ctrl)
	m.EXPECT().CanBeTargeted().Return(targetable).AnyTimes()
	m.EXPECT().ThreatWeight().Return(weight).AnyTimes()
	m.EXPECT().ID().Return(id).AnyTimes()
	return m
}

func TestSelectTargetSkipsUntargetable(t *testing.T) {
	ctrl := gomock.NewController(t)
	dead := candidate(ctrl, "dead", false, 100)
	alive := candidate(ctrl, "alive", true, 1)

	r := rng.New(7)
	for i := 0; i < 50; i++ {
		got, ok := combatant.SelectTarget([]combatant.Combatant{dead, alive}, r)
		if !ok || got.ID() != "alive" {
			t.Fatalf("expected the only targetable candidate, got %v", got)
		}
	}
}

func TestSelectTargetNoCandidatesDoesNotDraw(t *testing.T) {
	ctrl := gomock.NewController(t)
	dead := candidate(ctrl, "dead", false, 1)
	r := rng.New(7)
	if _, ok := combatant.SelectTarget([]combatant.Combatant{dead}, r); ok {
		t.Fatalf("expected no target")
	}
	if r.Index() != 0 {
		t.Fatalf("no eligible candidates should not draw")
	}
}

func TestSelectTargetFollowsWeights(t *testing.T) {
	ctrl := gomock.NewController(t)
	heavy := candidate(ctrl, "heavy", true, 9)
	light := candidate(ctrl, "light", true, 1)
	zero := candidate(ctrl, "zero", true, 0)

	r := rng.New(42)
	counts := map[string]int{}
	const draws = 5000
	for i := 0; i < draws; i++ {
		got, _ := combatant.SelectTarget([]combatant.Combatant{heavy, light, zero}, r)
		counts[got.ID()]++
	}
	if counts["zero"] != 0 {
		t.Fatalf("zero-weight candidate selected %d times", counts["zero"])
	}
	share := float64(counts["heavy"]) / draws
	if share < 0.85 || share > 0.95 {
		t.Fatalf("heavy share %.3f outside expected range", share)
	}
	if r.Index() != draws {
		t.Fatalf("expected one draw per selection, index=%d", r.Index())
	}
}

func TestSelectTargetUniformWhenAllZero(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := candidate(ctrl, "a", true, 0)
	b := candidate(ctrl, "b", true, 0)
	r := rng.New(3)
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		got, ok := combatant.SelectTarget([]combatant.Combatant{a, b}, r)
		if !ok {
			t.Fatalf("expected a target")
		}
		seen[got.ID()] = true
	}
	if !seen["a"] || !seen["b"] {
		t.Fatalf("uniform fallback should reach every candidate: %v", seen)
	}
}
