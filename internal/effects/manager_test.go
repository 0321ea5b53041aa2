package effects

import (
	"errors"
	"math"
	"testing"

	"idle-battle-sim/internal/character"
	"pgregory.net/rapid"
)

func newTestManager(t interface{ Fatalf(string, ...any) }, defs ...*BuffDefinition) *Manager {
	m := NewManager()
	m.Snapshot = func() Snapshot { return Snapshot{Haste: 1, AttackPower: 100} }
	for _, def := range defs {
		if err := m.Register(def); err != nil {
			t.Fatalf("register %s: %v", def.ID, err)
		}
	}
	return m
}

func TestApplyUnknownBuff(t *testing.T) {
	m := newTestManager(t)
	if _, err := m.Apply("missing", 0); !errors.Is(err, ErrUnknownBuff) {
		t.Fatalf("expected ErrUnknownBuff, got %v", err)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	def := &BuffDefinition{ID: "enrage", Duration: 8}
	m := newTestManager(t, def)
	if err := m.Register(&BuffDefinition{ID: "enrage", Duration: 3}); !errors.Is(err, ErrDuplicateBuff) {
		t.Fatalf("expected ErrDuplicateBuff, got %v", err)
	}
	if err := m.Register(&BuffDefinition{ID: "broken"}); !errors.Is(err, ErrInvalidBuff) {
		t.Fatalf("expected ErrInvalidBuff for zero duration, got %v", err)
	}
}

func TestStackPolicyNeverExceedsCap(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		maxStacks := rapid.IntRange(1, 10).Draw(t, "max")
		applies := rapid.IntRange(1, 40).Draw(t, "applies")
		m := newTestManager(t, &BuffDefinition{ID: "fury", Duration: 10, MaxStacks: maxStacks, Policy: PolicyStack})
		now := 0.0
		for i := 0; i < applies; i++ {
			if _, err := m.Apply("fury", now); err != nil {
				t.Fatalf("apply: %v", err)
			}
			if m.Stacks("fury") > maxStacks {
				t.Fatalf("stacks %d exceed cap %d", m.Stacks("fury"), maxStacks)
			}
			now += 0.5
		}
		want := applies
		if want > maxStacks {
			want = maxStacks
		}
		if m.Stacks("fury") != want {
			t.Fatalf("stacks %d, want %d", m.Stacks("fury"), want)
		}
	})
}

func TestPandemicRefreshBound(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		base := rapid.Float64Range(1, 30).Draw(t, "base")
		ratio := rapid.Float64Range(0, 1).Draw(t, "ratio")
		elapsed := rapid.Float64Range(0, base*0.99).Draw(t, "elapsed")
		m := newTestManager(t, &BuffDefinition{ID: "rend", Duration: base, PandemicRatio: ratio})
		if _, err := m.Apply("rend", 0); err != nil {
			t.Fatalf("apply: %v", err)
		}
		inst, err := m.Apply("rend", elapsed)
		if err != nil {
			t.Fatalf("refresh: %v", err)
		}
		got := inst.ExpiresAt - elapsed
		remaining := base - elapsed
		want := math.Min(base+remaining, base+base*ratio)
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("refreshed duration %v, want %v", got, want)
		}
		if got > base*(1+ratio)+1e-9 {
			t.Fatalf("refreshed duration %v exceeds pandemic cap", got)
		}
	})
}

func TestExtendPolicyAddsDuration(t *testing.T) {
	m := newTestManager(t, &BuffDefinition{ID: "shield", Duration: 4, Policy: PolicyExtend, MaxStacks: 3})
	if _, err := m.Apply("shield", 0); err != nil {
		t.Fatalf("apply: %v", err)
	}
	inst, _ := m.Apply("shield", 1)
	if inst.ExpiresAt != 8 {
		t.Fatalf("expected expiry 8, got %v", inst.ExpiresAt)
	}
	if inst.Stacks != 1 {
		t.Fatalf("extend should not add stacks, got %d", inst.Stacks)
	}
}

func TestPeriodicDamageTicksAndExpiry(t *testing.T) {
	def := &BuffDefinition{
		ID:                "rend",
		Duration:          6,
		Periodic:          PeriodicDamage,
		TickInterval:      2,
		TickValue:         10,
		TickAPCoefficient: 0.1,
		TickDamageType:    character.DamagePhysical,
	}
	m := newTestManager(t, def)
	var ticks []float64
	var total float64
	m.OnPeriodicDamage = func(b *BuffInstance, amount, at float64) {
		ticks = append(ticks, at)
		total += amount
	}
	expired := false
	m.OnExpire = func(b *BuffInstance, now float64) { expired = true }

	if _, err := m.Apply("rend", 0); err != nil {
		t.Fatalf("apply: %v", err)
	}
	m.Tick(3)
	if len(ticks) != 1 {
		t.Fatalf("expected 1 tick by t=3, got %d", len(ticks))
	}
	m.Tick(20)
	if len(ticks) != 3 {
		t.Fatalf("expected 3 ticks total, got %v", ticks)
	}
	if ticks[2] != 6 {
		t.Fatalf("last tick should land on expiry, got %v", ticks[2])
	}
	if total != 60 {
		t.Fatalf("expected 3 * (10 + 100*0.1) = 60, got %v", total)
	}
	if !expired || m.Get("rend") != nil {
		t.Fatalf("buff should be removed after its last tick")
	}
}

func TestNextTickAt(t *testing.T) {
	rend := &BuffDefinition{ID: "rend", Duration: 5, Periodic: PeriodicDamage, TickInterval: 2, TickValue: 1}
	shout := &BuffDefinition{ID: "shout", Duration: 30, HasteAdditive: 0.1}
	m := newTestManager(t, rend, shout)
	if !math.IsInf(m.NextTickAt(), 1) {
		t.Fatalf("empty manager should have no pending tick")
	}
	if _, err := m.Apply("shout", 0); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !math.IsInf(m.NextTickAt(), 1) {
		t.Fatalf("non periodic buffs never tick")
	}
	if _, err := m.Apply("rend", 1); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := m.NextTickAt(); got != 3 {
		t.Fatalf("expected first tick at 3, got %v", got)
	}
	m.Tick(3)
	if got := m.NextTickAt(); got != 5 {
		t.Fatalf("expected second tick at 5, got %v", got)
	}
	m.Tick(5)
	if !math.IsInf(m.NextTickAt(), 1) {
		t.Fatalf("tick at 7 lies past expiry at 6, got %v", m.NextTickAt())
	}
}

func TestResourceTickUsesStacks(t *testing.T) {
	m := newTestManager(t, &BuffDefinition{
		ID:           "bloodrage",
		Duration:     10,
		MaxStacks:    2,
		Policy:       PolicyStack,
		Periodic:     PeriodicResource,
		TickInterval: 1,
		TickValue:    3,
		TickResource: "rage",
	})
	var gained float64
	m.OnResourceTick = func(b *BuffInstance, resource string, amount, at float64) {
		if resource != "rage" {
			t.Fatalf("unexpected resource %s", resource)
		}
		gained += amount
	}
	m.Apply("bloodrage", 0)
	m.Apply("bloodrage", 0)
	m.Tick(1)
	if gained != 6 {
		t.Fatalf("expected 6 rage from two stacks, got %v", gained)
	}
}

func TestAggregateHasteAndPenetration(t *testing.T) {
	m := newTestManager(t,
		&BuffDefinition{ID: "flurry", Duration: 10, HasteAdditive: 0.1, MaxStacks: 2, Policy: PolicyStack},
		&BuffDefinition{ID: "bloodlust", Duration: 10, HasteMultiplicative: 1.3},
		&BuffDefinition{ID: "sunder", Duration: 10, ArmorPenPct: 0.7, MaxStacks: 2, Policy: PolicyStack},
	)
	m.Apply("flurry", 0)
	m.Apply("flurry", 0)
	m.Apply("bloodlust", 0)
	m.Apply("sunder", 0)
	m.Apply("sunder", 0)

	agg := m.Aggregate()
	if want := 1.2 * 1.3; math.Abs(agg.Haste()-want) > 1e-9 {
		t.Fatalf("haste %v, want %v", agg.Haste(), want)
	}
	if agg.ArmorPenPct != 1 {
		t.Fatalf("armor penetration should clamp to 1, got %v", agg.ArmorPenPct)
	}

	m.Remove("bloodlust", 1)
	if want := 1.2; math.Abs(m.Aggregate().Haste()-want) > 1e-9 {
		t.Fatalf("haste after removal %v, want %v", m.Aggregate().Haste(), want)
	}
}

func TestHasteAffectsPeriodicSnapshot(t *testing.T) {
	m := NewManager()
	haste := 2.0
	m.Snapshot = func() Snapshot { return Snapshot{Haste: haste} }
	m.Register(&BuffDefinition{ID: "dot", Duration: 10, Periodic: PeriodicDamage, TickInterval: 2, HasteAffectsPeriodic: true, PandemicRatio: 0.3})
	inst, _ := m.Apply("dot", 0)
	if inst.TickInterval != 1 {
		t.Fatalf("expected snapshotted interval 1, got %v", inst.TickInterval)
	}
	haste = 1
	inst, _ = m.Apply("dot", 5)
	if inst.TickInterval != 2 {
		t.Fatalf("refresh should re-snapshot interval, got %v", inst.TickInterval)
	}
}
