package character

import "testing"

func TestResourcesClamp(t *testing.T) {
	r := NewResources()
	r.Define("rage", 100, 0)

	if got := r.Gain("rage", 130); got != 100 {
		t.Fatalf("expected gain clamped to 100, got %v", got)
	}
	if !r.CanAfford("rage", 30) {
		t.Fatalf("expected 30 rage to be affordable")
	}
	if spent := r.Spend("rage", 30); spent != 30 {
		t.Fatalf("expected to spend 30, got %v", spent)
	}
	if pct := r.Percent("rage"); pct != 70 {
		t.Fatalf("expected 70%%, got %v", pct)
	}
	if got := r.Gain("rage", -500); got != -70 {
		t.Fatalf("expected drain clamped at zero, got %v", got)
	}
	if r.CanAfford("mana", 1) {
		t.Fatalf("unknown pool should not afford a positive cost")
	}
	if !r.CanAfford("", 50) {
		t.Fatalf("costless skills are always affordable")
	}
}

func TestParseDamageType(t *testing.T) {
	cases := map[string]DamageType{
		"":         DamagePhysical,
		"Physical": DamagePhysical,
		"magic":    DamageMagic,
		"true":     DamageTrue,
	}
	for in, want := range cases {
		got, err := ParseDamageType(in)
		if err != nil {
			t.Fatalf("ParseDamageType(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseDamageType(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseDamageType("chaos"); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}

func TestStatsDefaults(t *testing.T) {
	var s Stats
	if s.EffectiveCritMultiplier() != DefaultCritMultiplier {
		t.Fatalf("expected default crit multiplier")
	}
	s.HastePct = 25
	if s.HasteFactor() != 1.25 {
		t.Fatalf("expected haste factor 1.25, got %v", s.HasteFactor())
	}
}
