package skills

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

func TestSingleChargeCooldown(t *testing.T) {
	rt := NewRuntime(&Definition{ID: "slam", Cooldown: 6})
	if !rt.Ready(0) {
		t.Fatalf("fresh skill should be ready")
	}
	rt.Consume(0, 1)
	if rt.Ready(5.9) {
		t.Fatalf("should still be cooling down")
	}
	if got := rt.Remaining(4); math.Abs(got-2) > 1e-9 {
		t.Fatalf("expected 2s remaining, got %v", got)
	}
	if !rt.Ready(6) {
		t.Fatalf("should be ready at 6s")
	}
}

func TestSingleChargeRefund(t *testing.T) {
	rt := NewRuntime(&Definition{ID: "slam", Cooldown: 6})
	rt.Consume(1, 1)
	if rt.Charges(2) != 0 || rt.Remaining(2) != 5 {
		t.Fatalf("expected 5s left, got %v", rt.Remaining(2))
	}
	rt.Refund(3)
	if !rt.Ready(3) || rt.Remaining(3) != 0 {
		t.Fatalf("refund should make the skill ready at once")
	}
}

func TestHasteScalesCooldownWhenFlagged(t *testing.T) {
	rt := NewRuntime(&Definition{ID: "slam", Cooldown: 6, HasteAffectsCooldown: true})
	rt.Consume(0, 2)
	if !rt.Ready(3) {
		t.Fatalf("double haste should halve the cooldown")
	}
	plain := NewRuntime(&Definition{ID: "slam", Cooldown: 6})
	plain.Consume(0, 2)
	if plain.Ready(3) {
		t.Fatalf("unflagged cooldowns ignore haste")
	}
}

func TestChargeChain(t *testing.T) {
	rt := NewRuntime(&Definition{ID: "charge", Charges: 2, Recharge: 10})
	rt.Consume(0, 1)
	if rt.Charges(0) != 1 || rt.NextChargeAt() != 10 {
		t.Fatalf("consuming from a full pool starts the chain, next=%v", rt.NextChargeAt())
	}
	rt.Consume(3, 1)
	if rt.NextChargeAt() != 10 {
		t.Fatalf("consuming below max keeps the running chain, next=%v", rt.NextChargeAt())
	}
	if rt.Ready(9.9) {
		t.Fatalf("no charge before the chain ticks")
	}
	if rt.Charges(10) != 1 || rt.NextChargeAt() != 20 {
		t.Fatalf("expected one charge back at 10s, next=%v", rt.NextChargeAt())
	}
	if rt.Charges(25) != 2 || !math.IsInf(rt.NextChargeAt(), 1) {
		t.Fatalf("chain stops once the pool is full")
	}
}

func TestChargeChainHaste(t *testing.T) {
	rt := NewRuntime(&Definition{ID: "charge", Charges: 3, Recharge: 12, HasteAffectsRecharge: true})
	rt.Consume(0, 1.5)
	if rt.NextChargeAt() != 8 {
		t.Fatalf("expected hasted recharge at 8s, got %v", rt.NextChargeAt())
	}
}

func TestChargeRefund(t *testing.T) {
	rt := NewRuntime(&Definition{ID: "charge", Charges: 2, Recharge: 10})
	rt.Consume(0, 1)
	rt.Consume(1, 1)
	rt.Refund(2)
	if rt.Charges(2) != 1 || rt.NextChargeAt() != 10 {
		t.Fatalf("a partial refund keeps the chain, charges=%d", rt.Charges(2))
	}
	rt.Refund(3)
	if rt.Charges(3) != 2 || !math.IsInf(rt.NextChargeAt(), 1) {
		t.Fatalf("a full pool stops the chain")
	}
}

func TestDistributeConserves(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		total := rapid.Int64Range(0, 1_000_000_000).Draw(t, "total")
		n := rapid.IntRange(1, 16).Draw(t, "targets")
		first := rapid.Bool().Draw(t, "remainderToFirst")

		parts := Distribute(total, n, first)
		if len(parts) != n {
			t.Fatalf("expected %d parts, got %d", n, len(parts))
		}
		var sum int64
		lo, hi := parts[0], parts[0]
		for _, p := range parts {
			sum += p
			lo = min(lo, p)
			hi = max(hi, p)
		}
		if sum != total {
			t.Fatalf("sum %d != total %d", sum, total)
		}
		if !first && hi-lo > 1 {
			t.Fatalf("round robin spread too wide: %v", parts)
		}
		if first {
			for _, p := range parts[1:] {
				if p != total/int64(n) {
					t.Fatalf("only the first part carries the remainder: %v", parts)
				}
			}
		}
	})
}

func TestValidateRejectsBadSkills(t *testing.T) {
	bad := []*Definition{
		{},
		{ID: "neg", Cooldown: -1},
		{ID: "free", Cost: 5},
		{ID: "multi", Charges: 2},
		{ID: "aoe", AoE: AoESplitEven},
	}
	for _, def := range bad {
		if err := def.Validate(); err == nil {
			t.Errorf("%q: expected validation error", def.ID)
		}
	}
}
