package skills

import (
	"math"

	"idle-battle-sim/internal/effects"
)

// Runtime tracks cooldown or charge state of one skill.
type Runtime struct {
	Def *Definition

	readyAt float64

	charges       int
	nextChargeAt  float64
	chainInterval float64
}

// NewRuntime returns a runtime with every charge available.
func NewRuntime(def *Definition) *Runtime {
	r := &Runtime{Def: def, nextChargeAt: math.Inf(1)}
	if r.multi() {
		r.charges = def.Charges
	}
	return r
}

func (r *Runtime) multi() bool {
	return r.Def.Charges > 1
}

// MaxCharges returns the pool size (1 for single-charge skills).
func (r *Runtime) MaxCharges() int {
	if r.multi() {
		return r.Def.Charges
	}
	return 1
}

// settle credits every charge whose recharge completed by now.
func (r *Runtime) settle(now float64) {
	for r.charges < r.Def.Charges && r.nextChargeAt <= now {
		r.charges++
		if r.charges < r.Def.Charges {
			r.nextChargeAt += r.chainInterval
		} else {
			r.nextChargeAt = math.Inf(1)
		}
	}
}

// Ready reports whether the skill can be used at now.
func (r *Runtime) Ready(now float64) bool {
	if !r.multi() {
		return now >= r.readyAt
	}
	r.settle(now)
	return r.charges > 0
}

// Charges returns the available charges at now.
func (r *Runtime) Charges(now float64) int {
	if !r.multi() {
		if now >= r.readyAt {
			return 1
		}
		return 0
	}
	r.settle(now)
	return r.charges
}

// Remaining returns seconds until at least one use is available.
func (r *Runtime) Remaining(now float64) float64 {
	if !r.multi() {
		return max(r.readyAt-now, 0)
	}
	r.settle(now)
	if r.charges > 0 {
		return 0
	}
	return r.nextChargeAt - now
}

// NextChargeAt returns when the recharge chain yields its next charge.
func (r *Runtime) NextChargeAt() float64 {
	return r.nextChargeAt
}

// Consume spends one use. A multi-charge pool that was full starts its
// recharge chain; a partially drained pool keeps the running chain.
func (r *Runtime) Consume(now, haste float64) {
	if !r.multi() {
		r.readyAt = now + r.scaled(r.Def.Cooldown, r.Def.HasteAffectsCooldown, haste)
		return
	}
	r.settle(now)
	if r.charges <= 0 {
		return
	}
	if r.charges == r.Def.Charges {
		r.chainInterval = r.scaled(r.Def.rechargeBase(), r.Def.HasteAffectsRecharge, haste)
		r.nextChargeAt = now + r.chainInterval
	}
	r.charges--
}

// Refund returns one use, e.g. after an interrupted cast.
func (r *Runtime) Refund(now float64) {
	if !r.multi() {
		r.readyAt = now
		return
	}
	r.settle(now)
	r.charges++
	if r.charges >= r.Def.Charges {
		r.charges = r.Def.Charges
		r.nextChargeAt = math.Inf(1)
	}
}

func (r *Runtime) scaled(base float64, affected bool, haste float64) float64 {
	if !affected {
		return base
	}
	return base / effects.ClampHaste(haste)
}
