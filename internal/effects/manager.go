package effects

import (
	"fmt"
	"math"
	"sort"
)

const tickEpsilon = 1e-9

// Snapshot carries the stats captured when a buff is applied.
type Snapshot struct {
	Haste       float64
	AttackPower float64
	SpellPower  float64
}

// Manager owns the definition registry and the active buffs of one combatant.
type Manager struct {
	defs   map[string]*BuffDefinition
	active []*BuffInstance
	agg    Aggregate

	// Snapshot returns the stats used when applying or refreshing a buff.
	Snapshot func() Snapshot

	OnGain    func(b *BuffInstance, now float64)
	OnRefresh func(b *BuffInstance, now float64)
	OnExpire  func(b *BuffInstance, now float64)

	OnPeriodicDamage func(b *BuffInstance, amount, at float64)
	OnResourceTick   func(b *BuffInstance, resource string, amount, at float64)
	// OnDirectHit fires for damage ticks of buffs flagged TriggersOnHit.
	OnDirectHit func(b *BuffInstance, amount, at float64)
}

// NewManager returns an empty manager.
func NewManager() *Manager {
	return &Manager{
		defs: make(map[string]*BuffDefinition),
		agg:  emptyAggregate(),
	}
}

// Register adds a definition. Ids must be unique.
func (m *Manager) Register(def *BuffDefinition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	if _, dup := m.defs[def.ID]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateBuff, def.ID)
	}
	m.defs[def.ID] = def
	return nil
}

// Definition returns a registered definition.
func (m *Manager) Definition(id string) (*BuffDefinition, bool) {
	def, ok := m.defs[id]
	return def, ok
}

// Known reports whether id is registered.
func (m *Manager) Known(id string) bool {
	_, ok := m.defs[id]
	return ok
}

// DefinitionIDs returns every registered id in sorted order.
func (m *Manager) DefinitionIDs() []string {
	ids := make([]string, 0, len(m.defs))
	for id := range m.defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Apply gains, refreshes, stacks or extends a buff.
func (m *Manager) Apply(id string, now float64) (*BuffInstance, error) {
	def, ok := m.defs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBuff, id)
	}
	if inst := m.find(id); inst != nil {
		if inst.ExpiresAt > now {
			m.reapply(inst, now)
			return inst, nil
		}
		m.expire(inst, now)
	}

	snap := m.snapshot()
	inst := &BuffInstance{
		Def:         def,
		Stacks:      1,
		AppliedAt:   now,
		ExpiresAt:   now + def.Duration,
		Haste:       snap.Haste,
		AttackPower: snap.AttackPower,
		SpellPower:  snap.SpellPower,
	}
	if def.Periodic != PeriodicNone {
		inst.TickInterval = tickInterval(def, snap.Haste)
		inst.NextTickAt = now + inst.TickInterval
	} else {
		inst.NextTickAt = math.Inf(1)
	}
	m.active = append(m.active, inst)
	m.recompute()
	if m.OnGain != nil {
		m.OnGain(inst, now)
	}
	return inst, nil
}

func (m *Manager) reapply(inst *BuffInstance, now float64) {
	def := inst.Def
	switch def.Policy {
	case PolicyExtend:
		inst.ExpiresAt += def.Duration
	case PolicyStack:
		if inst.Stacks < def.stackCap() {
			inst.Stacks++
		}
		m.refresh(inst, now)
	default:
		m.refresh(inst, now)
	}
	m.recompute()
	if m.OnRefresh != nil {
		m.OnRefresh(inst, now)
	}
}

// refresh applies the pandemic rule: the carried-over remainder is capped
// at PandemicRatio of the base duration.
func (m *Manager) refresh(inst *BuffInstance, now float64) {
	def := inst.Def
	remaining := inst.Remaining(now)
	extended := math.Min(def.Duration+remaining, def.Duration+def.Duration*def.PandemicRatio)
	inst.ExpiresAt = now + extended

	snap := m.snapshot()
	inst.Haste = snap.Haste
	if def.Periodic != PeriodicNone {
		inst.TickInterval = tickInterval(def, snap.Haste)
	}
}

// Remove drops an active buff. It reports whether anything was removed.
func (m *Manager) Remove(id string, now float64) bool {
	inst := m.find(id)
	if inst == nil {
		return false
	}
	m.expire(inst, now)
	return true
}

// Tick processes every periodic tick due at or before now and removes
// expired buffs after their last due tick.
func (m *Manager) Tick(now float64) {
	if len(m.active) == 0 {
		return
	}
	pending := append([]*BuffInstance(nil), m.active...)
	for _, inst := range pending {
		if inst.Stacks == 0 {
			continue
		}
		for inst.Def.Periodic != PeriodicNone &&
			inst.NextTickAt <= now+tickEpsilon &&
			inst.NextTickAt <= inst.ExpiresAt+tickEpsilon {
			at := inst.NextTickAt
			inst.NextTickAt += inst.TickInterval
			m.fireTick(inst, at)
			if inst.Stacks == 0 {
				break
			}
		}
	}
	for _, inst := range pending {
		if inst.Stacks > 0 && inst.ExpiresAt <= now+tickEpsilon {
			m.expire(inst, inst.ExpiresAt)
		}
	}
}

func (m *Manager) fireTick(inst *BuffInstance, at float64) {
	amount := inst.TickAmount()
	switch inst.Def.Periodic {
	case PeriodicDamage:
		if m.OnPeriodicDamage != nil {
			m.OnPeriodicDamage(inst, amount, at)
		}
		if inst.Def.TriggersOnHit && m.OnDirectHit != nil {
			m.OnDirectHit(inst, amount, at)
		}
	case PeriodicResource:
		if m.OnResourceTick != nil {
			m.OnResourceTick(inst, inst.Def.TickResource, amount, at)
		}
	}
}

func (m *Manager) expire(inst *BuffInstance, now float64) {
	for i, cur := range m.active {
		if cur == inst {
			m.active = append(m.active[:i], m.active[i+1:]...)
			break
		}
	}
	inst.Stacks = 0
	m.recompute()
	if m.OnExpire != nil {
		m.OnExpire(inst, now)
	}
}

// NextTickAt returns the earliest periodic tick still owed by an active
// instance, or +Inf when none is pending.
func (m *Manager) NextTickAt() float64 {
	next := math.Inf(1)
	for _, inst := range m.active {
		if inst.Stacks == 0 || inst.Def.Periodic == PeriodicNone {
			continue
		}
		if inst.NextTickAt <= inst.ExpiresAt+tickEpsilon {
			next = min(next, inst.NextTickAt)
		}
	}
	return next
}

// Get returns the active instance for id or nil.
func (m *Manager) Get(id string) *BuffInstance {
	return m.find(id)
}

// Active reports whether id is active at now.
func (m *Manager) Active(id string, now float64) bool {
	inst := m.find(id)
	return inst != nil && inst.ExpiresAt > now
}

// Stacks returns the stack count of id (0 when inactive).
func (m *Manager) Stacks(id string) int {
	if inst := m.find(id); inst != nil {
		return inst.Stacks
	}
	return 0
}

// Remaining returns the seconds left on id.
func (m *Manager) Remaining(id string, now float64) float64 {
	return m.find(id).Remaining(now)
}

// Instances returns the active instances in application order.
func (m *Manager) Instances() []*BuffInstance {
	return append([]*BuffInstance(nil), m.active...)
}

// Aggregate returns the combined effect of the active set.
func (m *Manager) Aggregate() Aggregate {
	return m.agg
}

func (m *Manager) find(id string) *BuffInstance {
	for _, inst := range m.active {
		if inst.Def.ID == id {
			return inst
		}
	}
	return nil
}

func (m *Manager) recompute() {
	agg := emptyAggregate()
	for _, inst := range m.active {
		agg.add(inst)
	}
	agg.clamp()
	m.agg = agg
}

func (m *Manager) snapshot() Snapshot {
	if m.Snapshot == nil {
		return Snapshot{Haste: 1}
	}
	snap := m.Snapshot()
	snap.Haste = ClampHaste(snap.Haste)
	return snap
}

func tickInterval(def *BuffDefinition, haste float64) float64 {
	if !def.HasteAffectsPeriodic {
		return def.TickInterval
	}
	return def.TickInterval / ClampHaste(haste)
}
