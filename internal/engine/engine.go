// Package engine runs one deterministic battle: a clock, an ordered event
// queue and the dispatch of every event kind against the battle state.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"idle-battle-sim/internal/character"
	"idle-battle-sim/internal/combatant"
	"idle-battle-sim/internal/effects"
	"idle-battle-sim/internal/perks"
	"idle-battle-sim/internal/profession"
	"idle-battle-sim/internal/rng"
	"idle-battle-sim/internal/segments"
	"idle-battle-sim/internal/skills"
	"idle-battle-sim/internal/telemetry"
)

var (
	ErrNoEncounter = errors.New("no encounter configured")
	ErrNoCharacter = errors.New("no character configured")
	ErrNoModule    = errors.New("no profession module configured")
	ErrEventBudget = errors.New("event budget exhausted")
)

// EncounterProvider builds the encounter of a battle. When set it wins over
// Group and Enemy.
type EncounterProvider func() (combatant.Encounter, error)

// BattleConfig is everything needed to start one battle. Modules hold
// per-battle state, so a config must not be shared between engines.
type BattleConfig struct {
	BattleID  uuid.UUID
	Character *character.Character
	Module    profession.Module

	Encounter EncounterProvider
	GroupID   string
	Group     []*combatant.EnemyDefinition
	Enemy     *combatant.EnemyDefinition

	// Rng, when set, is used instead of a fresh context seeded with Seed.
	Seed uint64
	Rng  *rng.Context

	StartTime         float64
	Duration          float64
	Segments          segments.Limits
	MaxEventsPerSlice int
	MaxSliceSeconds   float64
	ProcPulse         float64
	Revive            combatant.ReviveSettings
}

// Option configures the side channels of an engine.
type Option func(*BattleEngine)

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(e *BattleEngine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithCombatLog writes a line per combat action to w.
func WithCombatLog(w io.Writer) Option {
	return func(e *BattleEngine) { e.log = &combatLog{w: w} }
}

// WithNotifier sends death, revive, kill and completion notifications to n.
func WithNotifier(n telemetry.Notifier) Option {
	return func(e *BattleEngine) { e.notifier = n }
}

// WithMetrics reports the battle summary to m when the battle finishes.
func WithMetrics(m telemetry.MetricsRecorder) Option {
	return func(e *BattleEngine) { e.metrics = m }
}

// WithContext sets the context passed to the metrics recorder.
func WithContext(ctx context.Context) Option {
	return func(e *BattleEngine) {
		if ctx != nil {
			e.ctx = ctx
		}
	}
}

// State is the lifecycle of an engine.
type State int

const (
	StateRunning State = iota
	StateCompleted
)

// BattleEngine owns one battle. It is not safe for concurrent use; run
// independent battles on separate engines.
type BattleEngine struct {
	cfg BattleConfig

	ctx      context.Context
	logger   *slog.Logger
	log      *combatLog
	notifier telemetry.Notifier
	metrics  telemetry.MetricsRecorder

	battle    *Battle
	clock     *Clock
	rng       *rng.Context
	scheduler *Scheduler
	collector *segments.Collector
	bf        *BattleContext
	module    profession.Module
	autocast  *skills.AutoCast
	player    *combatant.Player
	encounter combatant.Encounter
	encName   string

	attack       *effects.Track
	special      *effects.Track
	attackEvent  *Event
	specialEvent *Event
	enemies      []*enemyController

	state      State
	events     int
	seedStart  uint64
	fault      error
	lastTick   tickHit
	secondWind bool
	truncated  bool
	result     *Result
}

type tickHit struct {
	target *combatant.Enemy
	out    combatant.DamageOutcome
}

// New builds a battle, applies the profession opener and schedules the
// first attack, special pulse, proc pulse and enemy swings.
func New(cfg BattleConfig, opts ...Option) (*BattleEngine, error) {
	if cfg.Character == nil {
		return nil, ErrNoCharacter
	}
	if cfg.Module == nil || cfg.Module.Kit() == nil {
		return nil, ErrNoModule
	}
	e := &BattleEngine{
		cfg:    cfg,
		ctx:    context.Background(),
		logger: telemetry.Discard(),
		log:    &combatLog{},
	}
	for _, opt := range opts {
		opt(e)
	}

	encounter, name, err := e.resolveEncounter()
	if err != nil {
		return nil, err
	}
	e.encounter = encounter
	e.encName = name

	r := cfg.Rng
	if r == nil {
		r = rng.New(cfg.Seed)
	}
	e.rng = r
	e.seedStart = r.Index()

	kit := cfg.Module.Kit()
	id := cfg.BattleID
	if id == uuid.Nil {
		id = uuid.NewSHA1(cfg.Character.ID, fmt.Appendf(nil, "battle/%d/%d", r.Seed(), r.Index()))
	}
	e.battle = newBattle(id, cfg.Character.ID, kit.AutoAttack.Interval, kit.SpecialInterval, cfg.StartTime)
	e.clock = NewClock(cfg.StartTime)
	e.scheduler = NewScheduler()
	e.collector = segments.NewCollector(cfg.Segments, cfg.StartTime, r.Index())
	e.player = combatant.NewPlayer(cfg.Character, cfg.Revive)
	e.module = cfg.Module

	resources := character.NewResources()
	for _, res := range kit.Resources {
		resources.Define(res.ID, res.Max, res.Start)
	}
	buffs := effects.NewManager()
	for _, def := range kit.Buffs {
		if err := buffs.Register(def); err != nil {
			return nil, fmt.Errorf("profession %s: %w", kit.Name, err)
		}
	}
	equipped := cfg.Module.Perks()
	if equipped == nil {
		equipped = perks.Set{}
	}
	e.bf = &BattleContext{
		clock:     e.clock,
		rng:       r,
		stats:     cfg.Character.Stats,
		perks:     equipped,
		resources: resources,
		buffs:     buffs,
		player:    e.player,
		encounter: encounter,
		collector: e.collector,
		scheduler: e.scheduler,
		log:       e.log,
		onKill:    e.onKill,
	}
	e.wireBuffs()

	ac, err := skills.NewAutoCast(kit.Skills)
	if err != nil {
		return nil, fmt.Errorf("profession %s: %w", kit.Name, err)
	}
	ac.Hooks = cfg.Module
	e.autocast = ac

	if kit.AutoAttack.Interval > 0 {
		e.attack = effects.NewTrack(kit.AutoAttack.Interval)
	}
	if kit.SpecialInterval > 0 {
		e.special = effects.NewTrack(kit.SpecialInterval)
	}

	e.log.logStaticf("=== Battle %s: %s vs %s (seed %d) ===", id, cfg.Module.Name(), name, r.Seed())
	if err := cfg.Module.OnBattleStart(e.bf); err != nil {
		return nil, err
	}
	if err := e.takeFault(); err != nil {
		return nil, err
	}
	e.syncHaste()

	start := cfg.StartTime
	if cfg.ProcPulse > 0 {
		e.scheduler.Schedule(&Event{At: start, Kind: EventProcPulse})
	}
	if e.attack != nil {
		e.attackEvent = e.scheduler.Schedule(&Event{At: e.attack.Schedule(start), Kind: EventAttackTick})
	}
	if e.special != nil {
		e.specialEvent = e.scheduler.Schedule(&Event{At: e.special.Schedule(start), Kind: EventSpecialPulse})
	}
	e.startEnemies()

	e.logger.Debug("battle created",
		"battle_id", id,
		"profession", cfg.Module.Name(),
		"encounter", name,
		"enemies", len(encounter.Enemies()),
		"seed", r.Seed(),
	)
	return e, nil
}

func (e *BattleEngine) resolveEncounter() (combatant.Encounter, string, error) {
	switch {
	case e.cfg.Encounter != nil:
		enc, err := e.cfg.Encounter()
		if err != nil {
			return nil, "", fmt.Errorf("encounter provider: %w", err)
		}
		if enc == nil || len(enc.Enemies()) == 0 {
			return nil, "", ErrNoEncounter
		}
		e.logger.Debug("encounter resolved", "source", "provider")
		return enc, "provider", nil
	case len(e.cfg.Group) > 0:
		name := e.cfg.GroupID
		if name == "" {
			name = "group"
		}
		g, err := combatant.NewGroup(name, e.cfg.Group...)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %w", ErrNoEncounter, err)
		}
		e.logger.Debug("encounter resolved", "source", "group", "group", name)
		return g, name, nil
	case e.cfg.Enemy != nil:
		e.logger.Debug("encounter resolved", "source", "enemy", "enemy", e.cfg.Enemy.ID)
		return combatant.NewSingle(e.cfg.Enemy), e.cfg.Enemy.ID, nil
	}
	return nil, "", ErrNoEncounter
}

func (e *BattleEngine) wireBuffs() {
	b := e.bf.buffs
	b.Snapshot = func() effects.Snapshot {
		return effects.Snapshot{
			Haste:       e.bf.Haste(),
			AttackPower: e.bf.stats.AttackPower,
			SpellPower:  e.bf.stats.SpellPower,
		}
	}
	b.OnGain = func(inst *effects.BuffInstance, now float64) {
		e.bf.Tag("buff_apply:" + inst.Def.ID)
		e.log.logAt(now, "BUFF_GAIN %s stacks=%d until=%.2f", inst.Def.ID, inst.Stacks, inst.ExpiresAt)
	}
	b.OnRefresh = func(inst *effects.BuffInstance, now float64) {
		e.bf.Tag("buff_refresh:" + inst.Def.ID)
		e.log.logAt(now, "BUFF_REFRESH %s stacks=%d until=%.2f", inst.Def.ID, inst.Stacks, inst.ExpiresAt)
	}
	b.OnExpire = func(inst *effects.BuffInstance, now float64) {
		e.log.logAt(now, "BUFF_EXPIRE %s", inst.Def.ID)
	}
	b.OnPeriodicDamage = e.periodicDamage
	b.OnDirectHit = e.periodicHit
	b.OnResourceTick = func(inst *effects.BuffInstance, resource string, amount, at float64) {
		gained := e.bf.resources.Gain(resource, amount)
		e.collector.RecordResource(resource, gained)
		e.log.logAt(at, "RESOURCE_TICK %s %s %+.1f", inst.Def.ID, resource, gained)
	}
}

// periodicDamage lands a damage tick on the primary target.
func (e *BattleEngine) periodicDamage(inst *effects.BuffInstance, amount, at float64) {
	e.lastTick = tickHit{}
	target := e.encounter.Primary()
	if target == nil || !target.CanBeTargeted() {
		return
	}
	typ := inst.Def.TickDamageType
	dmg := int64(math.Round(amount * e.bf.buffs.Aggregate().DamageMultiplier(typ)))
	out := e.bf.dealDamageAt("dot:"+inst.Def.ID, target, dmg, typ, false, at)
	e.bf.Tag("dot_tick:" + inst.Def.ID)
	e.log.logAt(at, "DOT_TICK %s target=%s damage=%d", inst.Def.ID, target.ID(), out.Applied)
	e.lastTick = tickHit{target: target, out: out}
}

// periodicHit counts a flagged damage tick as a direct hit for the
// profession's on-hit effects.
func (e *BattleEngine) periodicHit(inst *effects.BuffInstance, amount, at float64) {
	if e.lastTick.target == nil {
		return
	}
	e.bf.Tag("on_hit:" + inst.Def.ID)
	atk := profession.Attack{
		Target:  e.lastTick.target,
		Damage:  int64(math.Round(amount)),
		Outcome: e.lastTick.out,
	}
	if err := e.module.OnAutoAttack(e.bf, atk); err != nil {
		e.setFault(fmt.Errorf("on hit %s: %w", inst.Def.ID, err))
	}
}

func (e *BattleEngine) onKill(target *combatant.Enemy, source string, at float64) {
	e.bf.Tag("kill")
	e.bf.Tag("kill:" + target.Def.ID)
	e.log.logAt(at, "DEATH %s by %s overkill=%d", target.ID(), source, target.Overkill())
	e.notify(telemetry.KindEnemyKilled, at, target.ID())
	for _, ctrl := range e.enemies {
		if ctrl.enemy == target {
			ctrl.stop()
		}
	}
}

// AdvanceTo executes every event due at or before sliceEnd, up to maxEvents
// of them (zero means unlimited). When the next event lies beyond sliceEnd
// the clock moves to sliceEnd. Periodic buff ticks due before the next event
// are run at their own time. The battle is finalized when the encounter dies
// or no events or ticks remain. Hitting maxEvents with due work left returns
// ErrEventBudget.
func (e *BattleEngine) AdvanceTo(sliceEnd float64, maxEvents int) (int, error) {
	processed := 0
	for e.state == StateRunning {
		e.syncHaste()
		ev, ok := e.scheduler.PeekNext()
		due := math.Inf(1)
		if ok {
			due = ev.At
		}
		if wake := e.bf.buffs.NextTickAt(); wake < due {
			if wake > sliceEnd {
				if sliceEnd > e.clock.Now() {
					e.clock.AdvanceTo(sliceEnd)
				}
				return processed, nil
			}
			if err := e.buffTick(wake); err != nil {
				return processed, err
			}
			continue
		}
		if !ok {
			e.FinalizeNow()
			return processed, nil
		}
		if ev.At > sliceEnd {
			if sliceEnd > e.clock.Now() {
				e.clock.AdvanceTo(sliceEnd)
			}
			return processed, nil
		}
		if maxEvents > 0 && processed >= maxEvents {
			e.logger.Warn("event budget exhausted",
				"battle_id", e.battle.ID,
				"at", e.clock.Now(),
				"slice_end", sliceEnd,
				"budget", maxEvents,
			)
			return processed, fmt.Errorf("%w: %d events before t=%.3f", ErrEventBudget, maxEvents, sliceEnd)
		}

		e.scheduler.PopNext()
		e.clock.AdvanceTo(ev.At)
		now := ev.At
		before := e.rng.Index()
		e.syncBuffs(now)

		err := e.takeFault()
		if err == nil {
			err = e.execute(ev)
		}
		if err == nil {
			err = e.takeFault()
		}
		e.collector.ObserveRng(before, e.rng.Index())
		if err != nil {
			return processed, fmt.Errorf("%s at %.3fs: %w", ev.Kind, now, err)
		}

		processed++
		e.events++
		e.collector.Tick()
		if e.collector.ShouldFlush(now) {
			e.collector.Flush(now)
		}
		if e.encounter.Dead() {
			e.FinalizeNow()
		}
	}
	return processed, nil
}

// buffTick wakes the battle for periodic ticks due before the next event.
func (e *BattleEngine) buffTick(at float64) error {
	at = max(at, e.clock.Now())
	e.clock.AdvanceTo(at)
	before := e.rng.Index()
	e.syncBuffs(at)
	err := e.takeFault()
	e.collector.ObserveRng(before, e.rng.Index())
	if err != nil {
		return fmt.Errorf("buff tick at %.3fs: %w", at, err)
	}
	if e.collector.ShouldFlush(at) {
		e.collector.Flush(at)
	}
	if e.encounter.Dead() {
		e.FinalizeNow()
	}
	return nil
}

// AdvanceUntil advances in slices of at most maxSliceSeconds (zero means a
// single slice) until target, completion or an error. The outcome is the
// same as one unbounded AdvanceTo(target).
func (e *BattleEngine) AdvanceUntil(target float64, maxEventsPerSlice int, maxSliceSeconds float64) error {
	for e.state == StateRunning {
		end := target
		if now := e.clock.Now(); maxSliceSeconds > 0 && now+maxSliceSeconds < target {
			end = now + maxSliceSeconds
		}
		if end <= e.clock.Now() {
			// The slice is below the clock's resolution.
			end = target
		}
		if _, err := e.AdvanceTo(end, maxEventsPerSlice); err != nil {
			return err
		}
		if e.clock.Now() >= target {
			return nil
		}
	}
	return nil
}

// FinalizeNow completes the battle at the current time: pending buff ticks
// are processed, the open segment is flushed and the result is frozen.
// Later calls do nothing.
func (e *BattleEngine) FinalizeNow() {
	if e.state == StateCompleted {
		return
	}
	now := e.clock.Now()
	e.syncBuffs(now)
	e.collector.ForceFlush(now)
	e.state = StateCompleted
	e.battle.Finish(now)
	e.result = e.buildResult()

	e.log.logAt(now, "BATTLE_END killed=%t damage=%d events=%d", e.result.Killed, e.result.Totals.TotalDamage, e.result.Events)
	e.logger.Debug("battle completed",
		"battle_id", e.battle.ID,
		"at", now,
		"killed", e.result.Killed,
		"events", e.result.Events,
		"truncated", e.result.Truncated,
	)
	e.notify(telemetry.KindBattleComplete, now, e.encName)
	if e.metrics != nil {
		e.metrics.RecordBattle(e.ctx, e.result.MetricsSummary())
	}
}

// Run advances to StartTime+Duration and finalizes. An exhausted event
// budget marks the result truncated instead of failing.
func (e *BattleEngine) Run() (*Result, error) {
	if e.state == StateCompleted {
		return e.result, nil
	}
	end := e.cfg.StartTime + e.cfg.Duration
	if err := e.AdvanceUntil(end, e.cfg.MaxEventsPerSlice, e.cfg.MaxSliceSeconds); err != nil {
		if !errors.Is(err, ErrEventBudget) {
			return nil, err
		}
		e.truncated = true
	}
	e.FinalizeNow()
	if err := e.takeFault(); err != nil {
		return nil, err
	}
	return e.result, nil
}

func (e *BattleEngine) Battle() *Battle                { return e.battle }
func (e *BattleEngine) Clock() *Clock                  { return e.clock }
func (e *BattleEngine) Context() *BattleContext        { return e.bf }
func (e *BattleEngine) Collector() *segments.Collector { return e.collector }
func (e *BattleEngine) State() State                   { return e.state }

// Completed reports whether the battle has been finalized.
func (e *BattleEngine) Completed() bool {
	return e.state == StateCompleted
}

// Result returns the frozen result, or nil while the battle is running.
func (e *BattleEngine) Result() *Result {
	return e.result
}

func (e *BattleEngine) execute(ev *Event) error {
	switch ev.Kind {
	case EventAttackTick:
		return e.autoAttack()
	case EventSpecialPulse:
		return e.specialPulse()
	case EventProcPulse:
		return e.procPulse()
	case EventCastComplete:
		if _, err := e.autocast.Complete(e.bf, ev.CastID); err != nil {
			return err
		}
		return e.tryCast()
	case EventCastInterrupt:
		e.autocast.Interrupt(e.bf, ev.CastID)
		return e.tryCast()
	case EventEnemyAttack:
		return e.enemyAttack(ev.Enemy)
	case EventPlayerRevive:
		return e.revive()
	default:
		return fmt.Errorf("unknown event kind %s", ev.Kind)
	}
}

func (e *BattleEngine) tryCast() error {
	if !e.player.CanAct() {
		return nil
	}
	_, err := e.autocast.TryCast(e.bf)
	return err
}

func (e *BattleEngine) autoAttack() error {
	e.attackEvent = nil
	if !e.player.CanAct() {
		return nil
	}
	now := e.clock.Now()
	if target, ok := e.bf.SelectTarget(); ok {
		aa := e.module.Kit().AutoAttack
		stats := e.bf.stats
		agg := e.bf.buffs.Aggregate()
		raw := aa.BaseDamage + stats.AttackPower*aa.APCoefficient + stats.SpellPower*aa.SPCoefficient
		crit := e.rng.Chance(stats.CritChance() + agg.CritChanceBonus)
		amount := raw * agg.DamageMultiplier(aa.DamageType)
		if crit {
			amount *= stats.EffectiveCritMultiplier() + agg.CritMultiplierBonus
		}
		dmg := int64(math.Round(amount))
		out := e.bf.DealDamage("auto_attack", target, dmg, aa.DamageType, crit)
		e.bf.Tag("auto_attack")
		outcome := "HIT"
		if crit {
			e.bf.Tag("crit:auto_attack")
			outcome = "CRIT"
		}
		e.log.logAt(now, "AUTO_ATTACK %s target=%s damage=%d", outcome, target.ID(), out.Applied)
		atk := profession.Attack{Target: target, Crit: crit, Damage: dmg, Outcome: out}
		if err := e.module.OnAutoAttack(e.bf, atk); err != nil {
			return err
		}
	}
	e.attackEvent = e.scheduler.Schedule(&Event{At: e.attack.Schedule(now), Kind: EventAttackTick})
	return e.tryCast()
}

func (e *BattleEngine) specialPulse() error {
	e.specialEvent = nil
	if !e.player.CanAct() {
		return nil
	}
	now := e.clock.Now()
	e.bf.Tag("special_pulse")
	if err := e.module.OnSpecialPulse(e.bf); err != nil {
		return err
	}
	e.specialEvent = e.scheduler.Schedule(&Event{At: e.special.Schedule(now), Kind: EventSpecialPulse})
	return e.tryCast()
}

func (e *BattleEngine) procPulse() error {
	e.scheduler.Schedule(&Event{At: e.clock.Now() + e.cfg.ProcPulse, Kind: EventProcPulse})
	return e.tryCast()
}

func (e *BattleEngine) enemyAttack(index int) error {
	if index < 0 || index >= len(e.enemies) {
		return fmt.Errorf("enemy attack: no enemy at index %d", index)
	}
	ctrl := e.enemies[index]
	ctrl.event = nil
	en := ctrl.enemy
	if !en.CanAct() {
		return nil
	}
	now := e.clock.Now()
	if e.player.CanBeTargeted() {
		hit := combatant.Hit{
			Source:        en.ID(),
			Amount:        int64(math.Round(en.Def.AttackDamage)),
			Type:          en.Def.DamageType,
			AttackerLevel: en.Def.Level,
			Rng:           e.rng,
		}
		out := e.player.ReceiveDamage(hit, now)
		e.bf.Tag("enemy_hit")
		e.collector.AddTag("damage_taken", int(out.Applied))
		if out.Blocked {
			e.bf.Tag("block")
		}
		e.log.logAt(now, "ENEMY_HIT %s damage=%d blocked=%t hp=%d", en.ID(), out.Applied, out.Blocked, e.player.HP())
		if out.Killed {
			e.playerDied(now)
		} else {
			e.checkSecondWind(now)
			e.maybeInterrupt(en, now)
		}
	}
	ctrl.schedule(e.scheduler, now)
	return nil
}

// maybeInterrupt rolls the enemy's interrupt chance against an
// interruptible cast in flight.
func (e *BattleEngine) maybeInterrupt(en *combatant.Enemy, now float64) {
	p := e.autocast.Casting()
	if p == nil || !p.Skill.Def.Interruptible || en.Def.InterruptChance <= 0 {
		return
	}
	if e.rng.Chance(en.Def.InterruptChance) {
		e.scheduler.Schedule(&Event{At: now, Kind: EventCastInterrupt, CastID: p.ID})
	}
}

func (e *BattleEngine) checkSecondWind(now float64) {
	if e.secondWind || !e.bf.perks.Has(perks.PerkSecondWind) || !e.player.CanAct() {
		return
	}
	if combatant.HealthPercent(e.player) >= perks.SecondWindHPFraction*100 {
		return
	}
	e.secondWind = true
	healed := e.player.Heal(int64(math.Round(float64(e.player.MaxHP()) * perks.SecondWindHPFraction)))
	e.bf.Tag("second_wind")
	e.log.logAt(now, "HEAL second_wind amount=%d hp=%d", healed, e.player.HP())
}

func (e *BattleEngine) playerDied(now float64) {
	e.bf.Tag("player_death")
	e.log.logAt(now, "DEATH player %s", e.player.Char.Name)
	e.notify(telemetry.KindPlayerDeath, now, e.player.ID())
	e.autocast.Abort(e.bf)
	if e.attack != nil {
		e.attack.Pause(now)
		e.attackEvent.Cancel()
		e.attackEvent = nil
	}
	if e.special != nil {
		e.special.Pause(now)
		e.specialEvent.Cancel()
		e.specialEvent = nil
	}
	if e.player.State() == combatant.StateReviving {
		e.scheduler.Schedule(&Event{At: e.player.ReviveTime(), Kind: EventPlayerRevive})
	}
}

func (e *BattleEngine) revive() error {
	now := e.clock.Now()
	if !e.player.ReviveAt(now) {
		return nil
	}
	e.secondWind = false
	e.bf.Tag("revive")
	e.log.logAt(now, "REVIVE player %s hp=%d", e.player.Char.Name, e.player.HP())
	e.notify(telemetry.KindPlayerRevive, now, e.player.ID())
	if e.attack != nil && e.attack.Paused() {
		e.attackEvent = e.scheduler.Schedule(&Event{At: e.attack.Resume(now), Kind: EventAttackTick})
	}
	if e.special != nil && e.special.Paused() {
		e.specialEvent = e.scheduler.Schedule(&Event{At: e.special.Resume(now), Kind: EventSpecialPulse})
	}
	return e.tryCast()
}

// syncHaste pushes the current haste into the player tracks. Already
// scheduled triggers keep their time.
func (e *BattleEngine) syncHaste() {
	h := e.bf.Haste()
	if e.attack != nil {
		e.attack.SetHaste(h)
	}
	if e.special != nil {
		e.special.SetHaste(h)
	}
}

func (e *BattleEngine) syncBuffs(now float64) {
	e.bf.buffs.Tick(now)
	e.syncHaste()
}

func (e *BattleEngine) notify(kind telemetry.Kind, at float64, subject string) {
	if e.notifier == nil {
		return
	}
	e.notifier.Notify(telemetry.Notification{Kind: kind, BattleID: e.battle.ID, At: at, Subject: subject})
}

func (e *BattleEngine) setFault(err error) {
	if e.fault == nil {
		e.fault = err
	}
}

func (e *BattleEngine) takeFault() error {
	err := e.fault
	e.fault = nil
	return err
}
