package engine

import (
	"encoding/json"

	"idle-battle-sim/internal/segments"
	"idle-battle-sim/internal/telemetry"
)

// Result is the frozen outcome of a finished battle.
type Result struct {
	Battle     Battle                   `json:"battle"`
	Profession string                   `json:"profession"`
	Encounter  string                   `json:"encounter"`
	Seed       uint64                   `json:"seed"`
	Segments   []segments.CombatSegment `json:"segments"`
	Totals     segments.Summary         `json:"-"`
	Killed     bool                     `json:"killed"`
	KillTime   float64                  `json:"kill_time,omitempty"`
	Overkill   int64                    `json:"overkill,omitempty"`
	Events     int                      `json:"events"`
	Deaths     int                      `json:"player_deaths"`
	Truncated  bool                     `json:"truncated,omitempty"`

	SeedIndexStart uint64 `json:"seed_index_start"`
	SeedIndexEnd   uint64 `json:"seed_index_end"`
}

// Duration is the simulated fight length in seconds.
func (r *Result) Duration() float64 {
	return r.Battle.Elapsed()
}

// DPS is total damage over the fight length.
func (r *Result) DPS() float64 {
	d := r.Duration()
	if d <= 0 {
		return 0
	}
	return float64(r.Totals.TotalDamage) / d
}

// SegmentsJSON encodes the segments. Two runs with the same inputs produce
// identical bytes.
func (r *Result) SegmentsJSON() ([]byte, error) {
	return json.Marshal(r.Segments)
}

// MetricsSummary converts the result for a telemetry.MetricsRecorder.
func (r *Result) MetricsSummary() telemetry.BattleSummary {
	return telemetry.BattleSummary{
		BattleID:     r.Battle.ID,
		Profession:   r.Profession,
		Encounter:    r.Encounter,
		Seed:         r.Seed,
		Duration:     r.Duration(),
		Events:       r.Events,
		Segments:     len(r.Segments),
		TotalDamage:  r.Totals.TotalDamage,
		DPS:          r.DPS(),
		Killed:       r.Killed,
		KillTime:     r.KillTime,
		PlayerDeaths: r.Deaths,
		RngDraws:     r.SeedIndexEnd - r.SeedIndexStart,
		Truncated:    r.Truncated,
	}
}

func (e *BattleEngine) buildResult() *Result {
	segs := e.collector.Segments()
	res := &Result{
		Battle:         *e.battle,
		Profession:     e.module.Name(),
		Encounter:      e.encName,
		Seed:           e.rng.Seed(),
		Segments:       segs,
		Totals:         segments.Summarize(segs),
		Killed:         e.encounter.Dead(),
		Events:         e.events,
		Deaths:         e.player.Deaths,
		Truncated:      e.truncated,
		SeedIndexStart: e.seedStart,
		SeedIndexEnd:   e.rng.Index(),
	}
	if res.Killed {
		res.KillTime = e.encounter.KillTime()
		res.Overkill = e.encounter.Overkill()
	}
	return res
}
