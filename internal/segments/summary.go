package segments

import "sort"

// Summary folds a run's segments into battle totals.
type Summary struct {
	Events         int
	TotalDamage    int64
	DamageBySource map[string]int64
	DamageByType   map[string]int64
	Tags           map[string]int
	ResourceFlow   map[string]float64
	RngIndexStart  uint64
	RngIndexEnd    uint64
}

// Summarize adds up segs.
func Summarize(segs []CombatSegment) Summary {
	sum := Summary{
		DamageBySource: make(map[string]int64),
		DamageByType:   make(map[string]int64),
		Tags:           make(map[string]int),
		ResourceFlow:   make(map[string]float64),
	}
	for i, seg := range segs {
		if i == 0 {
			sum.RngIndexStart = seg.RngIndexStart
		}
		sum.RngIndexEnd = max(sum.RngIndexEnd, seg.RngIndexEnd)
		sum.Events += seg.EventCount
		sum.TotalDamage += seg.TotalDamage
		for k, v := range seg.DamageBySource {
			sum.DamageBySource[k] += v
		}
		for k, v := range seg.DamageByType {
			sum.DamageByType[k] += v
		}
		for k, v := range seg.Tags {
			sum.Tags[k] += v
		}
		for k, v := range seg.ResourceFlow {
			sum.ResourceFlow[k] += v
		}
	}
	return sum
}

// SourceShare is one row of a damage breakdown.
type SourceShare struct {
	Source string
	Damage int64
	Share  float64 // percentage of total
}

// Breakdown returns damage per source, largest first.
func (s Summary) Breakdown() []SourceShare {
	rows := make([]SourceShare, 0, len(s.DamageBySource))
	for src, dmg := range s.DamageBySource {
		share := 0.0
		if s.TotalDamage > 0 {
			share = float64(dmg) / float64(s.TotalDamage) * 100.0
		}
		rows = append(rows, SourceShare{Source: src, Damage: dmg, Share: share})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Damage == rows[j].Damage {
			return rows[i].Source < rows[j].Source
		}
		return rows[i].Damage > rows[j].Damage
	})
	return rows
}
