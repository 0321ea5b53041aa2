package engine

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"idle-battle-sim/internal/segments"
)

// Report averages the results of several iterations of the same setup.
type Report struct {
	Profession string
	Encounter  string
	Iterations int

	AvgDuration float64
	AvgDPS      float64
	MinDPS      float64
	MaxDPS      float64
	AvgDamage   float64
	KillRate    float64
	AvgKillTime float64
	AvgDeaths   float64
	Truncated   int

	Totals segments.Summary
}

// NewReport folds results into a report. It returns nil for no results.
func NewReport(results []*Result) *Report {
	if len(results) == 0 {
		return nil
	}
	r := &Report{
		Profession: results[0].Profession,
		Encounter:  results[0].Encounter,
		Iterations: len(results),
	}
	var all []segments.CombatSegment
	kills := 0
	for i, res := range results {
		dps := res.DPS()
		if i == 0 || dps < r.MinDPS {
			r.MinDPS = dps
		}
		if i == 0 || dps > r.MaxDPS {
			r.MaxDPS = dps
		}
		r.AvgDPS += dps
		r.AvgDuration += res.Duration()
		r.AvgDamage += float64(res.Totals.TotalDamage)
		r.AvgDeaths += float64(res.Deaths)
		if res.Killed {
			kills++
			r.AvgKillTime += res.KillTime - res.Battle.StartTime
		}
		if res.Truncated {
			r.Truncated++
		}
		all = append(all, res.Segments...)
	}
	n := float64(len(results))
	r.AvgDPS /= n
	r.AvgDuration /= n
	r.AvgDamage /= n
	r.AvgDeaths /= n
	r.KillRate = float64(kills) / n * 100
	if kills > 0 {
		r.AvgKillTime /= float64(kills)
	}
	r.Totals = segments.Summarize(all)
	return r
}

// Write prints the report as a plain text table.
func (r *Report) Write(w io.Writer) {
	line := strings.Repeat("-", 56)
	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, "Battle Results")
	fmt.Fprintln(w, "========================================")
	fmt.Fprintf(w, "Profession: %s\n", r.Profession)
	fmt.Fprintf(w, "Encounter: %s\n", r.Encounter)
	fmt.Fprintf(w, "Iterations: %d\n", r.Iterations)
	fmt.Fprintf(w, "Avg Duration: %.2fs\n", r.AvgDuration)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Average DPS: %.2f (min %.2f, max %.2f)\n", r.AvgDPS, r.MinDPS, r.MaxDPS)
	fmt.Fprintf(w, "Average Damage: %.0f\n", r.AvgDamage)
	fmt.Fprintf(w, "Kill Rate: %.1f%%\n", r.KillRate)
	if r.KillRate > 0 {
		fmt.Fprintf(w, "Avg Kill Time: %.2fs\n", r.AvgKillTime)
	}
	if r.AvgDeaths > 0 {
		fmt.Fprintf(w, "Avg Player Deaths: %.2f\n", r.AvgDeaths)
	}
	if r.Truncated > 0 {
		fmt.Fprintf(w, "Truncated Runs: %d\n", r.Truncated)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Damage Breakdown (average per iteration):")
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "%-24s | %12s | %7s\n", "Source", "Damage", "Share")
	fmt.Fprintln(w, line)
	n := float64(r.Iterations)
	for _, row := range r.Totals.Breakdown() {
		fmt.Fprintf(w, "%-24s | %12.0f | %6.2f%%\n", row.Source, float64(row.Damage)/n, row.Share)
	}
	fmt.Fprintln(w, line)
	fmt.Fprintln(w)

	if len(r.Totals.Tags) > 0 {
		fmt.Fprintln(w, "Events (average per iteration):")
		tags := make([]string, 0, len(r.Totals.Tags))
		for tag := range r.Totals.Tags {
			tags = append(tags, tag)
		}
		sort.Strings(tags)
		for _, tag := range tags {
			fmt.Fprintf(w, "  %-30s %8.2f\n", tag, float64(r.Totals.Tags[tag])/n)
		}
	}
	if len(r.Totals.ResourceFlow) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Resource Flow (average per iteration):")
		ids := make([]string, 0, len(r.Totals.ResourceFlow))
		for id := range r.Totals.ResourceFlow {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			fmt.Fprintf(w, "  %-30s %+8.1f\n", id, r.Totals.ResourceFlow[id]/n)
		}
	}
}
