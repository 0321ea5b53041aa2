package skills

import "idle-battle-sim/internal/combatant"

// Distribute splits total across n targets. The integer remainder goes to
// the first target when remainderToFirst is set, otherwise one extra point
// each to the first total%n targets. The parts always sum to total.
func Distribute(total int64, n int, remainderToFirst bool) []int64 {
	if n <= 0 {
		return nil
	}
	parts := make([]int64, n)
	base := total / int64(n)
	rem := total % int64(n)
	for i := range parts {
		parts[i] = base
	}
	if remainderToFirst {
		parts[0] += rem
		return parts
	}
	for i := int64(0); i < rem; i++ {
		parts[i]++
	}
	return parts
}

// selectTargets returns up to max living enemies, primary first when it is
// included and excluded entirely otherwise.
func selectTargets(primary *combatant.Enemy, alive []*combatant.Enemy, max int, includePrimary bool) []*combatant.Enemy {
	if max < 1 {
		max = 1
	}
	out := make([]*combatant.Enemy, 0, max)
	if includePrimary && primary != nil && primary.CanBeTargeted() {
		out = append(out, primary)
	}
	for _, e := range alive {
		if len(out) >= max {
			break
		}
		if e == primary {
			continue
		}
		out = append(out, e)
	}
	return out
}
