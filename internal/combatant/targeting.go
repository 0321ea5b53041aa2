package combatant

import "idle-battle-sim/internal/rng"

// SelectTarget picks a targetable candidate with probability proportional to
// its threat weight. Non-positive weights count as zero; when every weight is
// zero the choice is uniform. The last eligible candidate absorbs floating
// point slack. It draws once from r, or not at all when nothing is eligible.
func SelectTarget[T Combatant](candidates []T, r *rng.Context) (T, bool) {
	var zero T
	eligible := make([]T, 0, len(candidates))
	total := 0.0
	for _, c := range candidates {
		if !c.CanBeTargeted() {
			continue
		}
		eligible = append(eligible, c)
		if w := c.ThreatWeight(); w > 0 {
			total += w
		}
	}
	if len(eligible) == 0 {
		return zero, false
	}

	roll := r.Float64()
	if total <= 0 {
		idx := int(roll * float64(len(eligible)))
		if idx >= len(eligible) {
			idx = len(eligible) - 1
		}
		return eligible[idx], true
	}

	point := roll * total
	acc := 0.0
	for _, c := range eligible {
		if w := c.ThreatWeight(); w > 0 {
			acc += w
		}
		if point < acc {
			return c, true
		}
	}
	return eligible[len(eligible)-1], true
}
