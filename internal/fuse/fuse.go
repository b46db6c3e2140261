// Package fuse combines the ensemble probability with the rule-based logic
// score into a single adjusted fact probability.
package fuse

// DefaultWeight is the default influence of the logic score on the final
// probability.
const DefaultWeight = 0.1

// Fuse computes clamp(ensembleProb + weight*logicScore, 0, 1). The logic
// score is unbounded, so out-of-range intermediate sums are expected and
// clamped rather than rejected.
func Fuse(ensembleProb, logicScore, weight float64) float64 {
	return clamp(ensembleProb+weight*logicScore, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
