package segment

import (
	"math/rand"
	"sort"
)

// Sampler bounds the population used for quantile-edge computation. The
// seed is fixed so two runs against the same snapshot produce identical
// edges, and with them identical scores.
type Sampler struct {
	MaxPopulation int
	Seed          int64
}

// Pick returns a fixed-seed random subset of values when the population
// exceeds the cap, otherwise the values themselves. Sampled indexes are
// re-sorted into input order so the draw is independent of value ordering
// quirks upstream.
func (s Sampler) Pick(values []float64) []float64 {
	if s.MaxPopulation <= 0 || len(values) <= s.MaxPopulation {
		return values
	}

	rng := rand.New(rand.NewSource(s.Seed))
	idx := rng.Perm(len(values))[:s.MaxPopulation]
	sort.Ints(idx)

	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = values[j]
	}
	return out
}
