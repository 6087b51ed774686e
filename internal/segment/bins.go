package segment

import (
	"math"
	"sort"
)

// quantileEdges computes q+1 bin edges over values using linear
// interpolation between order statistics, then drops duplicate boundaries.
// Duplicate-heavy distributions therefore yield fewer than q effective bins.
// The input slice is not mutated.
func quantileEdges(values []float64, q int) []float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	n := len(sorted)
	edges := make([]float64, 0, q+1)
	for i := 0; i <= q; i++ {
		pos := float64(i) / float64(q) * float64(n-1)
		lo := int(math.Floor(pos))
		hi := int(math.Ceil(pos))
		frac := pos - float64(lo)
		edges = append(edges, sorted[lo]*(1-frac)+sorted[hi]*frac)
	}
	return dedupeEdges(edges)
}

// dedupeEdges removes repeated boundaries, keeping edges strictly ascending.
func dedupeEdges(edges []float64) []float64 {
	out := edges[:1]
	for _, e := range edges[1:] {
		if e > out[len(out)-1] {
			out = append(out, e)
		}
	}
	return out
}

// equalWidthEdges splits [min, max] into q same-width bins. A constant
// distribution has no usable range; the caller handles the nil return by
// assigning the middle label.
func equalWidthEdges(min, max float64, q int) []float64 {
	if max <= min {
		return nil
	}
	edges := make([]float64, q+1)
	width := (max - min) / float64(q)
	for i := 0; i <= q; i++ {
		edges[i] = min + width*float64(i)
	}
	edges[q] = max
	return edges
}

// cutIndex places v into a bin given ascending edges (len >= 2). Intervals
// are right-inclusive, so a value sitting exactly on a boundary falls into
// the lower-indexed bin; the first interval also contains its left edge.
// Values outside the edge range clamp to the outermost bins, which happens
// when edges were computed on a sample of the population.
func cutIndex(v float64, edges []float64) int {
	last := len(edges) - 2
	if v <= edges[0] {
		return 0
	}
	for i := 1; i < len(edges); i++ {
		if v <= edges[i] {
			return i - 1
		}
	}
	return last
}

// distinctCount returns the number of distinct values.
func distinctCount(values []float64) int {
	seen := make(map[float64]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return len(seen)
}

func minMax(values []float64) (float64, float64) {
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
