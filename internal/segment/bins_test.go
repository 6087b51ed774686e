package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantileEdges(t *testing.T) {
	values := []float64{10, 20, 30, 40, 50}

	edges := quantileEdges(values, 5)

	require.GreaterOrEqual(t, len(edges), 2)
	assert.Equal(t, 10.0, edges[0], "first edge is the minimum")
	assert.Equal(t, 50.0, edges[len(edges)-1], "last edge is the maximum")
	for i := 1; i < len(edges); i++ {
		assert.Greater(t, edges[i], edges[i-1], "edges must ascend")
	}
}

func TestQuantileEdges_DuplicatesCollapse(t *testing.T) {
	// Most of the mass sits on a single value, so several quantile
	// boundaries coincide and collapse.
	values := []float64{1, 1, 1, 1, 1, 1, 1, 1, 2, 3}

	edges := quantileEdges(values, 5)

	assert.Less(t, len(edges), 6, "duplicate boundaries must be dropped")
	for i := 1; i < len(edges); i++ {
		assert.Greater(t, edges[i], edges[i-1])
	}
}

func TestQuantileEdges_InputNotMutated(t *testing.T) {
	values := []float64{50, 10, 30, 20, 40}

	quantileEdges(values, 5)

	assert.Equal(t, []float64{50, 10, 30, 20, 40}, values)
}

func TestEqualWidthEdges(t *testing.T) {
	edges := equalWidthEdges(0, 10, 5)

	assert.Equal(t, []float64{0, 2, 4, 6, 8, 10}, edges)
}

func TestEqualWidthEdges_ConstantRange(t *testing.T) {
	assert.Nil(t, equalWidthEdges(5, 5, 5))
	assert.Nil(t, equalWidthEdges(7, 5, 5))
}

func TestCutIndex(t *testing.T) {
	edges := []float64{0, 2, 4, 6, 8, 10}

	tests := []struct {
		v    float64
		want int
	}{
		{0, 0},    // left edge belongs to the first bin
		{1, 0},
		{2, 0},    // boundary goes to the lower bin (right-inclusive)
		{2.1, 1},
		{4, 1},
		{10, 4},
		{-1, 0},   // out-of-sample values clamp
		{11, 4},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, cutIndex(tt.v, edges), "cutIndex(%v)", tt.v)
	}
}

func TestDistinctCount(t *testing.T) {
	assert.Equal(t, 3, distinctCount([]float64{1, 2, 2, 3, 3, 3}))
	assert.Equal(t, 1, distinctCount([]float64{5, 5, 5}))
}

func TestMinMax(t *testing.T) {
	min, max := minMax([]float64{3, 1, 4, 1, 5})
	assert.Equal(t, 1.0, min)
	assert.Equal(t, 5.0, max)
}
