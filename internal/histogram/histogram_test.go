package histogram

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCut_EqualWidth(t *testing.T) {
	h, err := Cut([]float64{0, 1, 2, 3, 4}, 4)
	require.NoError(t, err)
	require.Len(t, h, 4)

	assert.Equal(t, []float64{0, 1, 2, 3}, h.Edges())
	// the maximum lands in the last bin
	assert.Equal(t, []int{1, 1, 1, 2}, []int{h[0].Count, h[1].Count, h[2].Count, h[3].Count})
	assert.Equal(t, 5, h.Total())
}

func TestCut_HalfOpenBins(t *testing.T) {
	// edges 0, 5, 10 (+0.01)
	h, err := Cut([]float64{0, 4.99, 5, 9, 10}, 2)
	require.NoError(t, err)
	require.Len(t, h, 2)
	assert.Equal(t, 2, h[0].Count)
	assert.Equal(t, 3, h[1].Count)
}

func TestCut_KeepsEmptyBins(t *testing.T) {
	h, err := Cut([]float64{0, 0, 0, 10}, 10)
	require.NoError(t, err)
	require.Len(t, h, 10)
	assert.Equal(t, 3, h[0].Count)
	assert.Equal(t, 1, h[9].Count)
	for _, b := range h[1:9] {
		assert.Zero(t, b.Count)
	}
}

func TestCut_AscendingEdges(t *testing.T) {
	h, err := Cut([]float64{3, 17, 42, 8, 0, 99, 23}, 30)
	require.NoError(t, err)
	require.Len(t, h, 30)
	for i := 1; i < len(h); i++ {
		assert.Less(t, h[i-1].Lower, h[i].Lower)
	}
	assert.Equal(t, 7, h.Total())
}

func TestCut_UnsortedNegativeInput(t *testing.T) {
	values := []float64{4, -4, 0, 2, -2}
	h, err := Cut(values, 4)
	require.NoError(t, err)

	assert.Equal(t, []float64{-4, -2, 0, 2}, h.Edges())
	assert.Equal(t, []int{1, 1, 1, 2}, []int{h[0].Count, h[1].Count, h[2].Count, h[3].Count})
	assert.Equal(t, []float64{4, -4, 0, 2, -2}, values)
}

func TestCut_ConstantValues(t *testing.T) {
	h, err := Cut([]float64{5, 5, 5}, 5)
	require.NoError(t, err)
	require.Len(t, h, 5)
	assert.Equal(t, 3, h.Total())
	assert.InDelta(t, 4.995, h[0].Lower, 1e-9)
}

func TestCut_AllZero(t *testing.T) {
	h, err := Cut([]float64{0, 0}, 1)
	require.NoError(t, err)
	require.Len(t, h, 1)
	assert.InDelta(t, -0.001, h[0].Lower, 1e-12)
	assert.Equal(t, 2, h[0].Count)
}

func TestCut_Empty(t *testing.T) {
	_, err := Cut(nil, 3)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestEdges_NonPositiveBins(t *testing.T) {
	edges := Edges(0, 10, 0)
	require.Len(t, edges, 2)
	assert.Equal(t, 0.0, edges[0])
	assert.InDelta(t, 10.01, edges[1], 1e-9)
}

func TestHistogram_Map(t *testing.T) {
	h := Single(0, 12)
	assert.Equal(t, map[float64]int{0: 12}, h.Map())
}

func TestSummarize(t *testing.T) {
	s, err := Summarize([]float64{0, 2, 4, 0, 9})
	require.NoError(t, err)
	assert.Equal(t, 5, s.N)
	assert.Equal(t, 0.0, s.Min)
	assert.Equal(t, 9.0, s.Max)
	assert.InDelta(t, 3.0, s.Mean, 1e-12)
	assert.Equal(t, 2.0, s.Median)
	assert.Equal(t, 2, s.Zeros)
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"odd", []float64{3, 1, 2}, 2},
		{"even", []float64{4, 1, 3, 2}, 2.5},
		{"single", []float64{7}, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Median(tt.values))
		})
	}
	assert.True(t, math.IsNaN(Median(nil)))
}

func TestMedian_DoesNotReorder(t *testing.T) {
	values := []float64{3, 1, 2}
	Median(values)
	assert.Equal(t, []float64{3, 1, 2}, values)
}
