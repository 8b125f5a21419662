// Package histogram provides equal-width binning and summary statistics
// for per-sample count and coverage columns.
package histogram

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrEmpty is returned when a statistic is requested over no values.
var ErrEmpty = errors.New("no values")

// Bin is one histogram bucket keyed by its lower edge.
type Bin struct {
	Lower float64 `json:"lower" yaml:"lower"`
	Count int     `json:"count" yaml:"count"`
}

// Histogram is an ordered list of bins, ascending by lower edge.
type Histogram []Bin

// Total returns the number of observations across all bins.
func (h Histogram) Total() int {
	n := 0
	for _, b := range h {
		n += b.Count
	}
	return n
}

// Edges returns the lower edge of every bin.
func (h Histogram) Edges() []float64 {
	edges := make([]float64, len(h))
	for i, b := range h {
		edges[i] = b.Lower
	}
	return edges
}

// Map returns the histogram as a lower-edge to count mapping.
func (h Histogram) Map() map[float64]int {
	m := make(map[float64]int, len(h))
	for _, b := range h {
		m[b.Lower] = b.Count
	}
	return m
}

// Single returns a one-bin histogram holding n observations at edge.
func Single(edge float64, n int) Histogram {
	return Histogram{{Lower: edge, Count: n}}
}

// Edges computes nbins+1 evenly spaced edges covering [lo, hi].
//
// A zero-width range is widened by 0.1% of |lo| (0.001 when lo is zero) on
// both sides. Otherwise the top edge is raised by 0.1% of the range so that
// hi falls inside the last half-open bin.
func Edges(lo, hi float64, nbins int) []float64 {
	if nbins < 1 {
		nbins = 1
	}
	if lo == hi {
		if lo != 0 {
			lo -= 0.001 * math.Abs(lo)
			hi += 0.001 * math.Abs(hi)
		} else {
			lo = -0.001
			hi = 0.001
		}
		return floats.Span(make([]float64, nbins+1), lo, hi)
	}
	edges := floats.Span(make([]float64, nbins+1), lo, hi)
	edges[nbins] += (hi - lo) * 0.001
	return edges
}

// Cut partitions values into nbins equal-width bins over [min, max].
// Bins are half-open [low, high) except that the lowest bin also holds
// its lower bound. Empty bins are kept.
func Cut(values []float64, nbins int) (Histogram, error) {
	if len(values) == 0 {
		return nil, ErrEmpty
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	lo, hi := sorted[0], sorted[len(sorted)-1]

	edges := Edges(lo, hi, nbins)
	nb := len(edges) - 1
	// stat.Histogram needs the maximum strictly below the top edge.
	if hi >= edges[nb] {
		edges[nb] = math.Nextafter(hi, math.Inf(1))
	}
	counts := stat.Histogram(nil, edges, sorted, nil)
	h := make(Histogram, nb)
	for i := range h {
		h[i] = Bin{Lower: edges[i], Count: int(counts[i])}
	}
	return h, nil
}

// ErrDivisionByZeroVariants is returned when a statistic must be divided by
// a designed-variant count of zero.
var ErrDivisionByZeroVariants = errors.New("number of designed variants is zero")
