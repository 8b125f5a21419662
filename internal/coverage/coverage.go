// Package coverage summarizes GATK AnalyzeSaturationMutagenesis reference
// coverage tables.
package coverage

import (
	"fmt"
	"io"
	"math"

	"github.com/odcambc/dumpling-qc/internal/histogram"
	"github.com/odcambc/dumpling-qc/internal/tabular"
)

// Required refCoverage columns.
const (
	ColRefPos   = "RefPos"
	ColCoverage = "Coverage"
)

// DefaultBins is the nominal bin target. Bins ignores it once coverage
// is nonzero.
const DefaultBins = 300

// Statistic names as they appear in the general statistics table.
const (
	KeyMax  = "Max coverage"
	KeyMin  = "Min coverage"
	KeyMean = "Mean coverage"
)

// Keys lists the statistic names in display order.
var Keys = []string{KeyMax, KeyMin, KeyMean}

// Table holds the raw coverage of one sample, summed over all variants at
// each reference position.
type Table struct {
	Positions []float64
	Raw       []float64
}

// Stats holds the per-sample coverage statistics after normalization.
type Stats struct {
	MaxCoverage  int
	MinCoverage  int
	MeanCoverage float64
}

// Values returns the statistics keyed by display name.
func (s Stats) Values() map[string]float64 {
	return map[string]float64{
		KeyMax:  float64(s.MaxCoverage),
		KeyMin:  float64(s.MinCoverage),
		KeyMean: s.MeanCoverage,
	}
}

// Result is the parsed form of one coverage table.
type Result struct {
	Coverage  []int
	Histogram histogram.Histogram
	Stats     Stats
}

// Read parses a tab-delimited refCoverage table.
func Read(r io.Reader) (*Table, error) {
	t, err := tabular.Read(r, '\t', ColRefPos, ColCoverage)
	if err != nil {
		return nil, fmt.Errorf("read coverage table: %w", err)
	}
	return &Table{Positions: t.Column(ColRefPos), Raw: t.Column(ColCoverage)}, nil
}

// Normalize divides each raw coverage value by nVariants and rounds to the
// nearest integer, giving an approximate per-variant depth.
func Normalize(raw []float64, nVariants int) ([]int, error) {
	if nVariants == 0 {
		return nil, fmt.Errorf("normalize coverage: %w", histogram.ErrDivisionByZeroVariants)
	}
	out := make([]int, len(raw))
	for i, v := range raw {
		out[i] = int(math.RoundToEven(v / float64(nVariants)))
	}
	return out, nil
}

// Bins returns the number of histogram bins for a maximum normalized
// coverage: one bin per coverage level, and a single bin when coverage is
// zero.
func Bins(maxCoverage int) int {
	return max(1, maxCoverage)
}

// Summarize normalizes the coverage by nVariants, bins it and computes the
// statistics.
func (t *Table) Summarize(nVariants int) (*Result, error) {
	cov, err := Normalize(t.Raw, nVariants)
	if err != nil {
		return nil, err
	}

	values := make([]float64, len(cov))
	for i, c := range cov {
		values[i] = float64(c)
	}
	s, err := histogram.Summarize(values)
	if err != nil {
		return nil, fmt.Errorf("summarize coverage: %w", err)
	}

	stats := Stats{
		MaxCoverage:  int(s.Max),
		MinCoverage:  int(s.Min),
		MeanCoverage: s.Mean,
	}

	h, err := histogram.Cut(values, Bins(stats.MaxCoverage))
	if err != nil {
		return nil, fmt.Errorf("bin coverage: %w", err)
	}
	return &Result{Coverage: cov, Histogram: h, Stats: stats}, nil
}

// Parse reads a coverage table and summarizes it.
func Parse(r io.Reader, nVariants int) (*Result, error) {
	t, err := Read(r)
	if err != nil {
		return nil, err
	}
	return t.Summarize(nVariants)
}
