// Package counts summarizes per-variant count tables produced by the
// dumpling pipeline.
package counts

import (
	"fmt"
	"io"

	"github.com/odcambc/dumpling-qc/internal/histogram"
	"github.com/odcambc/dumpling-qc/internal/tabular"
)

// ColCount is the required count column.
const ColCount = "count"

// DefaultBins is the target number of histogram bins.
const DefaultBins = 30

// Statistic names as they appear in the general statistics table.
const (
	KeyMax          = "Max counts"
	KeyMean         = "Mean counts"
	KeyMedian       = "Median counts"
	KeyZeroCounts   = "Number of zero counts"
	KeyZeroFraction = "Fraction of zero counts"
)

// Keys lists the statistic names in display order.
var Keys = []string{KeyMax, KeyMean, KeyMedian, KeyZeroCounts, KeyZeroFraction}

// Table holds the count column of one sample.
type Table struct {
	Counts []float64
}

// Rows returns the number of variants in the table.
func (t *Table) Rows() int {
	return len(t.Counts)
}

// Stats holds the per-sample count statistics.
type Stats struct {
	MaxCounts          int
	MeanCounts         float64
	MedianCounts       float64
	ZeroCounts         int
	FractionZeroCounts float64
}

// Values returns the statistics keyed by display name.
func (s Stats) Values() map[string]float64 {
	return map[string]float64{
		KeyMax:          float64(s.MaxCounts),
		KeyMean:         s.MeanCounts,
		KeyMedian:       s.MedianCounts,
		KeyZeroCounts:   float64(s.ZeroCounts),
		KeyZeroFraction: s.FractionZeroCounts,
	}
}

// Result is the parsed form of one counts table.
type Result struct {
	Histogram histogram.Histogram
	Stats     Stats
}

// Read parses a comma-separated counts table with a header line.
func Read(r io.Reader) (*Table, error) {
	t, err := tabular.Read(r, ',', ColCount)
	if err != nil {
		return nil, fmt.Errorf("read counts table: %w", err)
	}
	return &Table{Counts: t.Column(ColCount)}, nil
}

// Summarize bins the counts and computes the statistics. nVariants is the
// number of designed variants and must be positive.
func (t *Table) Summarize(nVariants int) (*Result, error) {
	s, err := histogram.Summarize(t.Counts)
	if err != nil {
		return nil, fmt.Errorf("summarize counts: %w", err)
	}
	if nVariants == 0 {
		return nil, fmt.Errorf("fraction of zero counts: %w", histogram.ErrDivisionByZeroVariants)
	}

	stats := Stats{
		MaxCounts:          int(s.Max),
		MeanCounts:         s.Mean,
		MedianCounts:       s.Median,
		ZeroCounts:         s.Zeros,
		FractionZeroCounts: float64(s.Zeros) / float64(nVariants),
	}

	// Equal-width bins over a zero-width range are undefined.
	if stats.MaxCounts == 0 {
		return &Result{Histogram: histogram.Single(0, t.Rows()), Stats: stats}, nil
	}

	h, err := histogram.Cut(t.Counts, Bins(stats.MaxCounts))
	if err != nil {
		return nil, fmt.Errorf("bin counts: %w", err)
	}
	return &Result{Histogram: h, Stats: stats}, nil
}

// Bins returns the number of histogram bins for a maximum count: never
// more bins than distinct integer count values.
func Bins(maxCounts int) int {
	return min(DefaultBins, maxCounts)
}

// Parse reads a counts table and summarizes it.
func Parse(r io.Reader, nVariants int) (*Result, error) {
	t, err := Read(r)
	if err != nil {
		return nil, err
	}
	return t.Summarize(nVariants)
}
