package report

import (
	"sort"
	"strconv"

	"github.com/odcambc/dumpling-qc/internal/counts"
	"github.com/odcambc/dumpling-qc/internal/coverage"
	"github.com/odcambc/dumpling-qc/internal/histogram"
)

// Data export names.
const (
	ExportCounts       = "multiqc_dumpling_counts"
	ExportCoverage     = "multiqc_dumpling_coverage"
	ExportCountsPlot   = "multiqc_dumpling_counts_plot"
	ExportCoveragePlot = "multiqc_dumpling_coverage_plot"
)

// Export is a sample by column table of raw report data.
type Export struct {
	Name    string
	Columns []string
	Rows    map[string]map[string]float64
}

// Samples returns the export's sample names in sorted order.
func (e Export) Samples() []string {
	return Samples(e.Rows)
}

// Exports returns the four raw data exports of the report.
func (r *Report) Exports() []Export {
	return []Export{
		statsExport(ExportCounts, counts.Keys, r.CountsStats),
		statsExport(ExportCoverage, coverage.Keys, r.CoverageStats),
		histExport(ExportCountsPlot, r.CountsHist),
		histExport(ExportCoveragePlot, r.CoverageHist),
	}
}

func statsExport[S interface{ Values() map[string]float64 }](name string, keys []string, stats map[string]S) Export {
	rows := make(map[string]map[string]float64, len(stats))
	for sample, s := range stats {
		rows[sample] = s.Values()
	}
	return Export{Name: name, Columns: keys, Rows: rows}
}

func histExport(name string, hists map[string]histogram.Histogram) Export {
	rows := make(map[string]map[string]float64, len(hists))
	edges := make(map[float64]bool)
	for sample, h := range hists {
		row := make(map[string]float64, len(h))
		for _, bin := range h {
			row[FormatEdge(bin.Lower)] = float64(bin.Count)
			edges[bin.Lower] = true
		}
		rows[sample] = row
	}

	sorted := make([]float64, 0, len(edges))
	for e := range edges {
		sorted = append(sorted, e)
	}
	sort.Float64s(sorted)

	cols := make([]string, 0, len(sorted))
	seen := make(map[string]bool, len(sorted))
	for _, e := range sorted {
		c := FormatEdge(e)
		if !seen[c] {
			seen[c] = true
			cols = append(cols, c)
		}
	}
	return Export{Name: name, Columns: cols, Rows: rows}
}

// FormatEdge formats a bin edge as a column name.
func FormatEdge(e float64) string {
	return strconv.FormatFloat(e, 'g', -1, 64)
}
