package report

import (
	"github.com/odcambc/dumpling-qc/internal/counts"
	"github.com/odcambc/dumpling-qc/internal/coverage"
	"github.com/odcambc/dumpling-qc/internal/histogram"
)

// ModuleInfo describes the report module.
type ModuleInfo struct {
	Name   string `json:"name" yaml:"name"`
	Anchor string `json:"anchor" yaml:"anchor"`
	Href   string `json:"href" yaml:"href"`
	Info   string `json:"info" yaml:"info"`
}

// Module is the dumpling report module description.
var Module = ModuleInfo{
	Name:   "Dumpling",
	Anchor: "dumpling",
	Href:   "https://github.com/odcambc/dumpling",
	Info:   " is a module for conducting quality checks of DMS libraries.",
}

// Header describes one general statistics column.
type Header struct {
	Key         string  `json:"key" yaml:"key"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description" yaml:"description"`
	Min         float64 `json:"min" yaml:"min"`
	Scale       string  `json:"scale" yaml:"scale"`
}

const defaultScale = "RdYlGn-rev"

// Headers are the general statistics columns in display order.
var Headers = []Header{
	{
		Key:         counts.KeyMax,
		Title:       "Max variant counts",
		Description: "The maximum number of counts for a variant in the sample.",
		Scale:       defaultScale,
	},
	{
		Key:         counts.KeyMean,
		Title:       "Mean variant counts",
		Description: "The mean number of counts for a variant in the sample.",
		Scale:       defaultScale,
	},
	{
		Key:         counts.KeyMedian,
		Title:       "Median sequencing depth",
		Description: "The median number of counts for a variant in the sample.",
		Scale:       defaultScale,
	},
	{
		Key:         counts.KeyZeroCounts,
		Title:       "Number of zero counts",
		Description: "The number of variants with zero counts in the sample (i.e., missing).",
		Scale:       defaultScale,
	},
	{
		Key:         counts.KeyZeroFraction,
		Title:       "Fraction of zero counts",
		Description: "The fraction of variants with zero counts.",
		Scale:       defaultScale,
	},
	{
		Key:         coverage.KeyMax,
		Title:       "Max sequencing depth",
		Description: "The maximum sequencing depth of a position in the reference.",
		Scale:       defaultScale,
	},
	{
		Key:         coverage.KeyMin,
		Title:       "Min sequencing depth",
		Description: "The minimum sequencing depth of a position in the reference.",
		Scale:       defaultScale,
	},
	{
		Key:         coverage.KeyMean,
		Title:       "Mean sequencing depth",
		Description: "The mean sequencing depth of a position in the reference.",
		Scale:       defaultScale,
	},
}

// LinePlot is a per-sample histogram plot.
type LinePlot struct {
	ID           string                         `json:"id" yaml:"id"`
	Title        string                         `json:"title" yaml:"title"`
	YLab         string                         `json:"ylab" yaml:"ylab"`
	XLab         string                         `json:"xlab" yaml:"xlab"`
	YMin         float64                        `json:"ymin" yaml:"ymin"`
	LogSwitch    bool                           `json:"logswitch" yaml:"logswitch"`
	SmoothPoints int                            `json:"smooth_points,omitempty" yaml:"smooth_points,omitempty"`
	Data         map[string]histogram.Histogram `json:"data" yaml:"data"`
}

// Plot IDs.
const (
	PlotCountsHist   = "dumpling_counts_hist"
	PlotCoverageHist = "dumpling_coverage_hist"
)

func countsPlot(data map[string]histogram.Histogram) LinePlot {
	return LinePlot{
		ID:        PlotCountsHist,
		Title:     "Variant count histogram",
		YLab:      "Number of variants",
		XLab:      "Counts of variant in sample",
		LogSwitch: true,
		Data:      data,
	}
}

func coveragePlot(data map[string]histogram.Histogram) LinePlot {
	return LinePlot{
		ID:           PlotCoverageHist,
		Title:        "Coverage histogram",
		YLab:         "Number of positions",
		XLab:         "Coverage (read depth)",
		SmoothPoints: 30,
		LogSwitch:    true,
		Data:         data,
	}
}

// Section is a report section accompanying a plot.
type Section struct {
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Anchor      string `json:"anchor" yaml:"anchor"`
	Description string `json:"description" yaml:"description"`
	HelpText    string `json:"helptext" yaml:"helptext"`
	Plot        string `json:"plot" yaml:"plot"`
}

const countsHelp = `This plot is useful for determining the quality of a library. In an ideal case,
all variants will be incorporated into the library at the same frequency. In
this case, we will expect the observed counts to be poisson distributed with a mean
equal to the coverage depth. In general, there will be some variability during library
generation, some selection during library amplification, and some sequencing error.
These will all contribute to a distribution of counts that will differ from the ideal.

A major problem for a library would be a large number of missing variants. This can be
identified here as a spike at 0 counts. We can model this distribution as a zero-inflated
poisson distribution. We can then use the observed distribution to estimate the parameters
of the model and determine the probability of missing a variant. This can be used to
determine whether the library is of sufficient quality to proceed with analysis.`

const coverageHelp = "Help text for coverage histogram."

var sections = []Section{
	{
		Name:        "Variant counts",
		Anchor:      PlotCountsHist,
		Description: "This plot shows the distribution of numbers of observations of variants in a sample.",
		HelpText:    countsHelp,
		Plot:        PlotCountsHist,
	},
	{
		Name:        "Coverage",
		Anchor:      PlotCoverageHist,
		Description: "This plot shows the sequencing depth of the target gene.",
		HelpText:    coverageHelp,
		Plot:        PlotCoverageHist,
	},
}
