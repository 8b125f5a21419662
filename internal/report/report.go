// Package report builds the dumpling report payload from discovered counts
// and coverage tables.
package report

import (
	"io"
	"sort"

	"go.uber.org/zap"

	"github.com/odcambc/dumpling-qc/internal/config"
	"github.com/odcambc/dumpling-qc/internal/counts"
	"github.com/odcambc/dumpling-qc/internal/coverage"
	"github.com/odcambc/dumpling-qc/internal/histogram"
)

// Input is a sample table supplied by the file discovery step.
type Input interface {
	SampleName() string
	Open() (io.ReadCloser, error)
}

// Inputs groups the discovered tables by kind.
type Inputs struct {
	Counts   []Input
	Coverage []Input
}

// Report is the payload handed to the renderer and the data exporters.
type Report struct {
	Module ModuleInfo `json:"module" yaml:"module"`

	NVariants         int  `json:"n_variants" yaml:"n_variants"`
	NVariantsInferred bool `json:"n_variants_inferred,omitempty" yaml:"n_variants_inferred,omitempty"`
	ORFLength         int  `json:"orf_length,omitempty" yaml:"orf_length,omitempty"`

	CountsStats    map[string]counts.Stats        `json:"-" yaml:"-"`
	CountsHist     map[string]histogram.Histogram `json:"-" yaml:"-"`
	CoverageStats  map[string]coverage.Stats      `json:"-" yaml:"-"`
	CoverageHist   map[string]histogram.Histogram `json:"-" yaml:"-"`
	GeneralStats   map[string]map[string]float64  `json:"general_stats" yaml:"general_stats"`
	Headers        []Header                       `json:"headers" yaml:"headers"`
	Plots          []LinePlot                     `json:"plots" yaml:"plots"`
	Sections       []Section                      `json:"sections" yaml:"sections"`
	Skipped        []*SampleError                 `json:"-" yaml:"-"`
	SkippedSamples []SkippedSample                `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// SkippedSample is the serialized form of a SampleError.
type SkippedSample struct {
	Kind   string `json:"kind" yaml:"kind"`
	Sample string `json:"sample" yaml:"sample"`
	Error  string `json:"error" yaml:"error"`
}

// Builder assembles a Report from one run context.
type Builder struct {
	ctx    *config.RunContext
	filter *SampleFilter
	logger *zap.Logger
}

// NewBuilder creates a builder for the run context, compiling its sample
// ignore rules.
func NewBuilder(ctx *config.RunContext) (*Builder, error) {
	filter, err := NewSampleFilter(ctx.SampleNamesIgnore, ctx.SampleNamesIgnoreRe)
	if err != nil {
		return nil, err
	}
	logger := ctx.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{ctx: ctx, filter: filter, logger: logger}, nil
}

// Build parses every counts and coverage table, drops ignored samples and
// assembles the report. Samples that fail to parse are skipped and listed
// in Report.Skipped. It returns ErrNoCountsSamples or ErrNoCoverageSamples
// when nothing usable remains.
func Build(ctx *config.RunContext, in Inputs) (*Report, error) {
	b, err := NewBuilder(ctx)
	if err != nil {
		return nil, err
	}
	return b.Build(in)
}

// Build runs the report-building step.
func (b *Builder) Build(in Inputs) (*Report, error) {
	r := &Report{
		Module:        Module,
		ORFLength:     b.ctx.ORFLength,
		CountsStats:   make(map[string]counts.Stats),
		CountsHist:    make(map[string]histogram.Histogram),
		CoverageStats: make(map[string]coverage.Stats),
		CoverageHist:  make(map[string]histogram.Histogram),
	}
	_, known := b.ctx.Variants()

	for _, src := range in.Counts {
		res, err := b.parseCounts(src)
		if err != nil {
			b.skip(r, KindCounts, src, err)
			continue
		}
		r.CountsHist[src.SampleName()] = res.Histogram
		r.CountsStats[src.SampleName()] = res.Stats
	}

	for _, src := range in.Coverage {
		res, err := b.parseCoverage(src)
		if err != nil {
			b.skip(r, KindCoverage, src, err)
			continue
		}
		r.CoverageHist[src.SampleName()] = res.Histogram
		r.CoverageStats[src.SampleName()] = res.Stats
	}

	r.NVariants, _ = b.ctx.Variants()
	r.NVariantsInferred = !known

	r.CountsHist = filterSamples(b.filter, r.CountsHist)
	r.CountsStats = filterSamples(b.filter, r.CountsStats)
	r.CoverageHist = filterSamples(b.filter, r.CoverageHist)
	r.CoverageStats = filterSamples(b.filter, r.CoverageStats)
	r.Skipped, r.SkippedSamples = b.filterSkipped(r.Skipped)

	if len(r.CountsHist) == 0 {
		b.logger.Debug("could not find any counts files")
		return nil, ErrNoCountsSamples
	}
	b.logger.Info("found processed count files", zap.Int("count", len(r.CountsHist)))

	if len(r.CoverageStats) == 0 {
		b.logger.Debug("could not find any coverage reports")
		return nil, ErrNoCoverageSamples
	}
	b.logger.Info("found coverage report files", zap.Int("count", len(r.CoverageStats)))

	r.GeneralStats = generalStats(r)
	r.Headers = Headers
	r.Plots = []LinePlot{countsPlot(r.CountsHist), coveragePlot(r.CoverageHist)}
	r.Sections = sections
	return r, nil
}

func (b *Builder) parseCounts(src Input) (*counts.Result, error) {
	rc, err := src.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	t, err := counts.Read(rc)
	if err != nil {
		return nil, err
	}

	n, ok := b.ctx.Variants()
	if !ok {
		n = t.Rows()
		b.logger.Warn("number of variants not set, inferring from counts file",
			zap.String("sample", src.SampleName()),
			zap.Int("n_variants", n))
		b.ctx.SetVariants(n)
	}
	return t.Summarize(n)
}

func (b *Builder) parseCoverage(src Input) (*coverage.Result, error) {
	rc, err := src.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	t, err := coverage.Read(rc)
	if err != nil {
		return nil, err
	}

	n, _ := b.ctx.Variants()
	res, err := t.Summarize(n)
	if err != nil {
		return nil, err
	}
	b.logger.Debug("binned coverage",
		zap.String("sample", src.SampleName()),
		zap.Int("bins", len(res.Histogram)))
	return res, nil
}

// filterSkipped drops ignored samples from the skipped list and rebuilds
// its serialized form.
func (b *Builder) filterSkipped(in []*SampleError) ([]*SampleError, []SkippedSample) {
	var (
		kept []*SampleError
		out  []SkippedSample
	)
	for _, se := range in {
		if b.filter.Ignored(se.Sample) {
			continue
		}
		kept = append(kept, se)
		out = append(out, SkippedSample{Kind: se.Kind, Sample: se.Sample, Error: se.Message()})
	}
	return kept, out
}

func (b *Builder) skip(r *Report, kind string, src Input, err error) {
	se := &SampleError{Kind: kind, Sample: src.SampleName(), Err: err}
	if p, ok := src.(interface{ FilePath() string }); ok {
		se.Path = p.FilePath()
	}
	b.logger.Warn("skipping sample",
		zap.String("kind", kind),
		zap.String("sample", se.Sample),
		zap.String("path", se.Path),
		zap.Error(err))
	r.Skipped = append(r.Skipped, se)
}

// generalStats merges counts and coverage statistics per sample.
func generalStats(r *Report) map[string]map[string]float64 {
	out := make(map[string]map[string]float64)
	row := func(sample string) map[string]float64 {
		if out[sample] == nil {
			out[sample] = make(map[string]float64)
		}
		return out[sample]
	}
	for sample, s := range r.CountsStats {
		for k, v := range s.Values() {
			row(sample)[k] = v
		}
	}
	for sample, s := range r.CoverageStats {
		for k, v := range s.Values() {
			row(sample)[k] = v
		}
	}
	return out
}

// Samples returns the sorted keys of a per-sample mapping.
func Samples[T any](m map[string]T) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
