package report

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/odcambc/dumpling-qc/internal/config"
	"github.com/odcambc/dumpling-qc/internal/counts"
	"github.com/odcambc/dumpling-qc/internal/coverage"
	"github.com/odcambc/dumpling-qc/internal/histogram"
)

type memInput struct {
	name string
	data string
	err  error
}

func (m memInput) SampleName() string { return m.name }

func (m memInput) Open() (io.ReadCloser, error) {
	if m.err != nil {
		return nil, m.err
	}
	return io.NopCloser(strings.NewReader(m.data)), nil
}

func countsInput(name string, values ...int) Input {
	var b strings.Builder
	b.WriteString("mutation,length,hgvs,count\n")
	for i, v := range values {
		fmt.Fprintf(&b, "M%d,1,p.Ala%dGly,%d\n", i, i+1, v)
	}
	return memInput{name: name, data: b.String()}
}

func coverageInput(name string, values ...int) Input {
	var b strings.Builder
	b.WriteString("RefPos\tCoverage\n")
	for i, v := range values {
		fmt.Fprintf(&b, "%d\t%d\n", i+1, v)
	}
	return memInput{name: name, data: b.String()}
}

func newContext(t *testing.T, nVariants int) (*config.RunContext, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := config.NewRunContext(zap.New(core))
	if nVariants >= 0 {
		ctx.SetVariants(nVariants)
	}
	return ctx, logs
}

func sampleInputs() Inputs {
	return Inputs{
		Counts: []Input{
			countsInput("lib_a", 0, 1, 2, 3, 4),
			countsInput("lib_b", 5, 5, 0, 10, 0),
		},
		Coverage: []Input{
			coverageInput("lib_a", 100, 200, 300),
			coverageInput("lib_b", 50, 50, 50),
		},
	}
}

func TestBuild(t *testing.T) {
	ctx, _ := newContext(t, 10)

	r, err := Build(ctx, sampleInputs())
	require.NoError(t, err)

	assert.Equal(t, 10, r.NVariants)
	assert.False(t, r.NVariantsInferred)
	assert.Equal(t, []string{"lib_a", "lib_b"}, Samples(r.CountsStats))
	assert.Equal(t, []string{"lib_a", "lib_b"}, Samples(r.CoverageHist))

	assert.Equal(t, 2, r.CountsStats["lib_b"].ZeroCounts)
	assert.InDelta(t, 0.2, r.CountsStats["lib_b"].FractionZeroCounts, 1e-12)
	assert.Equal(t, 30, r.CoverageStats["lib_a"].MaxCoverage)
	assert.Equal(t, 5, r.CoverageStats["lib_b"].MinCoverage)

	// counts and coverage columns merge into one row per sample
	row := r.GeneralStats["lib_a"]
	assert.Equal(t, 4.0, row[counts.KeyMax])
	assert.Equal(t, 20.0, row[coverage.KeyMean])

	require.Len(t, r.Plots, 2)
	assert.Equal(t, PlotCountsHist, r.Plots[0].ID)
	assert.Equal(t, PlotCoverageHist, r.Plots[1].ID)
	assert.Equal(t, 30, r.Plots[1].SmoothPoints)
	assert.Len(t, r.Plots[0].Data, 2)
	require.Len(t, r.Sections, 2)
	assert.Equal(t, "Help text for coverage histogram.", r.Sections[1].HelpText)
	assert.Equal(t, "This plot shows the sequencing depth of the target gene.", r.Sections[1].Description)
	assert.Len(t, r.Headers, 8)
	assert.Empty(t, r.Skipped)
}

func TestBuild_IgnoredSamples(t *testing.T) {
	ctx, _ := newContext(t, 10)
	ctx.SampleNamesIgnore = []string{"*_b"}

	r, err := Build(ctx, sampleInputs())
	require.NoError(t, err)

	assert.Equal(t, []string{"lib_a"}, Samples(r.CountsStats))
	assert.Equal(t, Samples(r.CountsStats), Samples(r.CountsHist))
	assert.Equal(t, Samples(r.CoverageStats), Samples(r.CoverageHist))
	assert.NotContains(t, r.GeneralStats, "lib_b")
}

func TestBuild_IgnoredSamplesRegex(t *testing.T) {
	ctx, _ := newContext(t, 10)
	ctx.SampleNamesIgnoreRe = []string{"^lib_a$"}

	r, err := Build(ctx, sampleInputs())
	require.NoError(t, err)
	assert.Equal(t, []string{"lib_b"}, Samples(r.CoverageStats))
	assert.Equal(t, []string{"lib_b"}, Samples(r.CountsHist))
}

func TestBuild_NoSamples(t *testing.T) {
	ctx, _ := newContext(t, 10)

	_, err := Build(ctx, Inputs{Coverage: []Input{coverageInput("lib_a", 10)}})
	assert.ErrorIs(t, err, ErrNoCountsSamples)
	assert.ErrorIs(t, err, ErrNoSamplesFound)
	assert.NotErrorIs(t, err, ErrNoCoverageSamples)

	_, err = Build(ctx, Inputs{Counts: []Input{countsInput("lib_a", 1, 2)}})
	assert.ErrorIs(t, err, ErrNoCoverageSamples)
	assert.ErrorIs(t, err, ErrNoSamplesFound)
	assert.NotErrorIs(t, err, ErrNoCountsSamples)
}

func TestBuild_AllIgnored(t *testing.T) {
	ctx, _ := newContext(t, 10)
	ctx.SampleNamesIgnore = []string{"lib_*"}

	_, err := Build(ctx, sampleInputs())
	assert.ErrorIs(t, err, ErrNoCountsSamples)
}

func TestBuild_InfersVariants(t *testing.T) {
	ctx, logs := newContext(t, -1)

	r, err := Build(ctx, Inputs{
		Counts:   []Input{countsInput("lib_a", 0, 3, 4, 1), countsInput("lib_b", 1, 1)},
		Coverage: []Input{coverageInput("lib_a", 40, 80)},
	})
	require.NoError(t, err)

	assert.Equal(t, 4, r.NVariants)
	assert.True(t, r.NVariantsInferred)
	assert.InDelta(t, 0.25, r.CountsStats["lib_a"].FractionZeroCounts, 1e-12)
	assert.Equal(t, 20, r.CoverageStats["lib_a"].MaxCoverage)
	assert.Equal(t, 1, logs.FilterMessage("number of variants not set, inferring from counts file").Len())
}

func TestBuild_ZeroVariantsSkipsSamples(t *testing.T) {
	ctx, logs := newContext(t, 0)

	_, err := Build(ctx, sampleInputs())
	assert.ErrorIs(t, err, ErrNoCountsSamples)

	skipped := logs.FilterMessage("skipping sample")
	assert.Equal(t, 4, skipped.Len())
	for _, entry := range skipped.All() {
		assert.Equal(t, zapcore.WarnLevel, entry.Level)
	}
}

func TestBuild_SkipsMalformedSample(t *testing.T) {
	ctx, _ := newContext(t, 10)
	in := sampleInputs()
	in.Counts = append(in.Counts,
		memInput{name: "broken", data: "mutation,length,hgvs\nM1,1,p.A1G\n"},
		memInput{name: "unreadable", err: errors.New("permission denied")},
	)

	r, err := Build(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, []string{"lib_a", "lib_b"}, Samples(r.CountsStats))
	require.Len(t, r.Skipped, 2)
	assert.Equal(t, "broken", r.Skipped[0].Sample)
	assert.Equal(t, KindCounts, r.Skipped[0].Kind)
	assert.Contains(t, r.Skipped[0].Error(), "count")
	assert.Equal(t, "unreadable", r.Skipped[1].Sample)
	require.Len(t, r.SkippedSamples, 2)
	assert.Equal(t, "permission denied", r.SkippedSamples[1].Error)
}

func TestBuild_NonFiniteCountSkipsSample(t *testing.T) {
	ctx, logs := newContext(t, 3)
	in := sampleInputs()
	in.Counts = append(in.Counts, memInput{
		name: "lib_nan",
		data: "mutation,length,hgvs,count\nM1,1,p.A1G,1\nM2,1,p.A1C,nan\nM3,1,p.A1T,3\n",
	})

	r, err := Build(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, []string{"lib_a", "lib_b"}, Samples(r.CountsStats))
	require.Len(t, r.SkippedSamples, 1)
	assert.Equal(t, "lib_nan", r.SkippedSamples[0].Sample)
	assert.Contains(t, r.SkippedSamples[0].Error, "non-finite")
	assert.Equal(t, 1, logs.FilterMessage("skipping sample").Len())
}

func TestBuild_IgnoredSampleNotReportedAsSkipped(t *testing.T) {
	ctx, _ := newContext(t, 10)
	ctx.SampleNamesIgnore = []string{"undetermined*"}
	in := sampleInputs()
	in.Counts = append(in.Counts,
		memInput{name: "undetermined", data: "mutation,length,hgvs\nM1,1,p.A1G\n"},
		memInput{name: "broken", data: "mutation,length,hgvs\nM1,1,p.A1G\n"},
	)

	r, err := Build(ctx, in)
	require.NoError(t, err)

	require.Len(t, r.Skipped, 1)
	assert.Equal(t, "broken", r.Skipped[0].Sample)
	require.Len(t, r.SkippedSamples, 1)
	assert.Equal(t, "broken", r.SkippedSamples[0].Sample)
}

func TestBuild_ZeroVariantsCoverageOnly(t *testing.T) {
	ctx, _ := newContext(t, 10)
	ctx.SetVariants(0)

	b, err := NewBuilder(ctx)
	require.NoError(t, err)
	_, err = b.parseCoverage(coverageInput("lib_a", 10))
	assert.ErrorIs(t, err, histogram.ErrDivisionByZeroVariants)
}

func TestNewBuilder_InvalidIgnore(t *testing.T) {
	ctx, _ := newContext(t, 10)
	ctx.SampleNamesIgnoreRe = []string{"("}

	_, err := NewBuilder(ctx)
	assert.Error(t, err)
}

func TestExports(t *testing.T) {
	ctx, _ := newContext(t, 10)
	r, err := Build(ctx, sampleInputs())
	require.NoError(t, err)

	exports := r.Exports()
	require.Len(t, exports, 4)

	names := []string{ExportCounts, ExportCoverage, ExportCountsPlot, ExportCoveragePlot}
	for i, e := range exports {
		assert.Equal(t, names[i], e.Name)
		assert.Equal(t, []string{"lib_a", "lib_b"}, e.Samples())
	}

	assert.Equal(t, counts.Keys, exports[0].Columns)
	assert.Equal(t, coverage.Keys, exports[1].Columns)
	assert.Equal(t, 0.2, exports[0].Rows["lib_b"][counts.KeyZeroFraction])

	// lib_a counts 0..4 in 4 bins
	plot := exports[2]
	assert.Equal(t, 1.0, plot.Rows["lib_a"]["0"])
	assert.Equal(t, 2.0, plot.Rows["lib_a"]["3"])
	for i := 1; i < len(plot.Columns); i++ {
		assert.NotEqual(t, plot.Columns[i-1], plot.Columns[i])
	}
}

func TestSampleFilter(t *testing.T) {
	f, err := NewSampleFilter([]string{"undetermined*", "ctrl_?"}, []string{"tmp_", "x|y"})
	require.NoError(t, err)

	assert.True(t, f.Ignored("undetermined_S0"))
	assert.True(t, f.Ignored("ctrl_1"))
	assert.False(t, f.Ignored("ctrl_10"))
	assert.True(t, f.Ignored("tmp_lib"))
	assert.False(t, f.Ignored("lib_tmp_"))
	assert.True(t, f.Ignored("y_lib"))
	assert.False(t, f.Ignored("lib_y"))

	var none *SampleFilter
	assert.False(t, none.Ignored("anything"))
}
