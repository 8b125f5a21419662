package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeVariants(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "designed_variants.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseORF(t *testing.T) {
	orf, err := ParseORF("10-30")
	require.NoError(t, err)
	assert.Equal(t, 10, orf.Start)
	assert.Equal(t, 30, orf.End)
	assert.Equal(t, 21, orf.Length())
	assert.Equal(t, "10-30", orf.String())

	orf, err = ParseORF("1-1")
	require.NoError(t, err)
	assert.Equal(t, 1, orf.Length())
}

func TestParseORF_Errors(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"abc", ErrInvalidOrfFormat},
		{"10", ErrInvalidOrfFormat},
		{"5-10-15", ErrInvalidOrfFormat},
		{"", ErrInvalidOrfFormat},
		{"a-10", ErrInvalidOrfFormat},
		{"10-", ErrInvalidOrfFormat},
		{"+1-10", ErrInvalidOrfFormat},
		{" 1-10", ErrInvalidOrfFormat},
		{"10-5", ErrInvalidOrfRange},
		{"0-10", ErrInvalidOrfRange},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := ParseORF(tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCountVariants(t *testing.T) {
	var b strings.Builder
	b.WriteString("hgvs\n")
	for i := 0; i < 100; i++ {
		b.WriteString("p.X\n")
	}

	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"header and 100 rows", b.String(), 100},
		{"header only", "hgvs\n", 0},
		{"empty", "", 0},
		{"no trailing newline", "hgvs\np.A1G\np.A1C", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := CountVariants(writeVariants(t, tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestCountVariants_Missing(t *testing.T) {
	_, err := CountVariants(filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, ErrMissingVariantsFile)
}

func TestInitialize(t *testing.T) {
	path := writeVariants(t, "hgvs\np.A1G\np.A1C\np.A1T\n")

	ctx, err := Initialize(Settings{
		ORF:               "10-30",
		VariantsFile:      path,
		SampleNamesIgnore: []string{"undetermined*"},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 21, ctx.ORFLength)
	n, ok := ctx.Variants()
	assert.True(t, ok)
	assert.Equal(t, 3, n)
	assert.Contains(t, ctx.IgnoreFiles, path)
	assert.Equal(t, []string{"undetermined*"}, ctx.SampleNamesIgnore)

	for _, key := range []string{PatternCounts, PatternRefCoverage, PatternCoverageLengthCounts} {
		assert.Contains(t, ctx.SearchPatterns, key)
	}
}

func TestInitialize_KeepsConfiguredPattern(t *testing.T) {
	path := writeVariants(t, "hgvs\n")
	custom := SearchPattern{Fn: "*_counts.csv"}

	ctx, err := Initialize(Settings{
		ORF:            "1-9",
		VariantsFile:   path,
		SearchPatterns: map[string]SearchPattern{PatternCounts: custom},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, custom, ctx.SearchPatterns[PatternCounts])
	assert.Equal(t, "*.refCoverage", ctx.SearchPatterns[PatternRefCoverage].Fn)
}

func TestInitialize_FailsFast(t *testing.T) {
	path := writeVariants(t, "hgvs\n")

	ctx, err := Initialize(Settings{ORF: "30-10", VariantsFile: path}, nil)
	assert.ErrorIs(t, err, ErrInvalidOrfRange)
	assert.Nil(t, ctx)

	ctx, err = Initialize(Settings{ORF: "1-10", VariantsFile: filepath.Join(t.TempDir(), "missing")}, nil)
	assert.ErrorIs(t, err, ErrMissingVariantsFile)
	assert.Nil(t, ctx)
}

func TestNewRunContext_NoVariants(t *testing.T) {
	ctx := NewRunContext(nil)
	_, ok := ctx.Variants()
	assert.False(t, ok)

	ctx.SetVariants(0)
	n, ok := ctx.Variants()
	assert.True(t, ok)
	assert.Zero(t, n)
}
