// Package config validates the dumpling report settings and builds the
// run context shared by the report-building step.
package config

import (
	"path/filepath"

	"go.uber.org/zap"
)

// Settings is the raw user configuration.
type Settings struct {
	ORF                 string                   `mapstructure:"orf" yaml:"orf"`
	VariantsFile        string                   `mapstructure:"variants_file" yaml:"variants_file"`
	SampleNamesIgnore   []string                 `mapstructure:"sample_names_ignore" yaml:"sample_names_ignore,omitempty"`
	SampleNamesIgnoreRe []string                 `mapstructure:"sample_names_ignore_re" yaml:"sample_names_ignore_re,omitempty"`
	FnIgnoreFiles       []string                 `mapstructure:"fn_ignore_files" yaml:"fn_ignore_files,omitempty"`
	SearchPatterns      map[string]SearchPattern `mapstructure:"sp" yaml:"sp,omitempty"`
}

// RunContext holds the validated configuration for one report run.
// It is built once by Initialize and read by the report-building step.
type RunContext struct {
	ORF       ORF
	ORFLength int

	SearchPatterns      map[string]SearchPattern
	IgnoreFiles         []string
	SampleNamesIgnore   []string
	SampleNamesIgnoreRe []string

	Logger *zap.Logger

	nVariants   int
	hasVariants bool
}

// NewRunContext returns a context without a designed-variant count.
// The report-building step infers the count from the first counts table.
func NewRunContext(logger *zap.Logger) *RunContext {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RunContext{
		SearchPatterns: DefaultSearchPatterns(),
		Logger:         logger,
	}
}

// Variants returns the designed-variant count and whether it has been set.
func (c *RunContext) Variants() (int, bool) {
	return c.nVariants, c.hasVariants
}

// SetVariants records the designed-variant count.
func (c *RunContext) SetVariants(n int) {
	c.nVariants = n
	c.hasVariants = true
}

// Initialize registers the search patterns, validates the ORF, counts the
// designed variants and adds the variants file to the file ignore list.
// No context is returned on error.
func Initialize(s Settings, logger *zap.Logger) (*RunContext, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info("initializing dumpling report",
		zap.String("orf", s.ORF),
		zap.String("variants_file", s.VariantsFile))

	ctx := &RunContext{
		SearchPatterns:      registerPatterns(s.SearchPatterns),
		IgnoreFiles:         append([]string(nil), s.FnIgnoreFiles...),
		SampleNamesIgnore:   append([]string(nil), s.SampleNamesIgnore...),
		SampleNamesIgnoreRe: append([]string(nil), s.SampleNamesIgnoreRe...),
		Logger:              logger,
	}

	orf, err := ParseORF(s.ORF)
	if err != nil {
		return nil, err
	}
	ctx.ORF = orf
	ctx.ORFLength = orf.Length()

	n, err := CountVariants(s.VariantsFile)
	if err != nil {
		return nil, err
	}
	ctx.SetVariants(n)

	ignore := s.VariantsFile
	if abs, err := filepath.Abs(ignore); err == nil {
		ignore = abs
	}
	ctx.IgnoreFiles = append(ctx.IgnoreFiles, ignore)

	logger.Debug("dumpling report initialized",
		zap.Int("orf_length", ctx.ORFLength),
		zap.Int("n_variants", n))
	return ctx, nil
}
