package config

// Search pattern keys registered by Initialize.
const (
	PatternCounts               = "dumpling/counts"
	PatternRefCoverage          = "gatk/analyze_saturation_mutagenesis/refcoverage"
	PatternCoverageLengthCounts = "gatk/analyze_saturation_mutagenesis/coveragelengthcounts"
)

// SearchPattern describes how input files of one kind are recognised.
// Fn is a glob matched against the file's base name. When ContentsRe is
// set, one of the first NumLines lines (all lines if zero) must match it.
type SearchPattern struct {
	Fn         string `mapstructure:"fn" yaml:"fn" json:"fn"`
	ContentsRe string `mapstructure:"contents_re" yaml:"contents_re,omitempty" json:"contents_re,omitempty"`
	NumLines   int    `mapstructure:"num_lines" yaml:"num_lines,omitempty" json:"num_lines,omitempty"`
}

// DefaultSearchPatterns returns the patterns for dumpling counts tables and
// GATK AnalyzeSaturationMutagenesis coverage outputs.
func DefaultSearchPatterns() map[string]SearchPattern {
	return map[string]SearchPattern{
		PatternCounts: {
			Fn:         "*.csv",
			ContentsRe: ".*mutation,length,hgvs.*",
			NumLines:   2,
		},
		PatternRefCoverage: {
			Fn: "*.refCoverage",
		},
		PatternCoverageLengthCounts: {
			Fn: "*.coverageLengthCounts",
		},
	}
}

// registerPatterns adds each default pattern unless the key is already
// configured.
func registerPatterns(sp map[string]SearchPattern) map[string]SearchPattern {
	out := make(map[string]SearchPattern, len(sp)+3)
	for k, v := range sp {
		out[k] = v
	}
	for k, v := range DefaultSearchPatterns() {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return out
}
