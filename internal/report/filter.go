package report

import (
	"fmt"
	"regexp"

	"github.com/gobwas/glob"
)

// SampleFilter drops samples whose name matches an ignore glob or regex.
type SampleFilter struct {
	globs   []glob.Glob
	regexes []*regexp.Regexp
}

// NewSampleFilter compiles the ignore globs and regular expressions.
// Regular expressions are anchored at the start of the sample name.
func NewSampleFilter(globs, regexes []string) (*SampleFilter, error) {
	f := &SampleFilter{}
	for _, g := range globs {
		c, err := glob.Compile(g)
		if err != nil {
			return nil, fmt.Errorf("compile sample ignore glob %q: %w", g, err)
		}
		f.globs = append(f.globs, c)
	}
	for _, r := range regexes {
		c, err := regexp.Compile("^(?:" + r + ")")
		if err != nil {
			return nil, fmt.Errorf("compile sample ignore regex %q: %w", r, err)
		}
		f.regexes = append(f.regexes, c)
	}
	return f, nil
}

// Ignored reports whether the sample should be dropped.
func (f *SampleFilter) Ignored(sample string) bool {
	if f == nil {
		return false
	}
	for _, g := range f.globs {
		if g.Match(sample) {
			return true
		}
	}
	for _, r := range f.regexes {
		if r.MatchString(sample) {
			return true
		}
	}
	return false
}

// filterSamples returns a copy of m without the ignored samples.
func filterSamples[T any](f *SampleFilter, m map[string]T) map[string]T {
	out := make(map[string]T, len(m))
	for name, v := range m {
		if !f.Ignored(name) {
			out[name] = v
		}
	}
	return out
}
