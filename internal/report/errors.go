package report

import (
	"errors"
	"fmt"
)

// ErrNoSamplesFound signals that no usable input remained after filtering.
// The report should be skipped rather than treated as a failed run.
var ErrNoSamplesFound = errors.New("no samples found")

// Distinct no-samples conditions, both matching ErrNoSamplesFound.
var (
	ErrNoCountsSamples   = fmt.Errorf("%w: no counts files", ErrNoSamplesFound)
	ErrNoCoverageSamples = fmt.Errorf("%w: no coverage files", ErrNoSamplesFound)
)

// Input source kinds.
const (
	KindCounts   = "counts"
	KindCoverage = "coverage"
)

// SampleError records a sample that was skipped because its table could
// not be parsed or summarized.
type SampleError struct {
	Kind   string `json:"kind" yaml:"kind"`
	Sample string `json:"sample" yaml:"sample"`
	Path   string `json:"path,omitempty" yaml:"path,omitempty"`
	Err    error  `json:"-" yaml:"-"`
}

func (e *SampleError) Error() string {
	return fmt.Sprintf("%s sample %s: %v", e.Kind, e.Sample, e.Err)
}

func (e *SampleError) Unwrap() error {
	return e.Err
}

// Message returns the underlying error text for serialization.
func (e *SampleError) Message() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}
