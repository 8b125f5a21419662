package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ORF is a 1-based inclusive nucleotide range within the reference.
type ORF struct {
	Start int
	End   int
}

// Length returns the number of nucleotides covered by the ORF.
func (o ORF) Length() int {
	return o.End - o.Start + 1
}

func (o ORF) String() string {
	return fmt.Sprintf("%d-%d", o.Start, o.End)
}

// ParseORF parses an ORF coordinate string of the form "start-end".
func ParseORF(s string) (ORF, error) {
	fields := strings.Split(s, "-")
	if len(fields) != 2 {
		return ORF{}, fmt.Errorf("%w: %q: expected <start>-<end>", ErrInvalidOrfFormat, s)
	}
	for _, f := range fields {
		if !isDigits(f) {
			return ORF{}, fmt.Errorf("%w: %q: coordinates must be decimal integers", ErrInvalidOrfFormat, s)
		}
	}

	start, err := strconv.Atoi(fields[0])
	if err != nil {
		return ORF{}, fmt.Errorf("%w: %q: %v", ErrInvalidOrfFormat, s, err)
	}
	end, err := strconv.Atoi(fields[1])
	if err != nil {
		return ORF{}, fmt.Errorf("%w: %q: %v", ErrInvalidOrfFormat, s, err)
	}

	if start < 1 {
		return ORF{}, fmt.Errorf("%w: %q: start must be >= 1", ErrInvalidOrfRange, s)
	}
	if start > end {
		return ORF{}, fmt.Errorf("%w: %q: start %d is after end %d", ErrInvalidOrfRange, s, start, end)
	}
	return ORF{Start: start, End: end}, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
