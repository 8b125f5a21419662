package config

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
)

// CountVariants returns the number of designed variants in the reference
// file at path: its line count minus one header line. Files with zero or
// one lines yield zero.
func CountVariants(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMissingVariantsFile, err)
	}
	defer f.Close()

	n, err := countLines(f)
	if err != nil {
		return 0, fmt.Errorf("%w: read %s: %v", ErrMissingVariantsFile, path, err)
	}
	if n <= 1 {
		return 0, nil
	}
	return n - 1, nil
}

// countLines counts lines the way a line iterator does: a trailing line
// without a newline still counts.
func countLines(r io.Reader) (int, error) {
	br := bufio.NewReader(r)
	buf := make([]byte, 32*1024)
	n := 0
	unterminated := false
	for {
		c, err := br.Read(buf)
		if c > 0 {
			n += bytes.Count(buf[:c], []byte{'\n'})
			unterminated = buf[c-1] != '\n'
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
	}
	if unterminated {
		n++
	}
	return n, nil
}
