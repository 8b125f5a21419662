// Package tabular reads delimited tables with a header row into typed
// numeric columns.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ErrNoRows is returned when a table has a header but no data rows.
var ErrNoRows = errors.New("table has no data rows")

// ParseError represents an error during table parsing with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d: %s", e.Line, e.Message)
}

// Table is a set of numeric columns read from a delimited file.
type Table struct {
	Header  []string
	Columns map[string][]float64
	Rows    int
}

// Column returns the values of the named column.
func (t *Table) Column(name string) []float64 {
	return t.Columns[name]
}

// Read parses a delimited table from r. The first record is the header.
// Every column named in want must be present; their cells must parse as
// numbers. Other columns are ignored.
func Read(r io.Reader, delim rune, want ...string) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	if delim == '\t' {
		cr.LazyQuotes = true
	}

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &ParseError{Line: 1, Message: "no header line found"}
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	header = append([]string(nil), header...)
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	idx := make(map[string]int, len(want))
	for _, name := range want {
		idx[name] = -1
	}
	for i, col := range header {
		col = strings.TrimSpace(col)
		if j, ok := idx[col]; ok && j == -1 {
			idx[col] = i
		}
	}
	for _, name := range want {
		if idx[name] == -1 {
			return nil, &ParseError{
				Line:    1,
				Message: fmt.Sprintf("required column %q not found in header", name),
			}
		}
	}

	t := &Table{Header: header, Columns: make(map[string][]float64, len(want))}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line, _ := cr.FieldPos(0)

		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}

		for _, name := range want {
			i := idx[name]
			if i >= len(rec) {
				return nil, &ParseError{
					Line:    line,
					Message: fmt.Sprintf("expected at least %d columns, found %d", i+1, len(rec)),
				}
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
			if err == nil && (math.IsNaN(v) || math.IsInf(v, 0)) {
				return nil, &ParseError{
					Line:    line,
					Message: fmt.Sprintf("non-finite %s value: %q", name, rec[i]),
				}
			}
			if err != nil {
				return nil, &ParseError{
					Line:    line,
					Message: fmt.Sprintf("invalid %s value: %q", name, rec[i]),
				}
			}
			t.Columns[name] = append(t.Columns[name], v)
		}
		t.Rows++
	}

	if t.Rows == 0 {
		return nil, ErrNoRows
	}
	return t, nil
}
