// Package output writes dumpling report data files and the report payload.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/odcambc/dumpling-qc/internal/report"
)

// TabWriter writes report exports in tab-delimited format.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer for the given columns.
func NewTabWriter(w io.Writer, columns []string) *TabWriter {
	return &TabWriter{
		w:       bufio.NewWriter(w),
		columns: columns,
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString("Sample\t" + strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes one sample row. Missing columns are left empty.
func (tw *TabWriter) Write(sample string, row map[string]float64) error {
	values := make([]string, 0, len(tw.columns)+1)
	values = append(values, sample)
	for _, col := range tw.columns {
		v, ok := row[col]
		if !ok {
			values = append(values, "")
			continue
		}
		values = append(values, formatValue(v))
	}

	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}

// WriteExport writes a complete export: header and one row per sample in
// sorted order.
func WriteExport(w io.Writer, e report.Export) error {
	tw := NewTabWriter(w, e.Columns)
	if err := tw.WriteHeader(); err != nil {
		return err
	}
	for _, sample := range e.Samples() {
		if err := tw.Write(sample, e.Rows[sample]); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
