package output

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/odcambc/dumpling-qc/internal/report"
)

// SummaryWriter writes the general statistics table in aligned columns for
// terminal display.
type SummaryWriter struct {
	w       *tabwriter.Writer
	headers []report.Header
	rows    int
}

// NewSummaryWriter creates a new summary writer.
func NewSummaryWriter(w io.Writer, headers []report.Header) *SummaryWriter {
	return &SummaryWriter{
		w:       tabwriter.NewWriter(w, 0, 0, 2, ' ', 0),
		headers: headers,
	}
}

// WriteHeader writes the column titles.
func (s *SummaryWriter) WriteHeader() error {
	if _, err := fmt.Fprint(s.w, "Sample"); err != nil {
		return err
	}
	for _, h := range s.headers {
		if _, err := fmt.Fprintf(s.w, "\t%s", h.Title); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(s.w)
	return err
}

// WriteRow writes one sample's statistics. Missing values print as "-".
func (s *SummaryWriter) WriteRow(sample string, stats map[string]float64) error {
	s.rows++
	if _, err := fmt.Fprint(s.w, sample); err != nil {
		return err
	}
	for _, h := range s.headers {
		cell := "-"
		if v, ok := stats[h.Key]; ok {
			cell = fmt.Sprintf("%.4g", v)
		}
		if _, err := fmt.Fprintf(s.w, "\t%s", cell); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(s.w)
	return err
}

// Flush flushes the writer.
func (s *SummaryWriter) Flush() error {
	return s.w.Flush()
}

// WriteSummary writes the whole general statistics table of a report
// followed by the run totals.
func WriteSummary(w io.Writer, r *report.Report) error {
	sw := NewSummaryWriter(w, r.Headers)
	if err := sw.WriteHeader(); err != nil {
		return err
	}
	for _, sample := range report.Samples(r.GeneralStats) {
		if err := sw.WriteRow(sample, r.GeneralStats[sample]); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nReport Summary:\n")
	fmt.Fprintf(w, "  Designed variants: %d", r.NVariants)
	if r.NVariantsInferred {
		fmt.Fprintf(w, " (inferred from counts)")
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Counts samples:    %d\n", len(r.CountsStats))
	fmt.Fprintf(w, "  Coverage samples:  %d\n", len(r.CoverageStats))
	if len(r.Skipped) > 0 {
		fmt.Fprintf(w, "  Skipped samples:   %d\n", len(r.Skipped))
		for _, se := range r.Skipped {
			fmt.Fprintf(w, "    %s\n", se.Error())
		}
	}
	return nil
}
