package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/odcambc/dumpling-qc/internal/counts"
	"github.com/odcambc/dumpling-qc/internal/coverage"
	"github.com/odcambc/dumpling-qc/internal/histogram"
	"github.com/odcambc/dumpling-qc/internal/report"
)

// Stat is one per-sample metric row.
type Stat struct {
	Sample string
	Source string
	Metric string
	Value  float64
}

// WriteReport replaces the stored statistics and histogram bins with those
// of the report. The clear and all inserts run in one transaction, so a
// failure leaves the previous results in place.
func (s *Store) WriteReport(r *report.Report) error {
	var stats []Stat
	for _, sample := range report.Samples(r.CountsStats) {
		stats = appendStats(stats, sample, report.KindCounts, counts.Keys, r.CountsStats[sample].Values())
	}
	for _, sample := range report.Samples(r.CoverageStats) {
		stats = appendStats(stats, sample, report.KindCoverage, coverage.Keys, r.CoverageStats[sample].Values())
	}

	return s.inTx(func(conn *sql.Conn) error {
		if err := clearResults(conn); err != nil {
			return fmt.Errorf("clear results: %w", err)
		}
		if err := appendRows(conn, "sample_stats", len(stats), func(a *goduckdb.Appender, i int) error {
			st := stats[i]
			return a.AppendRow(st.Sample, st.Source, st.Metric, st.Value)
		}); err != nil {
			return err
		}
		if err := writeBins(conn, report.KindCounts, r.CountsHist); err != nil {
			return err
		}
		return writeBins(conn, report.KindCoverage, r.CoverageHist)
	})
}

// inTx runs fn on a single connection inside a transaction. Appenders
// created on that connection join the transaction.
func (s *Store) inTx(fn func(conn *sql.Conn) error) error {
	ctx := context.Background()
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "BEGIN TRANSACTION"); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(conn); err != nil {
		if _, rbErr := conn.ExecContext(ctx, "ROLLBACK"); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}
	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func appendStats(stats []Stat, sample, source string, keys []string, values map[string]float64) []Stat {
	for _, k := range keys {
		stats = append(stats, Stat{Sample: sample, Source: source, Metric: k, Value: values[k]})
	}
	return stats
}

func writeBins(conn *sql.Conn, source string, hists map[string]histogram.Histogram) error {
	type row struct {
		sample string
		index  int
		bin    histogram.Bin
	}
	var rows []row
	for _, sample := range report.Samples(hists) {
		for i, b := range hists[sample] {
			rows = append(rows, row{sample, i, b})
		}
	}
	return appendRows(conn, "histogram_bins", len(rows), func(a *goduckdb.Appender, i int) error {
		r := rows[i]
		return a.AppendRow(r.sample, source, int64(r.index), r.bin.Lower, int64(r.bin.Count))
	})
}

// appendRows batch-inserts n rows into table using the Appender API.
func appendRows(conn *sql.Conn, table string, n int, row func(a *goduckdb.Appender, i int) error) error {
	if n == 0 {
		return nil
	}

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", table)
		return err
	}); err != nil {
		return fmt.Errorf("create %s appender: %w", table, err)
	}
	defer appender.Close()

	for i := 0; i < n; i++ {
		if err := row(appender, i); err != nil {
			return fmt.Errorf("append %s row: %w", table, err)
		}
	}
	return appender.Flush()
}

// ClearResults removes all stored statistics, bins and input records.
func (s *Store) ClearResults() error {
	return s.inTx(clearResults)
}

func clearResults(conn *sql.Conn) error {
	for _, table := range []string{"sample_stats", "histogram_bins", "input_files"} {
		if _, err := conn.ExecContext(context.Background(), "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// SampleStats returns the stored metrics of one sample and source.
func (s *Store) SampleStats(sample, source string) (map[string]float64, error) {
	rows, err := s.db.Query(`SELECT metric, value FROM sample_stats
		WHERE sample=? AND source=?`, sample, source)
	if err != nil {
		return nil, fmt.Errorf("query sample stats: %w", err)
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var metric string
		var value float64
		if err := rows.Scan(&metric, &value); err != nil {
			return nil, fmt.Errorf("scan sample stat: %w", err)
		}
		out[metric] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sample stats: %w", err)
	}
	return out, nil
}

// Histogram returns the stored bins of one sample and source in ascending
// edge order.
func (s *Store) Histogram(sample, source string) (histogram.Histogram, error) {
	rows, err := s.db.Query(`SELECT bin_lower, count FROM histogram_bins
		WHERE sample=? AND source=? ORDER BY bin_index`, sample, source)
	if err != nil {
		return nil, fmt.Errorf("query histogram: %w", err)
	}
	defer rows.Close()

	var h histogram.Histogram
	for rows.Next() {
		var b histogram.Bin
		var count int64
		if err := rows.Scan(&b.Lower, &count); err != nil {
			return nil, fmt.Errorf("scan bin: %w", err)
		}
		b.Count = int(count)
		h = append(h, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bins: %w", err)
	}
	return h, nil
}

// Samples returns the distinct samples stored for a source.
func (s *Store) Samples(source string) ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT sample FROM sample_stats
		WHERE source=? ORDER BY sample`, source)
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		out = append(out, name)
	}
	return out, rows.Err()
}
