package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	goduckdb "github.com/marcboeker/go-duckdb"
)

// FileFingerprint holds stat-based identity for a file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// InputFile is a discovered input recorded alongside the results.
type InputFile struct {
	Sample string
	Source string
	FileFingerprint
}

// WriteInputs records the input files a report was built from.
func (s *Store) WriteInputs(inputs []InputFile) error {
	return s.inTx(func(conn *sql.Conn) error {
		return appendRows(conn, "input_files", len(inputs), func(a *goduckdb.Appender, i int) error {
			in := inputs[i]
			return a.AppendRow(in.Sample, in.Source, in.Path, in.Size, in.ModTime.UTC())
		})
	})
}

// Inputs returns the recorded input files of a source.
func (s *Store) Inputs(source string) ([]InputFile, error) {
	rows, err := s.db.Query(`SELECT sample, path, size, mod_time FROM input_files
		WHERE source=? ORDER BY sample`, source)
	if err != nil {
		return nil, fmt.Errorf("query inputs: %w", err)
	}
	defer rows.Close()

	var out []InputFile
	for rows.Next() {
		in := InputFile{Source: source}
		if err := rows.Scan(&in.Sample, &in.Path, &in.Size, &in.ModTime); err != nil {
			return nil, fmt.Errorf("scan input: %w", err)
		}
		out = append(out, in)
	}
	return out, rows.Err()
}
