package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/odcambc/dumpling-qc/internal/report"
)

// DataDir is the directory under the output directory holding data files.
const DataDir = "dumpling_data"

// ReportFile is the name of the report payload file.
const ReportFile = "dumpling_report.json"

// WriteData writes a single export in the given format.
func WriteData(w io.Writer, e report.Export, format Format) error {
	switch format {
	case FormatTSV:
		return WriteExport(w, e)
	case FormatJSON:
		return WriteJSON(w, e.Rows)
	case FormatYAML:
		return WriteYAML(w, e.Rows)
	default:
		return fmt.Errorf("unknown data format %q", format)
	}
}

// WriteDataFiles writes every export of the report into dir/dumpling_data
// and returns the paths written.
func WriteDataFiles(dir string, r *report.Report, format Format) ([]string, error) {
	dataDir := filepath.Join(dir, DataDir)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	var paths []string
	for _, e := range r.Exports() {
		path := filepath.Join(dataDir, e.Name+format.Ext())
		if err := writeFile(path, func(w io.Writer) error { return WriteData(w, e, format) }); err != nil {
			return paths, fmt.Errorf("write %s: %w", e.Name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// WriteReport writes the report payload as JSON into dir.
func WriteReport(dir string, r *report.Report) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(dir, ReportFile)
	if err := writeFile(path, func(w io.Writer) error { return WriteJSON(w, r) }); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
