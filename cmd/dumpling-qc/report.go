package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/odcambc/dumpling-qc/internal/config"
	"github.com/odcambc/dumpling-qc/internal/discover"
	"github.com/odcambc/dumpling-qc/internal/duckdb"
	"github.com/odcambc/dumpling-qc/internal/output"
	"github.com/odcambc/dumpling-qc/internal/report"
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [analysis-dir...]",
		Short: "Build the QC report from counts and coverage files",
		Long: `Search the analysis directories for dumpling counts tables (*.csv with a
"mutation,length,hgvs" header) and GATK refCoverage tables (*.refCoverage),
summarize every sample, and write the report payload and data files.`,
		Example: `  dumpling-qc report --orf 10-30 --variants-file config/designed_variants.csv results/
  dumpling-qc report -o qc --data-format yaml --ignore-samples 'undetermined*' .
  dumpling-qc report --duckdb qc/dumpling.duckdb .`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, reportFlags)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			return runReport(cmd, args)
		},
	}

	f := cmd.Flags()
	f.String("orf", "", "ORF nucleotide coordinates as <start>-<end>")
	f.String("variants-file", "", "Designed variants file (one header line)")
	f.StringSlice("ignore-samples", nil, "Glob patterns of sample names to ignore")
	f.StringSlice("ignore-samples-re", nil, "Regular expressions of sample names to ignore")
	f.StringSlice("ignore-files", nil, "Files to exclude from the search")
	f.StringP("output-dir", "o", ".", "Output directory")
	f.String("data-format", "tsv", "Data file format: tsv, json, yaml")
	f.String("duckdb", "", "Also export results to this DuckDB database")
	f.BoolP("quiet", "q", false, "Do not print the summary table")

	return cmd
}

// reportFlags maps settings keys to report flags.
var reportFlags = map[string]string{
	"orf":                    "orf",
	"variants_file":          "variants-file",
	"sample_names_ignore":    "ignore-samples",
	"sample_names_ignore_re": "ignore-samples-re",
	"fn_ignore_files":        "ignore-files",
	"output_dir":             "output-dir",
	"data_format":            "data-format",
	"duckdb":                 "duckdb",
}

// bindFlags binds the command's flags to settings keys. Binding happens
// when the command runs so that commands sharing a key do not override
// each other.
func bindFlags(cmd *cobra.Command, flags map[string]string) error {
	for key, name := range flags {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("binding flag %s: %w", name, err)
		}
	}
	return nil
}

func loadSettings() (config.Settings, error) {
	var s config.Settings
	if err := viper.Unmarshal(&s); err != nil {
		return s, fmt.Errorf("decoding settings: %w", err)
	}
	if s.ORF == "" {
		return s, &usageError{err: fmt.Errorf("orf is required (--orf or orf in the config file)")}
	}
	if s.VariantsFile == "" {
		return s, &usageError{err: fmt.Errorf("variants file is required (--variants-file or variants_file in the config file)")}
	}
	return s, nil
}

func runReport(cmd *cobra.Command, dirs []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	format, err := output.ParseFormat(viper.GetString("data_format"))
	if err != nil {
		return &usageError{err: err}
	}
	outDir := viper.GetString("output_dir")

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	logger.Info("running dumpling report", zap.String("version", version))
	ctx, err := config.Initialize(settings, logger)
	if err != nil {
		return err
	}

	finder, err := discover.NewFinder(ctx.SearchPatterns, ctx.IgnoreFiles)
	if err != nil {
		return err
	}
	finder.SetLogger(logger)
	finder.IgnoreDir(filepath.Join(outDir, output.DataDir))

	found, err := finder.Find(dirs...)
	if err != nil {
		return err
	}
	logger.Debug("search complete",
		zap.Int("counts", len(found[config.PatternCounts])),
		zap.Int("refcoverage", len(found[config.PatternRefCoverage])),
		zap.Int("coveragelengthcounts", len(found[config.PatternCoverageLengthCounts])))

	rep, err := report.Build(ctx, report.Inputs{
		Counts:   inputs(found[config.PatternCounts]),
		Coverage: inputs(found[config.PatternRefCoverage]),
	})
	if err != nil {
		return err
	}

	paths, err := output.WriteDataFiles(outDir, rep, format)
	if err != nil {
		return err
	}
	for _, p := range paths {
		logger.Debug("wrote data file", zap.String("path", p))
	}

	reportPath, err := output.WriteReport(outDir, rep)
	if err != nil {
		return err
	}
	logger.Info("wrote report", zap.String("path", reportPath))

	if dbPath := viper.GetString("duckdb"); dbPath != "" {
		if err := exportDuckDB(dbPath, rep, found); err != nil {
			return err
		}
		logger.Info("exported results to duckdb", zap.String("path", dbPath))
	}

	if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
		return output.WriteSummary(os.Stdout, rep)
	}
	return nil
}

func inputs(files []discover.File) []report.Input {
	out := make([]report.Input, len(files))
	for i, f := range files {
		out[i] = f
	}
	return out
}

func exportDuckDB(path string, rep *report.Report, found discover.Results) error {
	store, err := duckdb.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.WriteReport(rep); err != nil {
		return fmt.Errorf("export report: %w", err)
	}

	var records []duckdb.InputFile
	for source, key := range map[string]string{
		report.KindCounts:   config.PatternCounts,
		report.KindCoverage: config.PatternRefCoverage,
	} {
		for _, f := range found[key] {
			fp, err := duckdb.StatFile(f.Path)
			if err != nil {
				return fmt.Errorf("stat input: %w", err)
			}
			records = append(records, duckdb.InputFile{Sample: f.Sample, Source: source, FileFingerprint: fp})
		}
	}
	return store.WriteInputs(records)
}
