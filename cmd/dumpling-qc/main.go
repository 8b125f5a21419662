// Package main provides the dumpling-qc command-line tool.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/odcambc/dumpling-qc/internal/report"
)

// Exit codes
const (
	ExitSuccess   = 0
	ExitError     = 1
	ExitUsage     = 2
	ExitNoSamples = 3
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var cfgFile string

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	root := newRootCmd()
	root.SetArgs(args)

	err := root.Execute()
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, report.ErrNoSamplesFound):
		fmt.Fprintf(os.Stderr, "No samples found: %v\n", err)
		return ExitNoSamples
	case errors.As(err, new(*usageError)):
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitUsage
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
}

// usageError marks errors caused by invalid command-line input.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dumpling-qc",
		Short: "Quality-control reports for deep mutational scanning libraries",
		Long: `dumpling-qc summarizes dumpling variant counts and GATK
AnalyzeSaturationMutagenesis coverage tables into histograms and
per-sample statistics.`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default: ~/.dumpling-qc.yaml)")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")
	pf.String("log-format", "console", "Log format: console or json")
	_ = viper.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("log.format", pf.Lookup("log-format"))

	root.AddCommand(newReportCmd())
	root.AddCommand(newValidateCmd())
	root.AddCommand(newPatternsCmd())
	root.AddCommand(newConfigCmd())

	return root
}

// initConfig reads the config file and environment.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".dumpling-qc")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("DUMPLING")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("data_format", "tsv")
	viper.SetDefault("output_dir", ".")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		if cfgFile == "" && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", filepath.Base(viper.ConfigFileUsed()), err)
	}
	return nil
}

// newLogger builds a logger from the log.level and log.format settings.
func newLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		return nil, &usageError{err: fmt.Errorf("invalid log level: %w", err)}
	}

	var cfg zap.Config
	switch viper.GetString("log.format") {
	case "json":
		cfg = zap.NewProductionConfig()
	case "console", "":
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
	default:
		return nil, &usageError{err: fmt.Errorf("invalid log format %q", viper.GetString("log.format"))}
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}
