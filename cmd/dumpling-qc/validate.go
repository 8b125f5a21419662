package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/odcambc/dumpling-qc/internal/config"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "validate",
		Short:   "Validate the ORF and designed variants settings",
		Long:    "Run the initialization step only and print the derived ORF length and number of designed variants.",
		Example: `  dumpling-qc validate --orf 10-30 --variants-file config/designed_variants.csv`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, map[string]string{"orf": "orf", "variants_file": "variants-file"})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			settings, err := loadSettings()
			if err != nil {
				return err
			}
			ctx, err := config.Initialize(settings, logger)
			if err != nil {
				return err
			}
			n, _ := ctx.Variants()
			fmt.Fprintf(cmd.OutOrStdout(), "ORF:               %s\n", ctx.ORF)
			fmt.Fprintf(cmd.OutOrStdout(), "ORF length:        %d\n", ctx.ORFLength)
			fmt.Fprintf(cmd.OutOrStdout(), "Designed variants: %d\n", n)
			return nil
		},
	}
	cmd.Flags().String("orf", "", "ORF nucleotide coordinates as <start>-<end>")
	cmd.Flags().String("variants-file", "", "Designed variants file (one header line)")
	return cmd
}

func newPatternsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "patterns",
		Short: "Show the file search patterns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var s config.Settings
			if err := viper.Unmarshal(&s); err != nil {
				return fmt.Errorf("decoding settings: %w", err)
			}
			patterns := config.DefaultSearchPatterns()
			for k, v := range s.SearchPatterns {
				patterns[k] = v
			}
			out, err := yaml.Marshal(patterns)
			if err != nil {
				return fmt.Errorf("marshaling patterns: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}
