package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage dumpling-qc configuration",
		Long:  "Show, get, or set configuration values. Config is stored in ~/.dumpling-qc.yaml.",
		Example: `  dumpling-qc config                                   # show all config
  dumpling-qc config set orf 10-30                     # set the ORF coordinates
  dumpling-qc config set sample_names_ignore 'tmp_*'   # comma-separated lists are split
  dumpling-qc config get variants_file                 # get a value`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(args[0])
		},
	}
}

func runConfigShow(w io.Writer) error {
	if file := viper.ConfigFileUsed(); file != "" {
		fmt.Fprintf(w, "# Config file: %s\n", file)
	} else {
		fmt.Fprintln(w, "# No config file found, showing defaults. Config file: ~/.dumpling-qc.yaml")
	}

	out, err := yaml.Marshal(viper.AllSettings())
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_, err = w.Write(out)
	return err
}

func runConfigSet(key, value string) error {
	// Parse boolean-like and list values
	switch {
	case value == "true" || value == "yes" || value == "on":
		viper.Set(key, true)
	case value == "false" || value == "no" || value == "off":
		viper.Set(key, false)
	case listKeys[key]:
		viper.Set(key, splitList(value))
	default:
		viper.Set(key, value)
	}

	// Ensure config file exists
	file := viper.ConfigFileUsed()
	if file == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		file = filepath.Join(home, ".dumpling-qc.yaml")
	}

	if err := viper.WriteConfigAs(file); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Set %s = %s in %s\n", key, value, file)
	return nil
}

func runConfigGet(key string) error {
	val := viper.Get(key)
	if val == nil {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Println(val)
	return nil
}

// listKeys are settings holding string lists.
var listKeys = map[string]bool{
	"sample_names_ignore":    true,
	"sample_names_ignore_re": true,
	"fn_ignore_files":        true,
}

func splitList(value string) []string {
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
