// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the qconvert CLI, a front-end for
// pandoc. Each conversion mode is a subcommand: convert for one document,
// bulk for a directory tree, watch for continuous conversion, plus
// formats, history, doctor, and version.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/shlex"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/queball1999/QConvert/internal/history"
	"github.com/queball1999/QConvert/internal/pandoc"
	"github.com/queball1999/QConvert/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the qconvert CLI.
var rootCmd = &cobra.Command{
	Use:   "qconvert",
	Short: "Convert documents between formats with pandoc",
	Long: `qconvert converts documents between formats by driving the pandoc
command-line tool. It converts a single file, every matching file under a
directory (bulk), or a continuously watched directory, and records outcomes
in an optional history database.

Format conversion itself is delegated entirely to pandoc; PDF output
additionally requires a LaTeX typesetting engine (pdflatex, xelatex, or
lualatex) on the PATH.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./qconvert.yaml or ~/.config/qconvert/config.yaml)")
	rootCmd.PersistentFlags().String("history-db", "", "SQLite history database (default: history.path from config; empty disables)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("qconvert")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "qconvert"))
		}
	}

	viper.SetDefault("engine", string(types.DefaultEngine))
	viper.SetEnvPrefix("QCONVERT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// convertSettings merges the per-command flags with the config file into a
// ConvertConfig, validating the engine tag.
func convertSettings(cmd *cobra.Command) (types.ConvertConfig, error) {
	engine, _ := cmd.Flags().GetString("pdf-engine")
	if engine == "" {
		engine = viper.GetString("engine")
	}
	if !types.ValidEngine(types.Engine(engine)) {
		return types.ConvertConfig{}, fmt.Errorf("unsupported PDF engine %q (supported: %s)", engine, joinEngines())
	}

	showOutput, _ := cmd.Flags().GetBool("show-output")
	if !cmd.Flags().Changed("show-output") {
		showOutput = viper.GetBool("show_output")
	}

	return types.ConvertConfig{
		Engine:     types.Engine(engine),
		ExtraArgs:  viper.GetString("extra_args"),
		ShowOutput: showOutput,
	}, nil
}

// splitExtraArgs shell-splits the extra_args config string.
func splitExtraArgs(cfg types.ConvertConfig) ([]string, error) {
	if cfg.ExtraArgs == "" {
		return nil, nil
	}
	args, err := shlex.Split(cfg.ExtraArgs)
	if err != nil {
		return nil, fmt.Errorf("parsing extra_args %q: %w", cfg.ExtraArgs, err)
	}
	return args, nil
}

// ensureToolchain verifies the external binaries a conversion needs:
// pandoc always, and the typesetting engine when targeting PDF. Absence is
// fatal before any job starts.
func ensureToolchain(outputFormat types.Format, engine types.Engine) error {
	tc := pandoc.NewToolchain()
	if err := tc.CheckPandoc(); err != nil {
		return err
	}
	if outputFormat == types.FormatPDF {
		if err := tc.CheckEngine(engine); err != nil {
			return err
		}
	}
	return nil
}

// openHistory opens the history store named by the flag or config. A
// missing path disables recording and returns nil.
func openHistory(cmd *cobra.Command) (*history.Store, error) {
	path, _ := rootCmd.PersistentFlags().GetString("history-db")
	if path == "" {
		path = viper.GetString("history.path")
	}
	if path == "" {
		return nil, nil
	}
	store, err := history.NewStore(types.HistoryConfig{
		Path:       path,
		MaxResults: viper.GetInt("history.max_results"),
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

func joinEngines() string {
	names := make([]string, 0, len(types.Engines()))
	for _, e := range types.Engines() {
		names = append(names, string(e))
	}
	return strings.Join(names, ", ")
}

func joinFormats(formats []types.Format) string {
	names := make([]string, 0, len(formats))
	for _, f := range formats {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
