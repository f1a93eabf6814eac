// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/queball1999/QConvert/internal/bulk"
	"github.com/queball1999/QConvert/internal/pandoc"
	"github.com/queball1999/QConvert/pkg/types"
)

var bulkCmd = &cobra.Command{
	Use:   "bulk <directory>",
	Short: "Convert every matching file under a directory",
	Long: `Bulk walks the directory tree and converts every file whose name ends
in the input format's suffix, writing each output next to its input with
the suffix replaced. Files are converted strictly one at a time; a failed
file does not abort the rest of the batch, and the run ends with a summary
of failures.`,
	Args: cobra.ExactArgs(1),
	RunE: runBulk,
}

func init() {
	bulkCmd.Flags().String("from", "", "input format selecting which files convert (required)")
	bulkCmd.Flags().String("to", "", "output format (required)")
	bulkCmd.Flags().String("pdf-engine", "", "typesetting engine for PDF output (default from config, xelatex)")
	bulkCmd.Flags().Bool("show-output", false, "print pandoc's standard output after each successful conversion")
	bulkCmd.Flags().String("report", "", "write a YAML batch report to this path")
	bulkCmd.MarkFlagRequired("from")
	bulkCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(bulkCmd)
}

func runBulk(cmd *cobra.Command, args []string) error {
	dir := args[0]
	if info, err := os.Stat(dir); err != nil {
		return fmt.Errorf("cannot read directory: %w", err)
	} else if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	convertCfg, err := convertSettings(cmd)
	if err != nil {
		return err
	}
	extraArgs, err := splitExtraArgs(convertCfg)
	if err != nil {
		return err
	}

	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	reportPath, _ := cmd.Flags().GetString("report")

	cfg := types.BulkConfig{
		ConvertConfig: convertCfg,
		InputFormat:   types.Format(from),
		OutputFormat:  types.Format(to),
		ReportPath:    reportPath,
	}
	if !types.ValidInputFormat(cfg.InputFormat) {
		return fmt.Errorf("unsupported input format %q (supported: %s)", from, joinFormats(types.InputFormats()))
	}
	if !types.ValidOutputFormat(cfg.OutputFormat) {
		return fmt.Errorf("unsupported output format %q (supported: %s)", to, joinFormats(types.OutputFormats()))
	}
	if err := ensureToolchain(cfg.OutputFormat, cfg.Engine); err != nil {
		return err
	}

	requests, err := bulk.Scan(dir, cfg, extraArgs)
	if err != nil {
		return err
	}
	if len(requests) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "no .%s files found under %s\n", from, dir)
		return nil
	}

	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	var observe bulk.Observer
	if store != nil {
		observe = func(req types.ConversionRequest, outcome types.ConversionOutcome, startedAt time.Time, duration time.Duration) {
			recordJob(store, req, outcome, startedAt, duration, cmd)
		}
	}

	result := bulk.Run(pandoc.NewRunner(), requests, cmd.OutOrStdout(), observe)

	if cfg.ReportPath != "" {
		report := bulk.Report{
			Directory:    dir,
			InputFormat:  from,
			OutputFormat: to,
			Result:       result,
		}
		if err := bulk.WriteReport(cfg.ReportPath, report); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "report written to %s\n", cfg.ReportPath)
	}

	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed conversion", result.Failed)
	}
	return nil
}
