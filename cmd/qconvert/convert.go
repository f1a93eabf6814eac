// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/queball1999/QConvert/internal/history"
	"github.com/queball1999/QConvert/internal/job"
	"github.com/queball1999/QConvert/internal/pandoc"
	"github.com/queball1999/QConvert/internal/sniff"
	"github.com/queball1999/QConvert/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input>",
	Short: "Convert a single document",
	Long: `Convert transforms one document into the target format. The input
format is detected from the file when --from is omitted; the output path
defaults to the input path with its suffix replaced.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("from", "", "input format (default: detected from the file)")
	convertCmd.Flags().String("to", "", "output format (required)")
	convertCmd.Flags().StringP("output", "o", "", "output path (default: input path with suffix replaced)")
	convertCmd.Flags().String("pdf-engine", "", "typesetting engine for PDF output (default from config, xelatex)")
	convertCmd.Flags().Bool("show-output", false, "print pandoc's standard output after a successful conversion")
	convertCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("cannot read input file: %w", err)
	}

	cfg, err := convertSettings(cmd)
	if err != nil {
		return err
	}
	extraArgs, err := splitExtraArgs(cfg)
	if err != nil {
		return err
	}

	from, _ := cmd.Flags().GetString("from")
	if from == "" {
		detected, err := sniff.DetectFormat(inputPath)
		if err != nil {
			return err
		}
		from = string(detected)
		fmt.Fprintf(cmd.ErrOrStderr(), "Detected input format: %s\n", from)
	}
	to, _ := cmd.Flags().GetString("to")

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = replaceSuffix(inputPath, types.Format(to))
	}

	req := types.ConversionRequest{
		InputPath:    inputPath,
		OutputPath:   outputPath,
		InputFormat:  types.Format(from),
		OutputFormat: types.Format(to),
		Engine:       cfg.Engine,
		ExtraArgs:    extraArgs,
	}
	if err := req.Validate(); err != nil {
		return err
	}
	if err := ensureToolchain(req.OutputFormat, req.Engine); err != nil {
		return err
	}
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	startedAt := time.Now()
	outcome := job.Run(pandoc.NewRunner(), req, func(ev job.Event) {
		if ev.Kind == job.EventProgress {
			fmt.Fprintf(cmd.ErrOrStderr(), "progress: %d%%\n", ev.Progress)
		}
	})
	recordJob(store, req, outcome, startedAt, time.Since(startedAt), cmd)

	if !outcome.Succeeded {
		return fmt.Errorf("conversion failed:\n%s", strings.TrimSpace(outcome.ErrorDetail))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "converted: %s -> %s\n", inputPath, outputPath)
	if cfg.ShowOutput && outcome.CapturedOutput != "" {
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(outcome.CapturedOutput))
	}
	return nil
}

// replaceSuffix swaps the input path's extension for the target format's,
// in the same directory.
func replaceSuffix(path string, to types.Format) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + string(to)
}

// recordJob appends one record to the history store, when enabled.
// Recording failures warn but never fail the conversion.
func recordJob(store *history.Store, req types.ConversionRequest, outcome types.ConversionOutcome, startedAt time.Time, duration time.Duration, cmd *cobra.Command) {
	if store == nil {
		return
	}
	rec := history.Record{
		InputPath:    req.InputPath,
		OutputPath:   req.OutputPath,
		InputFormat:  req.InputFormat,
		OutputFormat: req.OutputFormat,
		Engine:       req.Engine,
		Succeeded:    outcome.Succeeded,
		ErrorDetail:  outcome.ErrorDetail,
		StartedAt:    startedAt,
		Duration:     duration,
	}
	if err := store.Add(context.Background(), rec); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not record conversion history: %v\n", err)
	}
}
