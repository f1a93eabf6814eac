// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/queball1999/QConvert/internal/bulk"
	"github.com/queball1999/QConvert/internal/pandoc"
	"github.com/queball1999/QConvert/internal/watch"
	"github.com/queball1999/QConvert/pkg/types"
)

var watchCmd = &cobra.Command{
	Use:   "watch <directory>",
	Short: "Continuously convert documents appearing under a directory",
	Long: `Watch monitors the directory tree and converts each matching file once
its writes settle. Conversions run one at a time, in arrival order. The
watcher runs until interrupted; an in-flight pandoc process is allowed to
finish before shutdown.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().String("from", "", "input format selecting which files convert (required)")
	watchCmd.Flags().String("to", "", "output format (required)")
	watchCmd.Flags().String("pdf-engine", "", "typesetting engine for PDF output (default from config, xelatex)")
	watchCmd.Flags().Bool("show-output", false, "log pandoc's standard output after each successful conversion")
	watchCmd.Flags().Duration("settle-delay", 0, "quiet period before a changed file converts (default 500ms)")
	watchCmd.MarkFlagRequired("from")
	watchCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
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
	settle, _ := cmd.Flags().GetDuration("settle-delay")
	if settle == 0 {
		settle = viper.GetDuration("watch.settle_delay")
	}

	cfg := types.WatchConfig{
		BulkConfig: types.BulkConfig{
			ConvertConfig: convertCfg,
			InputFormat:   types.Format(from),
			OutputFormat:  types.Format(to),
		},
		SettleDelay: settle,
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

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	w, err := watch.New(dir, cfg, extraArgs, pandoc.NewRunner(), observe, log)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	w.Stop()
	return nil
}
