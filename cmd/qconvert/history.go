// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent conversions from the history database",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 0, "maximum records to list (default 20)")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := openHistory(cmd)
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("no history database configured; set history.path in the config or pass --history-db")
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	records, err := store.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no conversions recorded")
		return nil
	}

	for _, rec := range records {
		status := "ok"
		if !rec.Succeeded {
			status = "FAILED"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %-6s  %s -> %s (%s -> %s, %s)\n",
			rec.StartedAt.Local().Format(time.DateTime), status,
			rec.InputPath, rec.OutputPath,
			rec.InputFormat, rec.OutputFormat, rec.Duration.Round(time.Millisecond))
		if !rec.Succeeded && rec.ErrorDetail != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "    %s\n", strings.TrimSpace(rec.ErrorDetail))
		}
	}
	return nil
}
