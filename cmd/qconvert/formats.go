// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/queball1999/QConvert/pkg/types"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported formats and typesetting engines",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "Input formats:  %s\n", joinFormats(types.InputFormats()))
		fmt.Fprintf(cmd.OutOrStdout(), "Output formats: %s\n", joinFormats(types.OutputFormats()))
		fmt.Fprintf(cmd.OutOrStdout(), "PDF engines:    %s (default %s)\n", joinEngines(), types.DefaultEngine)
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
