// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/queball1999/QConvert/internal/pandoc"
	"github.com/queball1999/QConvert/pkg/types"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that pandoc and the typesetting engines are installed",
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	tc := pandoc.NewToolchain()
	missing := 0

	if err := tc.CheckPandoc(); err != nil {
		missing++
		fmt.Fprintf(out, "pandoc:   MISSING (%v)\n", err)
	} else {
		v, _ := pandoc.NewRunner().Version()
		fmt.Fprintf(out, "pandoc:   ok (%s)\n", v)
	}

	engineFound := false
	for _, engine := range types.Engines() {
		if err := tc.CheckEngine(engine); err != nil {
			fmt.Fprintf(out, "%-9s missing\n", engine+":")
			continue
		}
		engineFound = true
		v, _ := tc.EngineVersion(engine)
		fmt.Fprintf(out, "%-9s ok (%s)\n", engine+":", v)
	}
	if !engineFound {
		missing++
		fmt.Fprintln(out, "no PDF engine found; PDF output will fail until a LaTeX distribution is installed")
	}

	if missing > 0 {
		return fmt.Errorf("%d required tool(s) missing", missing)
	}
	return nil
}
