// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pandoc

import (
	"fmt"

	"github.com/queball1999/QConvert/pkg/types"
)

// Toolchain probes the external binaries a conversion depends on: the
// pandoc converter itself and, for PDF output, a typesetting engine.
type Toolchain struct {
	exec executor
}

// NewToolchain returns a Toolchain backed by the real operating system.
func NewToolchain() *Toolchain {
	return &Toolchain{exec: defaultExec}
}

func newToolchain(exec executor) *Toolchain {
	return &Toolchain{exec: exec}
}

// CheckPandoc verifies the pandoc binary exists on PATH and responds to a
// version query. Absence is fatal to any conversion command.
func (t *Toolchain) CheckPandoc() error {
	return t.check(binPandoc,
		"pandoc is not installed; install it from https://pandoc.org/installing.html")
}

// CheckEngine verifies the selected typesetting engine is present. Only
// required when the target format is pdf.
func (t *Toolchain) CheckEngine(engine types.Engine) error {
	return t.check(string(engine),
		fmt.Sprintf("%s is not installed; install a LaTeX distribution such as https://miktex.org/download", engine))
}

// EngineVersion returns the first line of the engine's --version output.
func (t *Toolchain) EngineVersion(engine types.Engine) (string, error) {
	stdout, _, err := t.exec.RunCaptured(string(engine), "--version")
	if err != nil {
		return "", fmt.Errorf("querying %s version: %w", engine, err)
	}
	return firstLine(string(stdout)), nil
}

func (t *Toolchain) check(bin, hint string) error {
	if _, err := t.exec.LookPath(bin); err != nil {
		return fmt.Errorf("%s: %w", hint, err)
	}
	if err := t.exec.RunSilent(bin, "--version"); err != nil {
		return fmt.Errorf("%s: %w", hint, err)
	}
	return nil
}
