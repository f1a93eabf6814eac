// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pandoc assembles and executes pandoc command lines. It maps one
// ConversionRequest to one external process invocation with captured
// output, and probes the toolchain the invocation depends on.
package pandoc

import (
	"bytes"
	"fmt"
	"os/exec"

	"github.com/queball1999/QConvert/pkg/types"
)

const binPandoc = "pandoc"

// BuildArgs assembles the pandoc argument vector for a request:
// -f <in> -t <out> [--pdf-engine=<engine>] [extra...] -o <output> <input>.
// The engine flag is present exactly when the target format is pdf.
func BuildArgs(req types.ConversionRequest) []string {
	args := []string{"-f", string(req.InputFormat), "-t", string(req.OutputFormat)}
	if req.OutputFormat == types.FormatPDF {
		args = append(args, "--pdf-engine="+string(req.Engine))
	}
	args = append(args, req.ExtraArgs...)
	args = append(args, "-o", req.OutputPath, req.InputPath)
	return args
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(name string, args ...string) error
	RunCaptured(name string, args ...string) (stdout, stderr []byte, err error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunSilent(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (o *osExecutor) RunCaptured(name string, args ...string) ([]byte, []byte, error) {
	var out, errOut bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stdout = &out
	cmd.Stderr = &errOut
	err := cmd.Run()
	return out.Bytes(), errOut.Bytes(), err
}

var defaultExec executor = &osExecutor{}

// Runner executes conversion requests against a pandoc binary.
type Runner struct {
	bin  string
	exec executor
}

// NewRunner returns a Runner using the pandoc binary found on PATH.
func NewRunner() *Runner {
	return &Runner{bin: binPandoc, exec: defaultExec}
}

func newRunner(exec executor) *Runner {
	return &Runner{bin: binPandoc, exec: exec}
}

// Run executes one request to completion with stdout and stderr captured,
// never inherited. A zero exit yields a success outcome carrying the
// decoded standard output. A non-zero exit yields a failure outcome
// carrying the decoded standard error. A process that cannot be launched
// at all (binary missing, permission denied) yields a failure outcome
// carrying the launch error message; it is never an uncaught fault.
func (r *Runner) Run(req types.ConversionRequest) types.ConversionOutcome {
	stdout, stderr, err := r.exec.RunCaptured(r.bin, BuildArgs(req)...)
	if err != nil {
		detail := string(stderr)
		if _, isExit := err.(*exec.ExitError); !isExit || detail == "" {
			detail = err.Error()
		}
		return types.ConversionOutcome{Succeeded: false, ErrorDetail: detail}
	}
	return types.ConversionOutcome{Succeeded: true, CapturedOutput: string(stdout)}
}

// Available reports whether the pandoc binary exists on PATH and responds
// to a version query.
func (r *Runner) Available() bool {
	if _, err := r.exec.LookPath(r.bin); err != nil {
		return false
	}
	return r.exec.RunSilent(r.bin, "--version") == nil
}

// Version returns the first line of pandoc's --version output.
func (r *Runner) Version() (string, error) {
	stdout, _, err := r.exec.RunCaptured(r.bin, "--version")
	if err != nil {
		return "", fmt.Errorf("querying %s version: %w", r.bin, err)
	}
	return firstLine(string(stdout)), nil
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' || s[i] == '\r' {
			return s[:i]
		}
	}
	return s
}
