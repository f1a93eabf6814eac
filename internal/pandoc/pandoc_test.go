// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pandoc

import (
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/queball1999/QConvert/pkg/types"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	availableBins map[string]bool // binary -> whether LookPath succeeds
	runnableCmds  map[string]bool // "bin arg1 arg2" -> whether RunSilent succeeds
	stdout        []byte
	stderr        []byte
	runErr        error
	captured      [][]string // argument vectors passed to RunCaptured
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) RunSilent(name string, args ...string) error {
	key := name + " " + strings.Join(args, " ")
	if m.runnableCmds[key] {
		return nil
	}
	return errors.New("command failed: " + key)
}

func (m *mockExecutor) RunCaptured(name string, args ...string) ([]byte, []byte, error) {
	vec := append([]string{name}, args...)
	m.captured = append(m.captured, vec)
	return m.stdout, m.stderr, m.runErr
}

func mdToHTMLRequest() types.ConversionRequest {
	return types.ConversionRequest{
		InputPath:    "notes.md",
		OutputPath:   "notes.html",
		InputFormat:  types.FormatMarkdown,
		OutputFormat: types.FormatHTML,
		Engine:       types.DefaultEngine,
	}
}

func TestBuildArgs(t *testing.T) {
	tests := []struct {
		name     string
		req      types.ConversionRequest
		want     []string
		wantFlag bool // --pdf-engine present
	}{
		{
			name: "markdown to html",
			req:  mdToHTMLRequest(),
			want: []string{"-f", "md", "-t", "html", "-o", "notes.html", "notes.md"},
		},
		{
			name: "pdf output carries engine flag",
			req: types.ConversionRequest{
				InputPath:    "book.epub",
				OutputPath:   "book.pdf",
				InputFormat:  types.FormatEPUB,
				OutputFormat: types.FormatPDF,
				Engine:       types.EngineLuaLaTeX,
			},
			want:     []string{"-f", "epub", "-t", "pdf", "--pdf-engine=lualatex", "-o", "book.pdf", "book.epub"},
			wantFlag: true,
		},
		{
			name: "extra args pass through before output flag",
			req: types.ConversionRequest{
				InputPath:    "notes.md",
				OutputPath:   "notes.html",
				InputFormat:  types.FormatMarkdown,
				OutputFormat: types.FormatHTML,
				ExtraArgs:    []string{"--toc", "--standalone"},
			},
			want: []string{"-f", "md", "-t", "html", "--toc", "--standalone", "-o", "notes.html", "notes.md"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildArgs(tt.req)
			if len(got) != len(tt.want) {
				t.Fatalf("args = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("args[%d] = %q, want %q (full: %v)", i, got[i], tt.want[i], got)
				}
			}
			hasFlag := false
			for _, a := range got {
				if strings.HasPrefix(a, "--pdf-engine=") {
					hasFlag = true
				}
			}
			if hasFlag != tt.wantFlag {
				t.Errorf("--pdf-engine present = %v, want %v", hasFlag, tt.wantFlag)
			}
		})
	}
}

func TestRun_Success(t *testing.T) {
	mock := &mockExecutor{stdout: []byte("[INFO] done\n")}
	r := newRunner(mock)

	outcome := r.Run(mdToHTMLRequest())

	if !outcome.Succeeded {
		t.Fatalf("expected success, got failure: %q", outcome.ErrorDetail)
	}
	if outcome.CapturedOutput != "[INFO] done\n" {
		t.Errorf("captured output = %q, want pandoc stdout", outcome.CapturedOutput)
	}
	if outcome.ErrorDetail != "" {
		t.Errorf("error detail should be empty on success, got %q", outcome.ErrorDetail)
	}
	if len(mock.captured) != 1 || mock.captured[0][0] != "pandoc" {
		t.Errorf("expected one pandoc invocation, got %v", mock.captured)
	}
}

func TestRun_NonZeroExit(t *testing.T) {
	mock := &mockExecutor{
		stderr: []byte("pandoc: unknown writer: bogus\n"),
		runErr: &exec.ExitError{},
	}
	r := newRunner(mock)

	outcome := r.Run(mdToHTMLRequest())

	if outcome.Succeeded {
		t.Fatal("expected failure for non-zero exit")
	}
	if outcome.ErrorDetail != "pandoc: unknown writer: bogus\n" {
		t.Errorf("error detail = %q, want captured stderr", outcome.ErrorDetail)
	}
	if outcome.CapturedOutput != "" {
		t.Errorf("captured output should be empty on failure, got %q", outcome.CapturedOutput)
	}
}

func TestRun_LaunchFailure(t *testing.T) {
	mock := &mockExecutor{runErr: errors.New(`exec: "pandoc": executable file not found in $PATH`)}
	r := newRunner(mock)

	outcome := r.Run(mdToHTMLRequest())

	if outcome.Succeeded {
		t.Fatal("expected failure when the process cannot launch")
	}
	if outcome.ErrorDetail == "" {
		t.Error("launch failure must carry a non-empty error detail")
	}
	if !strings.Contains(outcome.ErrorDetail, "not found") {
		t.Errorf("error detail = %q, want the launch error message", outcome.ErrorDetail)
	}
}

func TestCheckPandoc(t *testing.T) {
	tests := []struct {
		name    string
		exec    *mockExecutor
		wantErr bool
	}{
		{
			name: "pandoc present and responding",
			exec: &mockExecutor{
				availableBins: map[string]bool{"pandoc": true},
				runnableCmds:  map[string]bool{"pandoc --version": true},
			},
		},
		{
			name:    "pandoc missing from PATH",
			exec:    &mockExecutor{availableBins: map[string]bool{}},
			wantErr: true,
		},
		{
			name: "pandoc on PATH but version query fails",
			exec: &mockExecutor{
				availableBins: map[string]bool{"pandoc": true},
				runnableCmds:  map[string]bool{},
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := newToolchain(tt.exec)
			err := tc.CheckPandoc()
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckPandoc() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !strings.Contains(err.Error(), "pandoc.org") {
				t.Errorf("error should point at the install page, got: %v", err)
			}
		})
	}
}

func TestCheckEngine(t *testing.T) {
	mock := &mockExecutor{
		availableBins: map[string]bool{"xelatex": true},
		runnableCmds:  map[string]bool{"xelatex --version": true},
	}
	tc := newToolchain(mock)

	if err := tc.CheckEngine(types.EngineXeLaTeX); err != nil {
		t.Errorf("unexpected error for installed engine: %v", err)
	}
	if err := tc.CheckEngine(types.EnginePDFLaTeX); err == nil {
		t.Error("expected error for missing engine")
	} else if !strings.Contains(err.Error(), "pdflatex") {
		t.Errorf("error should name the engine, got: %v", err)
	}
}

func TestVersion(t *testing.T) {
	mock := &mockExecutor{
		stdout: []byte("pandoc 3.1.9\nFeatures: +server +lua\n"),
	}
	r := newRunner(mock)

	v, err := r.Version()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "pandoc 3.1.9" {
		t.Errorf("version = %q, want first line of --version output", v)
	}
}
