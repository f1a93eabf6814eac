// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared value and configuration types for the
// qconvert pipeline.
package types

import "fmt"

// Format is a pandoc format tag drawn from a closed vocabulary.
type Format string

// Input formats accepted by the converter.
const (
	FormatEPUB     Format = "epub"
	FormatDOCX     Format = "docx"
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
	FormatText     Format = "txt"
)

// FormatPDF is output-only: pandoc produces PDF but does not read it.
const FormatPDF Format = "pdf"

// InputFormats lists the supported source formats, in menu order.
func InputFormats() []Format {
	return []Format{FormatEPUB, FormatDOCX, FormatMarkdown, FormatHTML, FormatText}
}

// OutputFormats lists the supported target formats, in menu order.
func OutputFormats() []Format {
	return []Format{FormatPDF, FormatDOCX, FormatHTML, FormatMarkdown, FormatText}
}

// ValidInputFormat reports whether f is a member of the input vocabulary.
func ValidInputFormat(f Format) bool {
	for _, v := range InputFormats() {
		if f == v {
			return true
		}
	}
	return false
}

// ValidOutputFormat reports whether f is a member of the output vocabulary.
func ValidOutputFormat(f Format) bool {
	for _, v := range OutputFormats() {
		if f == v {
			return true
		}
	}
	return false
}

// Engine selects the typesetting backend pandoc uses for PDF output.
type Engine string

const (
	EnginePDFLaTeX Engine = "pdflatex"
	EngineXeLaTeX  Engine = "xelatex"
	EngineLuaLaTeX Engine = "lualatex"
)

// DefaultEngine is the engine used when none is configured.
const DefaultEngine = EngineXeLaTeX

// Engines lists the supported typesetting engines, in menu order.
func Engines() []Engine {
	return []Engine{EnginePDFLaTeX, EngineXeLaTeX, EngineLuaLaTeX}
}

// ValidEngine reports whether e is a member of the engine vocabulary.
func ValidEngine(e Engine) bool {
	for _, v := range Engines() {
		if e == v {
			return true
		}
	}
	return false
}

// ConversionRequest describes one document conversion. A request is built
// fresh per file per invocation and never reused or mutated after
// construction. It does not promise that pandoc supports the format pair;
// that failure surfaces at execution time.
type ConversionRequest struct {
	// InputPath is the source document.
	InputPath string `json:"input_path" yaml:"input_path"`

	// OutputPath is the destination file. Its parent directory must be
	// writable.
	OutputPath string `json:"output_path" yaml:"output_path"`

	// InputFormat is the source format tag.
	InputFormat Format `json:"input_format" yaml:"input_format"`

	// OutputFormat is the target format tag.
	OutputFormat Format `json:"output_format" yaml:"output_format"`

	// Engine is the typesetting backend. It is consulted only when
	// OutputFormat is pdf.
	Engine Engine `json:"engine,omitempty" yaml:"engine,omitempty"`

	// ExtraArgs are additional pandoc arguments passed through verbatim,
	// typically parsed from the extra_args config string.
	ExtraArgs []string `json:"extra_args,omitempty" yaml:"extra_args,omitempty"`
}

// Validate checks vocabulary membership and path presence. It does not
// touch the filesystem.
func (r ConversionRequest) Validate() error {
	if r.InputPath == "" {
		return fmt.Errorf("no input file specified")
	}
	if r.OutputPath == "" {
		return fmt.Errorf("no output file specified")
	}
	if !ValidInputFormat(r.InputFormat) {
		return fmt.Errorf("unsupported input format %q", r.InputFormat)
	}
	if !ValidOutputFormat(r.OutputFormat) {
		return fmt.Errorf("unsupported output format %q", r.OutputFormat)
	}
	if r.OutputFormat == FormatPDF && !ValidEngine(r.Engine) {
		return fmt.Errorf("unsupported PDF engine %q", r.Engine)
	}
	return nil
}

// ConversionOutcome is the result of executing one ConversionRequest.
type ConversionOutcome struct {
	// Succeeded reports whether pandoc exited with status zero.
	Succeeded bool `json:"succeeded" yaml:"succeeded"`

	// CapturedOutput holds pandoc's standard output, decoded as text.
	// Present only on success.
	CapturedOutput string `json:"captured_output,omitempty" yaml:"captured_output,omitempty"`

	// ErrorDetail holds pandoc's standard error, or the launch failure
	// message when the process could not start. Present only on failure.
	ErrorDetail string `json:"error_detail,omitempty" yaml:"error_detail,omitempty"`
}
