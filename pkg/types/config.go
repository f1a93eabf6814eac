// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ConvertConfig holds settings shared by every conversion path.
type ConvertConfig struct {
	// Engine is the typesetting backend for PDF output (default xelatex).
	Engine Engine `json:"engine" yaml:"engine"`

	// ExtraArgs is a shell-style string of additional pandoc arguments
	// (e.g. "--toc --standalone"), split before use.
	ExtraArgs string `json:"extra_args,omitempty" yaml:"extra_args,omitempty"`

	// ShowOutput controls whether pandoc's captured standard output is
	// printed after a successful conversion.
	ShowOutput bool `json:"show_output" yaml:"show_output"`
}

// BulkConfig holds settings for directory-wide conversion runs.
type BulkConfig struct {
	ConvertConfig `yaml:",inline"`

	// InputFormat selects which files under the directory are converted:
	// those whose name ends in "." + InputFormat.
	InputFormat Format `json:"input_format" yaml:"input_format"`

	// OutputFormat is the target format for every matched file.
	OutputFormat Format `json:"output_format" yaml:"output_format"`

	// ReportPath, when non-empty, is where the YAML batch report is written.
	ReportPath string `json:"report_path,omitempty" yaml:"report_path,omitempty"`
}

// WatchConfig holds settings for continuous directory watching.
type WatchConfig struct {
	BulkConfig `yaml:",inline"`

	// SettleDelay is how long a path must stay quiet after its last
	// filesystem event before it is converted (default 500ms). Editors and
	// downloads write files in bursts; converting mid-write wastes a
	// pandoc run.
	SettleDelay time.Duration `json:"settle_delay" yaml:"settle_delay"`
}

// HistoryConfig holds settings for the conversion-history store.
type HistoryConfig struct {
	// Path is the SQLite database file. Empty disables recording.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// MaxResults is the default number of records listed (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
