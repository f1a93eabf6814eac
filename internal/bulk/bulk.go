// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bulk converts every matching file under a directory tree. It
// scans for files carrying the selected input suffix, builds one request
// per match, and works through them as an explicit sequential queue: the
// next request is dequeued only after the previous outcome is observed, so
// a single pandoc process is in flight at any time.
package bulk

import (
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/queball1999/QConvert/internal/job"
	"github.com/queball1999/QConvert/pkg/types"
)

// Matches reports whether the file name carries the input format's
// suffix. Matching ignores case, like the converter it fronts.
func Matches(name string, from types.Format) bool {
	return strings.HasSuffix(strings.ToLower(name), "."+string(from))
}

// OutputPath replaces the input suffix with the output format's, keeping
// the file in its directory. The caller must have checked Matches first.
func OutputPath(path string, from, to types.Format) string {
	trimmed := path[:len(path)-len(string(from))-1]
	return trimmed + "." + string(to)
}

// Scan walks dir and returns one ConversionRequest per file whose
// lowercased name ends in "." + cfg.InputFormat. Each output path is the
// input path with the suffix replaced, in the same directory. WalkDir's
// lexical order makes repeated runs enumerate identically.
func Scan(dir string, cfg types.BulkConfig, extraArgs []string) ([]types.ConversionRequest, error) {
	var requests []types.ConversionRequest

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !Matches(d.Name(), cfg.InputFormat) {
			return nil
		}
		requests = append(requests, types.ConversionRequest{
			InputPath:    path,
			OutputPath:   OutputPath(path, cfg.InputFormat, cfg.OutputFormat),
			InputFormat:  cfg.InputFormat,
			OutputFormat: cfg.OutputFormat,
			Engine:       cfg.Engine,
			ExtraArgs:    extraArgs,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	return requests, nil
}

// FileOutcome pairs one request with its outcome for reporting.
type FileOutcome struct {
	InputPath   string `json:"input_path" yaml:"input_path"`
	OutputPath  string `json:"output_path" yaml:"output_path"`
	Succeeded   bool   `json:"succeeded" yaml:"succeeded"`
	ErrorDetail string `json:"error_detail,omitempty" yaml:"error_detail,omitempty"`
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int           `json:"converted" yaml:"converted"`
	Failed    int           `json:"failed" yaml:"failed"`
	Files     []FileOutcome `json:"files" yaml:"files"`
	StartedAt time.Time     `json:"started_at" yaml:"started_at"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}

// Total returns the total number of files processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Failed
}

// HasFailures reports whether any file failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Observer sees every per-file outcome as it completes, with the job's
// wall-clock timing. A nil observer is ignored.
type Observer func(req types.ConversionRequest, outcome types.ConversionOutcome, startedAt time.Time, duration time.Duration)

// Run executes the requests one at a time, printing a status line per file
// to w and returning a summary. A failed file does not abort the batch;
// failures are recapped after the summary line. Each request runs through
// an independent job whose events are fully drained before the next
// request starts.
func Run(exec job.Executor, requests []types.ConversionRequest, w io.Writer, observe Observer) BatchResult {
	result := BatchResult{StartedAt: time.Now()}

	for _, req := range requests {
		jobStart := time.Now()
		outcome := job.Run(exec, req, nil)
		if observe != nil {
			observe(req, outcome, jobStart, time.Since(jobStart))
		}

		file := FileOutcome{
			InputPath:   req.InputPath,
			OutputPath:  req.OutputPath,
			Succeeded:   outcome.Succeeded,
			ErrorDetail: outcome.ErrorDetail,
		}
		result.Files = append(result.Files, file)

		if outcome.Succeeded {
			result.Converted++
			fmt.Fprintf(w, "converted: %s -> %s\n", req.InputPath, req.OutputPath)
		} else {
			result.Failed++
			fmt.Fprintf(w, "failed:  %s (%s)\n", req.InputPath, strings.TrimSpace(outcome.ErrorDetail))
		}
	}

	result.Duration = time.Since(result.StartedAt)
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d failed (total: %d)\n",
		result.Converted, result.Failed, result.Total())
	for _, f := range result.Files {
		if !f.Succeeded {
			fmt.Fprintf(w, "  failed: %s\n", f.InputPath)
		}
	}
	return result
}
