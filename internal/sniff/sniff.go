// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sniff guesses a document's input format so the user does not
// have to name it. The extension is authoritative when it matches the
// input vocabulary; content sniffing is the fallback for unknown or
// missing extensions.
package sniff

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/queball1999/QConvert/pkg/types"
)

// mimeFormats maps sniffed MIME types to input format tags, most specific
// first. Markdown usually sniffs as plain text, so txt is the tail match.
var mimeFormats = []struct {
	mime   string
	format types.Format
}{
	{"application/epub+zip", types.FormatEPUB},
	{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", types.FormatDOCX},
	{"text/html", types.FormatHTML},
	{"text/markdown", types.FormatMarkdown},
	{"text/plain", types.FormatText},
}

// DetectFormat returns the input format for the file at path. Detection is
// best-effort: an unrecognized type is a recoverable error and the caller
// should ask for an explicit format instead.
func DetectFormat(path string) (types.Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if f := types.Format(ext); types.ValidInputFormat(f) {
		return f, nil
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("detecting file type of %s: %w", path, err)
	}
	for _, m := range mimeFormats {
		if mt.Is(m.mime) {
			return m.format, nil
		}
	}
	return "", fmt.Errorf("unsupported file type %s (detected %s); pass the input format explicitly", path, mt.String())
}
