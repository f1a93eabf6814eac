// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bulk

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// Report is the serialized form of a batch run.
type Report struct {
	Directory    string      `yaml:"directory"`
	InputFormat  string      `yaml:"input_format"`
	OutputFormat string      `yaml:"output_format"`
	Result       BatchResult `yaml:"result"`
}

// WriteReport writes the batch report as YAML to path.
func WriteReport(path string, report Report) error {
	data, err := yaml.Marshal(&report)
	if err != nil {
		return fmt.Errorf("marshaling batch report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing batch report %s: %w", path, err)
	}
	return nil
}
