package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// OutputFormat represents the available output formats
type OutputFormat string

const (
	// FormatText is the default human-readable text format
	FormatText OutputFormat = "text"
	// FormatJSON outputs in JSON format
	FormatJSON OutputFormat = "json"
	// FormatYAML outputs in YAML format
	FormatYAML OutputFormat = "yaml"
)

// ParseFormat converts a flag value into an OutputFormat
func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("invalid output format '%s', must be one of: text, json, yaml", s)
}

// TargetSummary is one entry of a target listing
type TargetSummary struct {
	Name      string `json:"name" yaml:"name"`
	Default   bool   `json:"default" yaml:"default"`
	Ext       string `json:"ext" yaml:"ext"`
	OutPath   string `json:"outPath" yaml:"outPath"`
	Overrides int    `json:"overrides" yaml:"overrides"`
}

// FieldError is the structured form of a config.ValidationError
type FieldError struct {
	Path    string `json:"path" yaml:"path"`
	Message string `json:"message" yaml:"message"`
}

// ValidationResult is the outcome of validating one target
type ValidationResult struct {
	Name   string       `json:"name" yaml:"name"`
	Valid  bool         `json:"valid" yaml:"valid"`
	Errors []FieldError `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// marshal renders v as indented JSON or YAML
func marshal(format OutputFormat, v interface{}) (string, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", fmt.Errorf("error encoding JSON: %w", err)
		}
		return string(data) + "\n", nil
	case FormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("error encoding YAML: %w", err)
		}
		return string(data), nil
	}
	return "", fmt.Errorf("format %s is not structured", format)
}
