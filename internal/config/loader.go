package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/covergen/pkg/jsonschema"
)

// File is the on-disk shape of a targets file.
//
// Example YAML:
//
//	default: eyes_selenium_java_local
//	targets:
//	  - name: eyes_selenium_java_local
//	    emitter: https://example.com/java/emitter.js
//	    overrides:
//	      - https://example.com/java/overrides.js
//	    template: https://example.com/java/template.hbs
//	    tests: https://example.com/coverage-tests.js
//	    ext: .java
//	    outPath: ./src/test/java/coverage/generic
type File struct {
	// Default names the record used when no target is requested (optional)
	Default string `json:"default,omitempty" yaml:"default,omitempty"`

	// Targets lists the records in the file
	Targets []Record `json:"targets" yaml:"targets"`
}

//go:embed schema/targets.schema.json
var targetsSchema []byte

var fileSchema = jsonschema.MustCompile("targets.schema.json", targetsSchema)

// LoadFile loads a targets file into a registry.
func LoadFile(path string) (*Registry, error) {
	file, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return file.Registry()
}

// ParseConfig parses targets file data into a registry.
func ParseConfig(data []byte, path string) (*Registry, error) {
	file, err := DecodeFile(data, path)
	if err != nil {
		return nil, err
	}
	return file.Registry()
}

// ReadFile reads a targets file without validating the records themselves.
func ReadFile(path string) (*File, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	return DecodeFile(data, path)
}

// DecodeFile decodes targets file data.
//
// The format is determined by the extension of path: .json is parsed as
// JSON, anything else as YAML. The document is checked against the targets
// schema; record fields are only shape-checked by Validate.
func DecodeFile(data []byte, path string) (*File, error) {
	doc, err := decodeGeneric(data, path)
	if err != nil {
		return nil, err
	}

	if errs := fileSchema.Validate(doc); len(errs) > 0 {
		return nil, fmt.Errorf("config file does not match schema: %w", errs)
	}

	var file File
	if isJSON(path) {
		err = json.Unmarshal(data, &file)
	} else {
		err = yaml.Unmarshal(data, &file)
	}
	if err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return &file, nil
}

// Registry converts the file into a registry. Without an explicit default
// the first target becomes the default.
func (f *File) Registry() (*Registry, error) {
	if len(f.Targets) == 0 {
		return nil, fmt.Errorf("config file defines no targets")
	}

	defaultName := f.Default
	implicit := defaultName == ""
	if implicit {
		defaultName = f.Targets[0].Name
	}

	reg, err := NewRegistry(defaultName, f.Targets...)
	if err != nil {
		return nil, err
	}
	reg.implicitDefault = implicit
	return reg, nil
}

// decodeGeneric decodes into plain maps and slices, normalised through JSON
// so the schema validator sees JSON types.
func decodeGeneric(data []byte, path string) (interface{}, error) {
	var raw interface{}
	if isJSON(path) {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
		return raw, nil
	}

	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	normalised, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	var out interface{}
	if err := json.Unmarshal(normalised, &out); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	return out, nil
}

func isJSON(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".json"
}
