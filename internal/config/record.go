// Package config defines the coverage-generation targets consumed by the
// external test emitter and the loaders that resolve them by name.
package config

import (
	"path"
	"strings"
)

// Record describes how the emitter is invoked for one target SDK.
//
// Example YAML:
//
//	name: eyes_selenium_java
//	emitter: https://raw.githubusercontent.com/applitools/sdk.coverage.tests/master/java/emitter.js
//	overrides:
//	  - https://raw.githubusercontent.com/applitools/sdk.coverage.tests/master/java/overrides.js
//	template: https://raw.githubusercontent.com/applitools/sdk.coverage.tests/master/java/template.hbs
//	tests: https://raw.githubusercontent.com/applitools/sdk.coverage.tests/master/coverage-tests.js
//	ext: .java
//	outPath: ./src/test/java/coverage/generic
type Record struct {
	// Name identifies the target SDK binding
	Name string `json:"name" yaml:"name"`

	// Emitter is the URL of the code-generation script
	Emitter string `json:"emitter" yaml:"emitter"`

	// Overrides are applied in order; later entries win on conflicting keys
	Overrides []string `json:"overrides" yaml:"overrides"`

	// Template is the URL of the rendering template used by the emitter
	Template string `json:"template" yaml:"template"`

	// Tests is the URL of the abstract test definitions
	Tests string `json:"tests" yaml:"tests"`

	// Ext is the suffix of generated files, including the leading dot
	Ext string `json:"ext" yaml:"ext"`

	// OutPath is the relative directory generated files are written to
	OutPath string `json:"outPath" yaml:"outPath"`
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	c := r
	if r.Overrides != nil {
		c.Overrides = make([]string, len(r.Overrides))
		copy(c.Overrides, r.Overrides)
	}
	return c
}

// URLs returns every remote reference of the record in fetch order:
// emitter, overrides, template, tests.
func (r Record) URLs() []string {
	urls := make([]string, 0, len(r.Overrides)+3)
	urls = append(urls, r.Emitter)
	urls = append(urls, r.Overrides...)
	urls = append(urls, r.Template, r.Tests)
	return urls
}

// OutputFile returns the path the emitter writes for the named test.
func (r Record) OutputFile(testName string) string {
	// Test names never introduce directories.
	name := strings.ReplaceAll(strings.TrimSpace(testName), "/", "_")
	if !strings.HasSuffix(name, r.Ext) {
		name += r.Ext
	}
	return "./" + path.Join(r.OutPath, name)
}

// Equal reports whether two records are field-for-field identical.
func (r Record) Equal(o Record) bool {
	if r.Name != o.Name || r.Emitter != o.Emitter || r.Template != o.Template ||
		r.Tests != o.Tests || r.Ext != o.Ext || r.OutPath != o.OutPath {
		return false
	}
	if len(r.Overrides) != len(o.Overrides) {
		return false
	}
	for i := range r.Overrides {
		if r.Overrides[i] != o.Overrides[i] {
			return false
		}
	}
	return true
}
