package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const yamlTargets = `
default: eyes_images_java
targets:
  - name: eyes_images_java
    emitter: https://example.com/java/emitter.js
    overrides:
      - https://example.com/java/overrides.js
      - https://example.com/images.overrides.js
    template: https://example.com/java/template.hbs
    tests: https://example.com/coverage-tests.js
    ext: .java
    outPath: ./src/test/java/coverage/images
  - name: eyes_selenium_ruby
    emitter: https://example.com/ruby/emitter.js
    overrides:
      - https://example.com/ruby/overrides.js
    template: https://example.com/ruby/template.hbs
    tests: https://example.com/coverage-tests.js
    ext: .rb
    outPath: ./test/coverage/generic
`

const jsonTargets = `{
	"targets": [
		{
			"name": "eyes_selenium_java",
			"emitter": "https://example.com/java/emitter.js",
			"overrides": ["https://example.com/java/overrides.js"],
			"template": "https://example.com/java/template.hbs",
			"tests": "https://example.com/coverage-tests.js",
			"ext": ".java",
			"outPath": "./src/test/java/coverage/generic"
		}
	]
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Error creating test config file: %v", err)
	}
	return path
}

func TestLoadFile_YAML(t *testing.T) {
	path := writeFile(t, "targets.yaml", yamlTargets)

	reg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("Error loading config: %v", err)
	}

	if reg.DefaultName() != "eyes_images_java" {
		t.Errorf("Expected default eyes_images_java, got %s", reg.DefaultName())
	}

	names := reg.Names()
	if len(names) != 2 {
		t.Fatalf("Expected 2 targets, got %d", len(names))
	}

	ruby, err := reg.Load("eyes_selenium_ruby")
	if err != nil {
		t.Fatalf("Error loading ruby target: %v", err)
	}
	if ruby.Ext != ".rb" {
		t.Errorf("Expected ext .rb, got %s", ruby.Ext)
	}
	if ruby.OutPath != "./test/coverage/generic" {
		t.Errorf("Expected outPath ./test/coverage/generic, got %s", ruby.OutPath)
	}

	images, err := reg.Load("")
	if err != nil {
		t.Fatalf("Error loading default target: %v", err)
	}
	if len(images.Overrides) != 2 || !strings.HasSuffix(images.Overrides[1], "images.overrides.js") {
		t.Errorf("Expected overrides in file order, got %v", images.Overrides)
	}
}

func TestLoadFile_JSON(t *testing.T) {
	path := writeFile(t, "targets.json", jsonTargets)

	reg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("Error loading config: %v", err)
	}

	// first target becomes the default
	r, err := reg.Load("")
	if err != nil {
		t.Fatalf("Error loading default target: %v", err)
	}
	if r.Name != "eyes_selenium_java" {
		t.Errorf("Expected eyes_selenium_java, got %s", r.Name)
	}
	if r.Emitter != "https://example.com/java/emitter.js" {
		t.Errorf("Unexpected emitter %s", r.Emitter)
	}
}

func TestLoadFile_FileNotFound(t *testing.T) {
	_, err := LoadFile("non-existent-file.yaml")
	if err == nil {
		t.Fatal("Expected error for non-existent file, got nil")
	}
	if !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		content  string
		contains string
	}{
		{
			name:     "invalid JSON",
			path:     "targets.json",
			content:  `{ this is not valid json }`,
			contains: "failed to parse JSON config",
		},
		{
			name:     "invalid YAML",
			path:     "targets.yaml",
			content:  "targets: [unclosed",
			contains: "failed to parse YAML config",
		},
		{
			name:     "no targets",
			path:     "targets.yaml",
			content:  "targets: []\n",
			contains: "does not match schema",
		},
		{
			name:     "unknown field",
			path:     "targets.yaml",
			content:  strings.Replace(yamlTargets, "ext: .rb", "ext: .rb\n    extension: .rb", 1),
			contains: "does not match schema",
		},
		{
			name:     "missing field",
			path:     "targets.json",
			content:  strings.Replace(jsonTargets, `"tests": "https://example.com/coverage-tests.js",`, "", 1),
			contains: "tests",
		},
		{
			name:     "malformed url passes schema but fails validation",
			path:     "targets.yaml",
			content:  strings.Replace(yamlTargets, "https://example.com/ruby/emitter.js", "ruby/emitter.js", 1),
			contains: "invalid target 'eyes_selenium_ruby'",
		},
		{
			name:     "parent traversal in outPath",
			path:     "targets.yaml",
			content:  strings.Replace(yamlTargets, "./test/coverage/generic", "../test", 1),
			contains: "outPath",
		},
		{
			name:     "default not defined",
			path:     "targets.yaml",
			content:  strings.Replace(yamlTargets, "default: eyes_images_java", "default: eyes_nothing", 1),
			contains: "target not found: eyes_nothing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.content), tt.path)
			if err == nil {
				t.Fatalf("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("Expected error to contain '%s', got '%v'", tt.contains, err)
			}
		})
	}
}

func TestParseConfig_UnknownExtensionIsYAML(t *testing.T) {
	reg, err := ParseConfig([]byte(yamlTargets), "targets.conf")
	if err != nil {
		t.Fatalf("Expected YAML fallback, got error: %v", err)
	}
	if len(reg.Names()) != 2 {
		t.Errorf("Expected 2 targets, got %d", len(reg.Names()))
	}
}

func TestDecodeFile_KeepsMalformedRecords(t *testing.T) {
	content := strings.Replace(yamlTargets, "ext: .rb", "ext: .rb/x", 1)
	content = strings.Replace(content, "https://example.com/ruby/emitter.js", "ruby/emitter.js", 1)

	// the ext pattern rejects separators at schema level
	if _, err := DecodeFile([]byte(content), "targets.yaml"); err == nil {
		t.Fatal("Expected schema error for ext with separator")
	}

	content = strings.Replace(content, "ext: .rb/x", "ext: .rb", 1)
	file, err := DecodeFile([]byte(content), "targets.yaml")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(file.Targets) != 2 {
		t.Fatalf("Expected 2 targets, got %d", len(file.Targets))
	}

	errs := Validate(file.Targets[1])
	if len(errs) != 1 || errs[0].Path != "emitter" {
		t.Errorf("Expected a single emitter error, got %v", errs)
	}
}
