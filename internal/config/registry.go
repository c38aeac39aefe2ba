package config

import (
	"fmt"
	"sort"
)

const (
	// DefaultTarget is resolved when no target name is given.
	DefaultTarget = "eyes_selenium_java"

	coverageRepo = "https://raw.githubusercontent.com/applitools/sdk.coverage.tests/"
)

// Registry is an immutable set of records keyed by name.
type Registry struct {
	records     map[string]Record
	defaultName string
	// implicitDefault is set when defaultName was inferred, not configured
	implicitDefault bool
}

// NewRegistry builds a registry from the given records. Every record is
// validated, names must be unique and defaultName must be one of them.
func NewRegistry(defaultName string, records ...Record) (*Registry, error) {
	reg := &Registry{
		records:     make(map[string]Record, len(records)),
		defaultName: defaultName,
	}

	for i, r := range records {
		if err := Validate(r).Err(); err != nil {
			if r.Name == "" {
				return nil, fmt.Errorf("invalid target #%d: %w", i, err)
			}
			return nil, fmt.Errorf("invalid target '%s': %w", r.Name, err)
		}
		if _, dup := reg.records[r.Name]; dup {
			return nil, fmt.Errorf("duplicate target: %s", r.Name)
		}
		reg.records[r.Name] = r.Clone()
	}

	if defaultName == "" {
		return nil, fmt.Errorf("default target name cannot be empty")
	}
	if _, ok := reg.records[defaultName]; !ok {
		return nil, fmt.Errorf("default target %w", &NotFoundError{Name: defaultName})
	}

	return reg, nil
}

// Load returns the record registered under name. An empty name resolves to
// the registry default.
func (reg *Registry) Load(name string) (Record, error) {
	if name == "" {
		name = reg.defaultName
	}
	r, ok := reg.records[name]
	if !ok {
		return Record{}, &NotFoundError{Name: name}
	}
	return r.Clone(), nil
}

// Default returns the default record.
func (reg *Registry) Default() Record {
	return reg.records[reg.defaultName].Clone()
}

// DefaultName returns the name of the default record.
func (reg *Registry) DefaultName() string {
	return reg.defaultName
}

// Names returns all registered names in sorted order.
func (reg *Registry) Names() []string {
	names := make([]string, 0, len(reg.records))
	for name := range reg.records {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Records returns a copy of every record, sorted by name.
func (reg *Registry) Records() []Record {
	names := reg.Names()
	out := make([]Record, len(names))
	for i, name := range names {
		out[i] = reg.records[name].Clone()
	}
	return out
}

// Merge returns a registry holding base's records with overlay's records
// replacing any of the same name. The overlay default wins unless it was
// inferred rather than configured.
func Merge(base, overlay *Registry) (*Registry, error) {
	if overlay == nil {
		return base, nil
	}
	if base == nil {
		return overlay, nil
	}

	merged := make(map[string]Record, len(base.records)+len(overlay.records))
	for name, r := range base.records {
		merged[name] = r
	}
	for name, r := range overlay.records {
		merged[name] = r
	}

	records := make([]Record, 0, len(merged))
	for _, r := range merged {
		records = append(records, r)
	}

	defaultName := base.defaultName
	if !overlay.implicitDefault {
		defaultName = overlay.defaultName
	}
	reg, err := NewRegistry(defaultName, records...)
	if err != nil {
		return nil, err
	}
	reg.implicitDefault = base.implicitDefault && overlay.implicitDefault
	return reg, nil
}

// Builtin returns the registry of targets shipped with covergen.
func Builtin() *Registry {
	reg, err := NewRegistry(DefaultTarget, builtinRecords()...)
	if err != nil {
		// only reachable if builtinRecords is malformed
		panic(err)
	}
	return reg
}

// Load returns the built-in record for name, or the default when name is empty.
func Load(name string) (Record, error) {
	return Builtin().Load(name)
}

// Default returns the default built-in record.
func Default() Record {
	return Builtin().Default()
}

// Names lists the built-in targets.
func Names() []string {
	return Builtin().Names()
}

func builtinRecords() []Record {
	return []Record{
		{
			Name:    "eyes_selenium_java",
			Emitter: coverageRepo + "master/java/emitter.js",
			Overrides: []string{
				coverageRepo + "master/java/overrides.js",
			},
			Template: coverageRepo + "master/java/template.hbs",
			Tests:    coverageRepo + "master/coverage-tests.js",
			Ext:      ".java",
			OutPath:  "./src/test/java/coverage/generic",
		},
		{
			// Execution Grid run: extra overrides and the workaround test branch
			Name:    "eyes_selenium_java_eg",
			Emitter: coverageRepo + "master/java/emitter.js",
			Overrides: []string{
				coverageRepo + "master/java/overrides.js",
				coverageRepo + "master/eg.overrides.js",
			},
			Template: coverageRepo + "master/java/template.hbs",
			Tests:    coverageRepo + "java_emitter_workaround/coverage-tests.js",
			Ext:      ".java",
			OutPath:  "./src/test/java/coverage/generic",
		},
	}
}
