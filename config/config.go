package config

import (
	"fmt"

	targets "github.com/wesleyorama2/covergen/internal/config"
)

// Record is a single generation target.
type Record = targets.Record

// Registry holds named targets and a default.
type Registry = targets.Registry

// NotFoundError is returned for unknown target names.
type NotFoundError = targets.NotFoundError

// ValidationError describes one malformed field.
type ValidationError = targets.ValidationError

// ValidationErrors is every malformed field of a record.
type ValidationErrors = targets.ValidationErrors

// DefaultTarget is the target loaded when no name is given.
const DefaultTarget = targets.DefaultTarget

// ErrNotFound matches any NotFoundError via errors.Is.
var ErrNotFound = targets.ErrNotFound

// Load returns a copy of the named built-in target. An empty name loads
// the default target.
func Load(name string) (Record, error) {
	return targets.Load(name)
}

// Default returns the default built-in target.
func Default() Record {
	return targets.Default()
}

// Names lists the built-in targets in sorted order.
func Names() []string {
	return targets.Names()
}

// Validate checks every field of r.
func Validate(r Record) ValidationErrors {
	return targets.Validate(r)
}

// LoadWithFile returns the built-in targets merged with the targets file at
// path. Records in the file replace built-in records of the same name.
func LoadWithFile(path string) (*Registry, error) {
	overlay, err := targets.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	return targets.Merge(targets.Builtin(), overlay)
}
