// Package jsonschema compiles JSON Schemas once and validates documents
// against them, reporting every failing location.
package jsonschema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidationErrors represents a collection of validation errors
type ValidationErrors []error

// Error implements the error interface for ValidationErrors
func (ve ValidationErrors) Error() string {
	msgs := make([]string, len(ve))
	for i, err := range ve {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Schema is a compiled JSON Schema.
type Schema struct {
	name   string
	schema *jsonschema.Schema
}

// Compile parses and compiles a schema. The name is used as the resource
// URL inside the compiler and in error messages.
func Compile(name string, schema []byte) (*Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, strings.NewReader(string(schema))); err != nil {
		return nil, fmt.Errorf("invalid schema %s: %w", name, err)
	}

	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("invalid schema %s: %w", name, err)
	}

	return &Schema{name: name, schema: compiled}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(name string, schema []byte) *Schema {
	s, err := Compile(name, schema)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the resource name the schema was compiled under.
func (s *Schema) Name() string {
	return s.name
}

// Validate checks a decoded JSON value (maps, slices, strings, numbers)
// against the schema. It returns nil when the value is valid.
func (s *Schema) Validate(v interface{}) ValidationErrors {
	err := s.schema.Validate(v)
	if err == nil {
		return nil
	}
	if validationErr, ok := err.(*jsonschema.ValidationError); ok {
		return extractValidationErrors(validationErr)
	}
	return ValidationErrors{err}
}

// ValidateJSON decodes raw JSON and validates it.
func (s *Schema) ValidateJSON(data []byte) ValidationErrors {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return ValidationErrors{fmt.Errorf("invalid JSON: %w", err)}
	}
	return s.Validate(v)
}

// extractValidationErrors flattens the cause tree into leaf errors
func extractValidationErrors(err *jsonschema.ValidationError) ValidationErrors {
	if len(err.Causes) == 0 {
		location := err.InstanceLocation
		if location == "" {
			location = "/"
		}
		return ValidationErrors{fmt.Errorf("%s: %s", location, err.Message)}
	}

	var errors ValidationErrors
	for _, cause := range err.Causes {
		errors = append(errors, extractValidationErrors(cause)...)
	}
	return errors
}
