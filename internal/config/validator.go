package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrNotFound is matched by every NotFoundError.
var ErrNotFound = errors.New("target not found")

// NotFoundError is returned when no record matches the requested name.
type NotFoundError struct {
	Name string
}

// Error returns the error message
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("target not found: %s", e.Name)
}

// Is makes NotFoundError match ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError represents a malformed record field
type ValidationError struct {
	Path    string
	Message string
}

// Error returns the error message
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors collects every problem found in a record.
type ValidationErrors []ValidationError

// Error joins all validation messages
func (ve ValidationErrors) Error() string {
	msgs := make([]string, len(ve))
	for i, e := range ve {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Err returns nil when there are no errors, so callers can use the usual
// `if err != nil` check.
func (ve ValidationErrors) Err() error {
	if len(ve) == 0 {
		return nil
	}
	return ve
}

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// Validate checks the shape of every field of a record.
func Validate(r Record) ValidationErrors {
	var errs ValidationErrors

	if r.Name == "" {
		errs = append(errs, ValidationError{Path: "name", Message: "name is required"})
	} else if !namePattern.MatchString(r.Name) {
		errs = append(errs, ValidationError{
			Path:    "name",
			Message: fmt.Sprintf("invalid name %q: only letters, digits, '_', '.' and '-' are allowed", r.Name),
		})
	}

	errs = appendURLError(errs, "emitter", r.Emitter)

	if len(r.Overrides) == 0 {
		errs = append(errs, ValidationError{Path: "overrides", Message: "at least one override is required"})
	}
	for i, o := range r.Overrides {
		errs = appendURLError(errs, fmt.Sprintf("overrides[%d]", i), o)
	}

	errs = appendURLError(errs, "template", r.Template)
	errs = appendURLError(errs, "tests", r.Tests)

	if err := validateExt(r.Ext); err != "" {
		errs = append(errs, ValidationError{Path: "ext", Message: err})
	}
	if err := validateOutPath(r.OutPath); err != "" {
		errs = append(errs, ValidationError{Path: "outPath", Message: err})
	}

	return errs
}

func appendURLError(errs ValidationErrors, field, raw string) ValidationErrors {
	if msg := validateURL(raw); msg != "" {
		return append(errs, ValidationError{Path: field, Message: msg})
	}
	return errs
}

// validateURL requires scheme, host and path to be present.
func validateURL(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "url is required"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Sprintf("invalid url %q: %v", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Sprintf("invalid url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Sprintf("invalid url %q: host is required", raw)
	}
	if u.Path == "" || u.Path == "/" {
		return fmt.Sprintf("invalid url %q: path is required", raw)
	}
	return ""
}

func validateExt(ext string) string {
	switch {
	case ext == "":
		return "ext is required"
	case !strings.HasPrefix(ext, "."):
		return fmt.Sprintf("invalid ext %q: must start with '.'", ext)
	case len(ext) == 1:
		return "ext must name a suffix after '.'"
	case strings.ContainsAny(ext, `/\`):
		return fmt.Sprintf("invalid ext %q: must not contain a path separator", ext)
	}
	return ""
}

func validateOutPath(p string) string {
	if strings.TrimSpace(p) == "" {
		return "outPath is required"
	}
	if strings.HasPrefix(p, "/") || strings.HasPrefix(p, `\`) || filepath.IsAbs(p) || filepath.VolumeName(p) != "" {
		return fmt.Sprintf("invalid outPath %q: must be relative", p)
	}
	for _, seg := range strings.FieldsFunc(p, func(r rune) bool { return r == '/' || r == '\\' }) {
		if seg == ".." {
			return fmt.Sprintf("invalid outPath %q: must not contain '..'", p)
		}
	}
	return ""
}
