// Package jsonpath extracts values from JSON documents with a small subset
// of JSONPath ($.a.b, $.list[0], $['key']).
package jsonpath

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Extract extracts a value from a JSON string using a JSONPath expression.
// Strings are returned unquoted, null as "null", objects and arrays as raw JSON.
func Extract(json string, path string) (string, error) {
	result, err := Lookup(json, path)
	if err != nil {
		return "", err
	}
	if result.Type == gjson.Null {
		return "null", nil
	}
	return result.String(), nil
}

// ExtractAll extracts a list. Scalars yield a single element.
func ExtractAll(json string, path string) ([]string, error) {
	result, err := Lookup(json, path)
	if err != nil {
		return nil, err
	}
	if !result.IsArray() {
		return []string{result.String()}, nil
	}

	var values []string
	result.ForEach(func(_, v gjson.Result) bool {
		values = append(values, v.String())
		return true
	})
	return values, nil
}

// Lookup returns the raw gjson result for a JSONPath expression.
func Lookup(json string, path string) (gjson.Result, error) {
	if json == "" {
		return gjson.Result{}, fmt.Errorf("empty JSON string")
	}
	if path == "" {
		return gjson.Result{}, fmt.Errorf("empty JSONPath expression")
	}
	if !gjson.Valid(json) {
		return gjson.Result{}, fmt.Errorf("invalid JSON document")
	}

	result := gjson.Get(json, toGjsonPath(path))
	if !result.Exists() {
		return gjson.Result{}, fmt.Errorf("path not found: %s", path)
	}
	return result, nil
}

// toGjsonPath converts $.users[0]['name'] to users.0.name
func toGjsonPath(path string) string {
	path = strings.TrimPrefix(path, "$")
	if path == "" {
		return "@this"
	}

	r := strings.NewReplacer(
		"['", ".",
		"']", "",
		`["`, ".",
		`"]`, "",
		"[", ".",
		"]", "",
	)
	path = r.Replace(path)

	return strings.TrimPrefix(path, ".")
}
