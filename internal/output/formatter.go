package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/wesleyorama2/covergen/internal/config"
	"github.com/wesleyorama2/covergen/internal/fetch"
	"github.com/wesleyorama2/covergen/pkg/jsonpath"
)

// Formatter renders targets, validation results and fetch summaries
type Formatter struct {
	Format  OutputFormat
	NoColor bool
	colors  *ColorScheme
}

// NewFormatter creates a new formatter with the given options
func NewFormatter(format OutputFormat, noColor bool) *Formatter {
	colors := DefaultColorScheme()
	if noColor {
		colors = NoColorScheme()
	}
	return &Formatter{
		Format:  format,
		NoColor: noColor,
		colors:  colors,
	}
}

// FormatRecord renders a single target
func (f *Formatter) FormatRecord(r config.Record, isDefault bool) (string, error) {
	if f.Format != FormatText {
		return marshal(f.Format, r)
	}

	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("▶ TARGET: %s", f.colors.Name.Sprint(r.Name)))
	if isDefault {
		buf.WriteString(" " + f.colors.Default.Sprint("(default)"))
	}
	buf.WriteString("\n")

	f.writeField(&buf, "emitter", f.colors.URL.Sprint(r.Emitter))
	buf.WriteString(fmt.Sprintf("  %s\n", f.colors.Key.Sprint("overrides:")))
	for i, o := range r.Overrides {
		buf.WriteString(fmt.Sprintf("    %d. %s\n", i+1, f.colors.URL.Sprint(o)))
	}
	f.writeField(&buf, "template", f.colors.URL.Sprint(r.Template))
	f.writeField(&buf, "tests", f.colors.URL.Sprint(r.Tests))
	f.writeField(&buf, "ext", f.colors.Value.Sprint(r.Ext))
	f.writeField(&buf, "outPath", f.colors.Value.Sprint(r.OutPath))

	return buf.String(), nil
}

func (f *Formatter) writeField(buf *strings.Builder, key, value string) {
	label := fmt.Sprintf("%-10s", key+":")
	buf.WriteString(fmt.Sprintf("  %s %s\n", f.colors.Key.Sprint(label), value))
}

// FormatList renders the available targets
func (f *Formatter) FormatList(records []config.Record, defaultName string) (string, error) {
	summaries := make([]TargetSummary, len(records))
	for i, r := range records {
		summaries[i] = TargetSummary{
			Name:      r.Name,
			Default:   r.Name == defaultName,
			Ext:       r.Ext,
			OutPath:   r.OutPath,
			Overrides: len(r.Overrides),
		}
	}

	if f.Format != FormatText {
		return marshal(f.Format, summaries)
	}

	var buf strings.Builder
	for _, s := range summaries {
		marker := " "
		if s.Default {
			marker = f.colors.Default.Sprint("*")
		}
		buf.WriteString(fmt.Sprintf("%s %s  %s → %s\n",
			marker, f.colors.Name.Sprint(s.Name), s.Ext, s.OutPath))
	}
	return buf.String(), nil
}

// NewValidationResult converts validation errors for display
func NewValidationResult(name string, errs config.ValidationErrors) ValidationResult {
	res := ValidationResult{Name: name, Valid: len(errs) == 0}
	for _, e := range errs {
		res.Errors = append(res.Errors, FieldError{Path: e.Path, Message: e.Message})
	}
	return res
}

// FormatValidation renders validation results
func (f *Formatter) FormatValidation(results []ValidationResult) (string, error) {
	if f.Format != FormatText {
		return marshal(f.Format, results)
	}

	var buf strings.Builder
	for _, res := range results {
		if res.Valid {
			buf.WriteString(fmt.Sprintf("%s %s\n", SuccessIcon(f.NoColor), res.Name))
			continue
		}
		buf.WriteString(fmt.Sprintf("%s %s\n", ErrorIcon(f.NoColor), f.colors.Error.Sprint(res.Name)))
		for _, e := range res.Errors {
			buf.WriteString(fmt.Sprintf("    - %s: %s\n", f.colors.Key.Sprint(e.Path), e.Message))
		}
	}
	return buf.String(), nil
}

// FormatManifest renders the result of a fetch
func (f *Formatter) FormatManifest(m *fetch.Manifest, dir string) (string, error) {
	if f.Format != FormatText {
		return marshal(f.Format, m)
	}

	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("%s fetched %s into %s\n",
		SuccessIcon(f.NoColor), f.colors.Name.Sprint(m.Target.Name), dir))
	for _, file := range m.Files {
		buf.WriteString(fmt.Sprintf("    %-9s %s (%s)\n", file.Kind, file.Path, formatBytes(int64(file.Size))))
	}

	s := m.Stats
	buf.WriteString(fmt.Sprintf("  %s %d artifacts, %s, %d cached\n",
		f.colors.Key.Sprint("total:"), s.Count, formatBytes(s.Bytes), s.CacheHits))
	if s.Count > s.CacheHits {
		buf.WriteString(fmt.Sprintf("  %s p50 %v, p90 %v, p99 %v, max %v\n",
			f.colors.Key.Sprint("latency:"), s.P50, s.P90, s.P99, s.Max))
	}
	buf.WriteString(fmt.Sprintf("  %s %s\n", f.colors.Key.Sprint("run:"), f.colors.Highlight.Sprint(m.RunID)))
	return buf.String(), nil
}

// FieldValue extracts a single field of a record with a JSONPath expression
func FieldValue(r config.Record, path string) (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("error encoding target: %w", err)
	}
	return jsonpath.Extract(string(data), path)
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}
