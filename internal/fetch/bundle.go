package fetch

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/covergen/internal/config"
)

// ManifestName is the file written next to the artifacts of a bundle.
const ManifestName = "manifest.yaml"

// Manifest describes a bundle written to disk.
type Manifest struct {
	RunID     string         `json:"runId" yaml:"runId"`
	FetchedAt time.Time      `json:"fetchedAt" yaml:"fetchedAt"`
	Target    config.Record  `json:"target" yaml:"target"`
	Files     []ManifestFile `json:"files" yaml:"files"`
	Stats     Stats          `json:"stats" yaml:"stats"`
}

// ManifestFile is one artifact entry of a manifest. Path is relative to
// the bundle directory and uses forward slashes.
type ManifestFile struct {
	Kind   Kind   `json:"kind" yaml:"kind"`
	Index  int    `json:"index,omitempty" yaml:"index,omitempty"`
	URL    string `json:"url" yaml:"url"`
	Path   string `json:"path" yaml:"path"`
	Size   int    `json:"size" yaml:"size"`
	SHA256 string `json:"sha256" yaml:"sha256"`
}

// RelPath returns where an artifact is stored inside a bundle directory:
// emitter/<base>, overrides/NN-<base>, template/<base>, tests/<base>.
func (a Artifact) RelPath() string {
	base := "artifact"
	if u, err := url.Parse(a.URL); err == nil {
		if b := path.Base(u.Path); b != "." && b != "/" {
			base = b
		}
	}

	switch a.Kind {
	case KindOverride:
		return path.Join("overrides", fmt.Sprintf("%02d-%s", a.Index, base))
	case KindEmitter:
		return path.Join("emitter", base)
	case KindTemplate:
		return path.Join("template", base)
	default:
		return path.Join("tests", base)
	}
}

// WriteTo writes every artifact and the manifest under dir.
func (b *Bundle) WriteTo(dir string) (*Manifest, error) {
	m := &Manifest{
		RunID:     b.RunID,
		FetchedAt: b.FetchedAt,
		Target:    b.Record.Clone(),
		Stats:     b.Stats,
	}

	for _, a := range b.Artifacts() {
		rel := a.RelPath()
		dst := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return nil, fmt.Errorf("error creating bundle directory: %w", err)
		}
		if err := os.WriteFile(dst, a.Body, 0644); err != nil {
			return nil, fmt.Errorf("error writing %s: %w", rel, err)
		}

		sum := sha256.Sum256(a.Body)
		m.Files = append(m.Files, ManifestFile{
			Kind:   a.Kind,
			Index:  a.Index,
			URL:    a.URL,
			Path:   rel,
			Size:   len(a.Body),
			SHA256: hex.EncodeToString(sum[:]),
		})
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("error encoding manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestName), data, 0644); err != nil {
		return nil, fmt.Errorf("error writing manifest: %w", err)
	}

	return m, nil
}

// ReadManifest loads a manifest previously written by WriteTo.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		return nil, fmt.Errorf("error reading manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("error parsing manifest: %w", err)
	}
	return &m, nil
}
