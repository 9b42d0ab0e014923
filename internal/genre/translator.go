// Package genre translates the raw genre labels of the streaming catalogs
// into their display labels.
package genre

import (
	"encoding/json/v2"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	domainerrors "github.com/streamdash/streamdash-server/internal/errors"
)

// Translator maps raw genre labels to display labels. It is read-only after
// construction and safe for concurrent use.
type Translator struct {
	labels map[string]string
}

// NewTranslator builds a translator over a copy of mapping.
func NewTranslator(mapping map[string]string) *Translator {
	labels := make(map[string]string, len(mapping))
	for raw, display := range mapping {
		labels[raw] = display
	}
	return &Translator{labels: labels}
}

// LoadTranslator reads a mapping file. The format follows the extension:
// .yaml and .yml are YAML, anything else is JSON. Both hold a single flat
// object of raw label to display label.
func LoadTranslator(path string) (*Translator, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- mapping path comes from configuration
	if err != nil {
		return nil, domainerrors.SourceMissingf(err, "read genre map %s", path)
	}

	mapping, err := parseMapping(data, filepath.Ext(path))
	if err != nil {
		return nil, domainerrors.SourceMalformedf(err, "parse genre map %s", path)
	}
	return NewTranslator(mapping), nil
}

func parseMapping(data []byte, ext string) (map[string]string, error) {
	mapping := make(map[string]string)
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &mapping); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, &mapping); err != nil {
			return nil, err
		}
	}
	return mapping, nil
}

// Len returns the number of mapped labels.
func (t *Translator) Len() int {
	return len(t.labels)
}

// Label maps a single raw label. Unknown labels pass through unchanged.
func (t *Translator) Label(raw string) string {
	if display, ok := t.labels[raw]; ok {
		return display
	}
	return raw
}

// Translate splits a comma separated listed_in value and maps each trimmed
// element. An absent value yields an empty, non-nil slice. Order and count
// are preserved, including empty elements left by stray commas.
func (t *Translator) Translate(listedIn string, present bool) []string {
	if !present {
		return []string{}
	}
	parts := strings.Split(listedIn, ",")
	out := make([]string, len(parts))
	for i, part := range parts {
		out[i] = t.Label(strings.TrimSpace(part))
	}
	return out
}

// Stoplist holds display labels that are too generic to rank as genres.
var Stoplist = []string{
	"Internacional",
	"Filmes Internacionais",
	"Séries Internacionais",
	"Séries",
}

var stopped = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Stoplist))
	for _, label := range Stoplist {
		m[label] = struct{}{}
	}
	return m
}()

// IsStopped reports whether a display label is excluded from genre rankings.
func IsStopped(label string) bool {
	_, ok := stopped[label]
	return ok
}
