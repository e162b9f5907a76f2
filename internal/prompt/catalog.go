// Package prompt holds the catalog of opaque step descriptors passed to the extraction service.
package prompt

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"comex/internal/domain"
)

//go:embed steps.yaml
var defaultCatalog []byte

// Entry is the configurable text of one step.
type Entry struct {
	Ordinal     int    `yaml:"ordinal"`
	Description string `yaml:"description"`
	Prompt      string `yaml:"prompt"`
}

// Catalog maps (document type, ordinal) to step descriptors. Read-only after loading.
type Catalog struct {
	entries map[domain.DocumentType]map[int]Entry
}

// Default parses the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog file; an empty path yields the embedded default.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("prompt.Load: %w", err)
	}
	return Parse(data)
}

// Parse decodes catalog YAML.
func Parse(data []byte) (*Catalog, error) {
	var raw map[string][]Entry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("prompt.Parse: %w", err)
	}
	c := &Catalog{entries: make(map[domain.DocumentType]map[int]Entry, len(raw))}
	for key, entries := range raw {
		docType, ok := domain.ParseDocumentType(key)
		if !ok {
			return nil, fmt.Errorf("prompt.Parse: unknown document type %q", key)
		}
		byOrdinal := make(map[int]Entry, len(entries))
		for _, e := range entries {
			if e.Ordinal < 1 {
				return nil, fmt.Errorf("prompt.Parse: %s: step ordinal must be >= 1", key)
			}
			byOrdinal[e.Ordinal] = e
		}
		c.entries[docType] = byOrdinal
	}
	return c, nil
}

// Lookup returns the entry for a step.
func (c *Catalog) Lookup(t domain.DocumentType, ordinal int) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	e, ok := c.entries[t][ordinal]
	return e, ok
}

// Apply fills prompt descriptors and missing descriptions on a type's declared steps.
// Steps absent from the catalog get the generated descriptor "<type>:<step name>".
func (c *Catalog) Apply(t domain.DocumentType, steps []domain.ProcessingStep) []domain.ProcessingStep {
	out := make([]domain.ProcessingStep, len(steps))
	for i, s := range steps {
		if e, ok := c.Lookup(t, s.Ordinal); ok {
			if e.Prompt != "" {
				s.PromptDescriptor = e.Prompt
			}
			if s.Description == "" {
				s.Description = e.Description
			}
		}
		if s.PromptDescriptor == "" {
			s.PromptDescriptor = fmt.Sprintf("%s:%s", t, s.Name)
		}
		out[i] = s
	}
	return out
}
