package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/emberworks/firefighter-simulator/model"
)

var (
	// ErrUnknownGraph indicates a graph name missing from the catalog.
	ErrUnknownGraph = errors.New("unknown graph")

	// ErrUnknownPreset indicates a preset name missing from the catalog.
	ErrUnknownPreset = errors.New("unknown preset")
)

// Catalog maps graph names to their files on disk and holds named settings
// presets for common simulation setups.
type Catalog struct {
	Graphs  map[string]string         `yaml:"graphs"`
	Presets map[string]model.Settings `yaml:"presets"`
}

// LoadCatalog reads and validates the YAML catalog at path.
func LoadCatalog(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	cat, err := ParseCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return cat, nil
}

// ParseCatalog decodes and validates a YAML catalog from r.
func ParseCatalog(r io.Reader) (*Catalog, error) {
	var cat Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cat); err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}

	if len(cat.Graphs) == 0 {
		return nil, errors.New("no graphs declared")
	}
	for name, path := range cat.Graphs {
		if name == "" {
			return nil, errors.New("graph with empty name")
		}
		if path == "" {
			return nil, fmt.Errorf("graph %q has no file path", name)
		}
	}
	for name, preset := range cat.Presets {
		if err := preset.Validate(); err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
		if _, ok := cat.Graphs[preset.GraphName]; !ok {
			return nil, fmt.Errorf("preset %q references %w %q", name, ErrUnknownGraph, preset.GraphName)
		}
	}

	return &cat, nil
}

// GraphPath resolves a graph name to its file path.
func (c *Catalog) GraphPath(name string) (string, error) {
	path, ok := c.Graphs[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownGraph, name)
	}
	return path, nil
}

// Preset resolves a preset name to its settings.
func (c *Catalog) Preset(name string) (model.Settings, error) {
	preset, ok := c.Presets[name]
	if !ok {
		return model.Settings{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return preset, nil
}
