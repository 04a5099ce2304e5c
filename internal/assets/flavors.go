package assets

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed flavors.yml
var embeddedFlavors []byte

// Flavors maps a flavor name to its option values.
type Flavors map[string]map[string]any

// LoadFlavors reads the embedded flavor presets and, when flavorsPath is set,
// the presets of that file on top of them. A flavor defined in the file
// replaces the embedded flavor of the same name.
func LoadFlavors(flavorsPath string) (Flavors, error) {
	flavors := make(Flavors)
	if err := yaml.Unmarshal(embeddedFlavors, &flavors); err != nil {
		return nil, fmt.Errorf("failed to parse embedded flavors: %w", err)
	}
	if flavorsPath == "" {
		return flavors, nil
	}

	content, err := os.ReadFile(flavorsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read flavors file %s: %w", flavorsPath, err)
	}
	custom := make(Flavors)
	if err := yaml.Unmarshal(content, &custom); err != nil {
		return nil, fmt.Errorf("failed to parse flavors file %s: %w", flavorsPath, err)
	}
	for name, options := range custom {
		slog.Debug("custom flavor", slog.String("name", name), slog.Int("options", len(options)))
		flavors[name] = options
	}
	return flavors, nil
}

// Options returns the options of the named flavor.
func (f Flavors) Options(name string) (map[string]any, error) {
	options, ok := f[name]
	if !ok {
		return nil, fmt.Errorf("unknown flavor %q", name)
	}
	if options == nil {
		options = map[string]any{}
	}
	return options, nil
}
