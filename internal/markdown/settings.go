package markdown

import (
	"fmt"

	"github.com/at-ishikawa/olxmark/internal/assets"
	"github.com/at-ishikawa/olxmark/internal/extension"
)

const DefaultFlavor = "vanilla"

// Settings describes a Converter in configuration terms.
type Settings struct {
	Flavor     string
	FlavorFile string
	// Options win over the values of the flavor
	Options          Options
	Extensions       []string
	DocumentTemplate string
	InputFormat      InputFormat
}

// Build resolves the flavor, loads the extensions and creates a Converter.
// A failing extension is reported as *extension.LoadError.
func (s Settings) Build() (*Converter, error) {
	flavors, err := assets.LoadFlavors(s.FlavorFile)
	if err != nil {
		return nil, fmt.Errorf("assets.LoadFlavors() > %w", err)
	}
	flavorName := s.Flavor
	if flavorName == "" {
		flavorName = DefaultFlavor
	}
	flavor, err := flavors.Options(flavorName)
	if err != nil {
		return nil, fmt.Errorf("flavors.Options() > %w", err)
	}

	extensions, err := extension.LoadAll(s.Extensions)
	if err != nil {
		return nil, fmt.Errorf("extension.LoadAll() > %w", err)
	}

	options := ResolveOptions(flavor, s.Options)
	opts := []ConverterOption{WithExtensions(extensions)}
	if s.InputFormat != "" {
		opts = append(opts, WithInputFormat(s.InputFormat))
	}
	if s.DocumentTemplate != "" && options.Bool(OptionCompleteHTMLDocument) {
		tmpl, err := assets.ParseHTMLDocumentTemplate(s.DocumentTemplate)
		if err != nil {
			return nil, fmt.Errorf("assets.ParseHTMLDocumentTemplate() > %w", err)
		}
		opts = append(opts, WithDocumentTemplate(tmpl))
	}
	return NewConverter(options, opts...)
}
