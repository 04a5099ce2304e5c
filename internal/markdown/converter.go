package markdown

import (
	"bytes"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"text/template"

	"github.com/at-ishikawa/olxmark/internal/assets"
	"github.com/at-ishikawa/olxmark/internal/extension"
)

type InputFormat string

const (
	InputFormatMarkdown InputFormat = "markdown"
	InputFormatOrg      InputFormat = "org"
)

// Converter converts between markdown and HTML with a fixed option set.
type Converter struct {
	options          Options
	inputFormat      InputFormat
	extensions       []*extension.Extension
	documentTemplate *template.Template
}

type ConverterOption func(*Converter)

// WithExtensions runs the extensions around every conversion.
func WithExtensions(extensions []*extension.Extension) ConverterOption {
	return func(c *Converter) {
		c.extensions = extensions
	}
}

// WithDocumentTemplate replaces the template used by completeHTMLDocument.
func WithDocumentTemplate(tmpl *template.Template) ConverterOption {
	return func(c *Converter) {
		c.documentTemplate = tmpl
	}
}

// WithInputFormat sets the source format of MakeHTML.
func WithInputFormat(format InputFormat) ConverterOption {
	return func(c *Converter) {
		c.inputFormat = format
	}
}

func NewConverter(options Options, opts ...ConverterOption) (*Converter, error) {
	c := &Converter{
		options:     options,
		inputFormat: InputFormatMarkdown,
	}
	for _, opt := range opts {
		opt(c)
	}

	switch c.inputFormat {
	case InputFormatMarkdown, InputFormatOrg:
	default:
		return nil, fmt.Errorf("unsupported input format %q", c.inputFormat)
	}

	for name := range options {
		if !IsKnownOption(name) {
			slog.Debug("ignore unknown markdown option", slog.String("name", name))
		}
	}

	if c.documentTemplate == nil && options.Bool(OptionCompleteHTMLDocument) {
		tmpl, err := assets.ParseHTMLDocumentTemplate("")
		if err != nil {
			return nil, fmt.Errorf("assets.ParseHTMLDocumentTemplate() > %w", err)
		}
		c.documentTemplate = tmpl
	}
	return c, nil
}

// MakeHTML converts markdown, or org text when configured, to HTML.
func (c *Converter) MakeHTML(source string) (string, error) {
	source, err := c.apply(extension.TypeLang, source)
	if err != nil {
		return "", err
	}

	var metadata map[string]any
	if c.options.Bool(OptionMetadata) {
		metadata, source, err = splitMetadata(source)
		if err != nil {
			return "", err
		}
	}

	var body string
	switch c.inputFormat {
	case InputFormatOrg:
		body, err = renderOrg(source)
	default:
		body, err = renderMarkdown(source, c.options)
	}
	if err != nil {
		return "", err
	}

	if c.options.Bool(OptionCompleteHTMLDocument) {
		body, err = c.completeHTMLDocument(body, metadata)
		if err != nil {
			return "", err
		}
	}
	return c.apply(extension.TypeOutput, body)
}

// MakeMarkdown converts HTML to markdown.
func (c *Converter) MakeMarkdown(source string) (string, error) {
	source, err := c.apply(extension.TypeLang, source)
	if err != nil {
		return "", err
	}
	out, err := htmlToMarkdown(source)
	if err != nil {
		return "", err
	}
	return c.apply(extension.TypeOutput, out)
}

func (c *Converter) apply(extensionType extension.Type, text string) (string, error) {
	for _, ext := range c.extensions {
		if ext.Type != extensionType {
			continue
		}
		var err error
		text, err = ext.Transform(text)
		if err != nil {
			return "", err
		}
	}
	return text, nil
}

func (c *Converter) completeHTMLDocument(body string, metadata map[string]any) (string, error) {
	document := assets.HTMLDocument{
		Metadata: make(map[string]string),
		Body:     body,
	}
	for _, key := range slices.Sorted(maps.Keys(metadata)) {
		value := fmt.Sprint(metadata[key])
		switch key {
		case "title":
			document.Title = value
		case "language", "lang":
			document.Language = value
		default:
			document.Metadata[key] = value
		}
	}

	var buf bytes.Buffer
	if err := assets.WriteHTMLDocument(&buf, c.documentTemplate, document); err != nil {
		return "", fmt.Errorf("assets.WriteHTMLDocument() > %w", err)
	}
	return buf.String(), nil
}
