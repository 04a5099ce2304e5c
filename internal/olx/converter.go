package olx

import (
	"bytes"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/go-playground/locales"
	"github.com/go-playground/locales/de"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/es"
	"github.com/go-playground/locales/fr"
	"github.com/go-playground/locales/ja"
	"github.com/go-playground/locales/pt"
	ut "github.com/go-playground/universal-translator"
)

const explanationKey = "explanation"

var explanationHeadings = map[string]string{
	"en": "Explanation",
	"es": "Explicación",
	"fr": "Explication",
	"de": "Erklärung",
	"ja": "解説",
	"pt": "Explicação",
}

// Converter turns problem markdown into OLX.
// A Converter has no mutable state and can be shared between goroutines.
type Converter struct {
	heading  string
	metadata bool
}

type Option func(*converterOptions)

type converterOptions struct {
	locale   string
	metadata bool
}

// WithLocale sets the language of the heading written above explanations.
func WithLocale(locale string) Option {
	return func(o *converterOptions) {
		o.locale = locale
	}
}

// WithMetadata reads a leading YAML front matter block and writes its
// fields as attributes of the <problem> element.
func WithMetadata(enabled bool) Option {
	return func(o *converterOptions) {
		o.metadata = enabled
	}
}

func NewConverter(opts ...Option) (*Converter, error) {
	options := converterOptions{locale: "en"}
	for _, opt := range opts {
		opt(&options)
	}

	heading, err := translateHeading(options.locale)
	if err != nil {
		return nil, fmt.Errorf("translateHeading() > %w", err)
	}
	return &Converter{
		heading:  heading,
		metadata: options.metadata,
	}, nil
}

func translateHeading(locale string) (string, error) {
	supported := []locales.Translator{en.New(), es.New(), fr.New(), de.New(), ja.New(), pt.New()}
	uni := ut.New(supported[0], supported...)
	for _, l := range supported {
		trans, _ := uni.GetTranslator(l.Locale())
		if err := trans.Add(explanationKey, explanationHeadings[l.Locale()], false); err != nil {
			return "", fmt.Errorf("failed to add %s translation: %w", l.Locale(), err)
		}
	}

	trans, found := uni.GetTranslator(locale)
	if !found {
		return "", fmt.Errorf("unsupported locale %q", locale)
	}
	return trans.T(explanationKey)
}

// MarkdownToOLX converts markdown with the default settings.
func MarkdownToOLX(markdown string) (string, error) {
	converter, err := NewConverter()
	if err != nil {
		return "", err
	}
	return converter.Convert(markdown)
}

func (c *Converter) Convert(markdown string) (string, error) {
	var attributes []Attribute
	if c.metadata {
		var err error
		attributes, markdown, err = parseProblemAttributes(markdown)
		if err != nil {
			return "", fmt.Errorf("parseProblemAttributes() > %w", err)
		}
	}

	doc := Parse(markdown)
	doc.Attributes = attributes
	for _, diagnostic := range doc.Diagnostics {
		slog.Debug("problem markdown diagnostic", "segment", diagnostic.Segment, "message", diagnostic.Message)
	}
	return c.Render(doc)
}

// Render writes the OLX of a parsed document. A segment whose markup is not
// well-formed XML fails with an *AssemblyError.
func (c *Converter) Render(doc Document) (string, error) {
	var parts []string
	for i, segment := range doc.Segments {
		renderer := segmentRenderer{heading: c.heading}
		markup := writeNodes(renderer.render(segment))
		if err := checkWellFormed(markup); err != nil {
			return "", &AssemblyError{Segment: i, Err: err}
		}
		if strings.TrimSpace(markup) != "" {
			parts = append(parts, markup)
		}
	}

	root, err := problemStartTag(doc.Attributes)
	if err != nil {
		return "", &AssemblyError{Segment: -1, Err: err}
	}

	var sb strings.Builder
	sb.WriteString(root + "\n")
	sb.WriteString(strings.Join(parts, "\n\n"))

	if len(doc.DemandHints) > 0 {
		block := element("demandhint")
		for _, hint := range doc.DemandHints {
			block.add(inlineElement("hint", hint))
		}
		markup := writeNodes([]*node{block})
		if err := checkWellFormed(markup); err != nil {
			return "", &AssemblyError{Segment: -1, Err: err}
		}
		sb.WriteString("\n" + markup)
	}
	sb.WriteString("\n</problem>")
	return sb.String(), nil
}

var attributeName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)

func problemStartTag(attributes []Attribute) (string, error) {
	var sb strings.Builder
	sb.WriteString("<problem")
	for _, attr := range attributes {
		if !attributeName.MatchString(attr.Name) {
			return "", fmt.Errorf("invalid problem attribute name %q", attr.Name)
		}
		fmt.Fprintf(&sb, ` %s="%s"`, attr.Name, escapeAttribute(attr.Value))
	}
	sb.WriteString(">")
	if err := checkWellFormed(sb.String() + "</problem>"); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// parseProblemAttributes removes a YAML front matter block from markdown.
func parseProblemAttributes(markdown string) ([]Attribute, string, error) {
	var fields map[string]any
	rest, err := frontmatter.Parse(strings.NewReader(markdown), &fields)
	if err != nil {
		return nil, "", err
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	attributes := make([]Attribute, 0, len(names))
	for _, name := range names {
		attributes = append(attributes, Attribute{Name: name, Value: fmt.Sprint(fields[name])})
	}
	return attributes, string(bytes.TrimLeft(rest, "\n")), nil
}
