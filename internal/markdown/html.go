package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/niklasfasching/go-org/org"
	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var extensionRegistry = map[string]goldmark.Extender{
	OptionTables:             extension.Table,
	OptionStrikethrough:      extension.Strikethrough,
	OptionTasklists:          extension.TaskList,
	OptionSimplifiedAutoLink: extension.Linkify,
	OptionFootnotes:          extension.Footnote,
	OptionDefinitionLists:    extension.DefinitionList,
	OptionTypographer:        extension.Typographer,
	OptionEmoji:              emoji.Emoji,
}

// newGoldmarkEngine builds a goldmark.Markdown for the enabled options.
func newGoldmarkEngine(opts Options) goldmark.Markdown {
	var exts []goldmark.Extender
	for _, name := range OptionNames {
		if ext, ok := extensionRegistry[name]; ok && opts.Bool(name) {
			exts = append(exts, ext)
		}
	}

	var parserOptions []parser.Option
	if !opts.Bool(OptionNoHeaderID) {
		parserOptions = append(parserOptions, parser.WithAutoHeadingID())
	}
	if opts.Bool(OptionOpenLinksInNewWindow) {
		parserOptions = append(parserOptions, parser.WithASTTransformers(util.Prioritized(newWindowLinks{}, 500)))
	}

	var rendererOptions []renderer.Option
	if opts.Bool(OptionSimpleLineBreaks) {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if opts.Bool(OptionRawHTML) {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}
	if opts.Bool(OptionXHTML) {
		rendererOptions = append(rendererOptions, html.WithXHTML())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parserOptions...),
		goldmark.WithRendererOptions(rendererOptions...),
	}
	if len(exts) > 0 {
		engineOptions = append(engineOptions, goldmark.WithExtensions(exts...))
	}
	return goldmark.New(engineOptions...)
}

// newWindowLinks makes every link open in a new window.
type newWindowLinks struct{}

func (newWindowLinks) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *ast.Link, *ast.AutoLink:
			n.SetAttributeString("target", []byte("_blank"))
			n.SetAttributeString("rel", []byte("noopener noreferrer"))
		}
		return ast.WalkContinue, nil
	})
}

func renderMarkdown(source string, opts Options) (string, error) {
	var buf bytes.Buffer
	if err := newGoldmarkEngine(opts).Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("goldmark.Convert() > %w", err)
	}
	return buf.String(), nil
}

func renderOrg(source string) (string, error) {
	doc := org.New().Parse(strings.NewReader(source), "")
	out, err := doc.Write(org.NewHTMLWriter())
	if err != nil {
		return "", fmt.Errorf("org.Write() > %w", err)
	}
	return out, nil
}

// splitMetadata removes a front matter block and returns its fields.
func splitMetadata(source string) (map[string]any, string, error) {
	var metadata map[string]any
	body, err := frontmatter.Parse(strings.NewReader(source), &metadata)
	if err != nil {
		return nil, "", fmt.Errorf("frontmatter.Parse() > %w", err)
	}
	return metadata, string(body), nil
}
