package assets

import (
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

//go:embed templates/html-document.html.go.tmpl
var fallbackHTMLDocumentTemplate string

const fallbackHTMLDocumentTemplateName = "html-document.html.go.tmpl"

// HTMLDocument is the data of the template that wraps converted HTML into a
// complete document.
type HTMLDocument struct {
	Title    string
	Language string
	Metadata map[string]string
	Body     string
}

// ParseHTMLDocumentTemplate reads the template at templatePath, or the
// embedded one when the path is empty, missing or invalid.
func ParseHTMLDocumentTemplate(templatePath string) (*template.Template, error) {
	return parseTemplateWithFallback(templatePath, fallbackHTMLDocumentTemplateName, fallbackHTMLDocumentTemplate)
}

// WriteHTMLDocument renders document with the template.
func WriteHTMLDocument(output io.Writer, tmpl *template.Template, document HTMLDocument) error {
	if err := tmpl.Execute(output, document); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", tmpl.Name(), err)
	}
	return nil
}

func parseTemplateWithFallback(templatePath string, fallbackName string, fallbackTemplate string) (*template.Template, error) {
	funcMap := template.FuncMap{
		"join": strings.Join,
	}

	if templatePath != "" {
		if _, err := os.Stat(templatePath); err == nil {
			fileName := filepath.Base(templatePath)
			tmpl, err := template.New(fileName).
				Funcs(funcMap).
				ParseFiles(templatePath)
			if err == nil {
				return tmpl, nil
			}
			slog.Default().Warn("failed to parse a templatePath",
				slog.String("templatePath", templatePath),
				slog.Any("error", err),
			)
		}
	}

	tmpl, err := template.New(fallbackName).
		Funcs(funcMap).
		Parse(fallbackTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded template: %w", err)
	}

	return tmpl, nil
}
