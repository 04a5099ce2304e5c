package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mandolyte/mdtopdf"
)

var markdownExtensions = []string{".md", ".markdown"}

// ConvertMarkdownToPDF converts a markdown file to PDF using mdtopdf package.
// When pdfPath is empty, the PDF file is created next to the markdown file.
func ConvertMarkdownToPDF(markdownPath string, pdfPath string) (string, error) {
	ext := filepath.Ext(markdownPath)
	if !slices.Contains(markdownExtensions, ext) {
		return "", fmt.Errorf("input file must have .md extension: %s", markdownPath)
	}

	content, err := os.ReadFile(markdownPath)
	if err != nil {
		return "", fmt.Errorf("os.ReadFile(%s) > %w", markdownPath, err)
	}

	if pdfPath == "" {
		pdfPath = strings.TrimSuffix(markdownPath, ext) + ".pdf"
	}
	if err := RenderMarkdown(content, pdfPath); err != nil {
		return "", err
	}

	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return pdfPath, nil
	}

	return absPath, nil
}

// RenderMarkdown writes content as a PDF file at pdfPath.
func RenderMarkdown(content []byte, pdfPath string) error {
	if pdfPath == "" {
		return fmt.Errorf("output path is required")
	}
	renderer := mdtopdf.NewPdfRenderer("P", "A4", pdfPath, "", nil, mdtopdf.LIGHT)
	if err := renderer.Process(content); err != nil {
		return fmt.Errorf("renderer.Process() > %w", err)
	}
	return nil
}
