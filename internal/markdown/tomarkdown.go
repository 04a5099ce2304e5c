package markdown

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var whitespaceRuns = regexp.MustCompile(`\s+`)

// htmlToMarkdown converts an HTML fragment to markdown. Elements without a
// markdown form keep their text only.
func htmlToMarkdown(source string) (string, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(source), context)
	if err != nil {
		return "", fmt.Errorf("html.ParseFragment() > %w", err)
	}

	var w markdownWriter
	for _, n := range nodes {
		w.block(n)
	}
	out := strings.TrimSpace(w.sb.String())
	if out == "" {
		return "", nil
	}
	return out + "\n", nil
}

type markdownWriter struct {
	sb strings.Builder
}

func (w *markdownWriter) paragraph(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	w.sb.WriteString(text)
	w.sb.WriteString("\n\n")
}

func (w *markdownWriter) block(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		w.paragraph(inline(n))
		return
	case html.ElementNode, html.DocumentNode:
	default:
		return
	}

	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		level := int(n.Data[1] - '0')
		w.paragraph(strings.Repeat("#", level) + " " + strings.TrimSpace(inlineChildren(n)))
	case atom.P:
		w.paragraph(inlineChildren(n))
	case atom.Pre:
		w.sb.WriteString("```" + codeLanguage(n) + "\n")
		w.sb.WriteString(strings.TrimRight(textContent(n), "\n"))
		w.sb.WriteString("\n```\n\n")
	case atom.Ul, atom.Ol:
		w.sb.WriteString(list(n, 0))
		w.sb.WriteString("\n")
	case atom.Blockquote:
		var inner markdownWriter
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			inner.block(c)
		}
		lines := strings.Split(strings.TrimSpace(inner.sb.String()), "\n")
		for i, line := range lines {
			lines[i] = strings.TrimRight("> "+line, " ")
		}
		w.paragraph(strings.Join(lines, "\n"))
	case atom.Hr:
		w.sb.WriteString("---\n\n")
	case atom.Table:
		w.paragraph(table(n))
	case atom.Script, atom.Style, atom.Head:
	default:
		if isInline(n) {
			w.paragraph(inline(n))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			w.block(c)
		}
	}
}

func isInline(n *html.Node) bool {
	switch n.DataAtom {
	case atom.A, atom.B, atom.Strong, atom.I, atom.Em, atom.Code, atom.Img, atom.Br,
		atom.Del, atom.S, atom.Span, atom.Sub, atom.Sup, atom.U:
		return true
	}
	return false
}

func inlineChildren(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(inline(c))
	}
	return sb.String()
}

func inline(n *html.Node) string {
	if n.Type == html.TextNode {
		return whitespaceRuns.ReplaceAllString(n.Data, " ")
	}
	if n.Type != html.ElementNode {
		return ""
	}

	switch n.DataAtom {
	case atom.Strong, atom.B:
		return wrapInline("**", inlineChildren(n))
	case atom.Em, atom.I:
		return wrapInline("*", inlineChildren(n))
	case atom.Del, atom.S:
		return wrapInline("~~", inlineChildren(n))
	case atom.Code:
		return "`" + textContent(n) + "`"
	case atom.Br:
		return "  \n"
	case atom.A:
		href := attr(n, "href")
		label := inlineChildren(n)
		if title := attr(n, "title"); title != "" {
			return fmt.Sprintf("[%s](%s %q)", label, href, title)
		}
		return fmt.Sprintf("[%s](%s)", label, href)
	case atom.Img:
		if title := attr(n, "title"); title != "" {
			return fmt.Sprintf("![%s](%s %q)", attr(n, "alt"), attr(n, "src"), title)
		}
		return fmt.Sprintf("![%s](%s)", attr(n, "alt"), attr(n, "src"))
	case atom.Input:
		if attr(n, "type") == "checkbox" {
			if hasAttr(n, "checked") {
				return "[x] "
			}
			return "[ ] "
		}
		return ""
	}
	return inlineChildren(n)
}

// wrapInline puts marker around text, keeping surrounding spaces outside.
func wrapInline(marker, text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return text
	}
	leading := text[:len(text)-len(strings.TrimLeft(text, " "))]
	trailing := text[len(strings.TrimRight(text, " ")):]
	return leading + marker + trimmed + marker + trailing
}

func list(n *html.Node, depth int) string {
	var sb strings.Builder
	ordered := n.DataAtom == atom.Ol
	index := 1
	if start, err := strconv.Atoi(attr(n, "start")); err == nil {
		index = start
	}
	indent := strings.Repeat("    ", depth)

	for item := n.FirstChild; item != nil; item = item.NextSibling {
		if item.DataAtom != atom.Li {
			continue
		}
		bullet := "- "
		if ordered {
			bullet = strconv.Itoa(index) + ". "
			index++
		}

		var text strings.Builder
		var nested []string
		for c := item.FirstChild; c != nil; c = c.NextSibling {
			switch c.DataAtom {
			case atom.Ul, atom.Ol:
				nested = append(nested, list(c, depth+1))
			case atom.P:
				text.WriteString(inlineChildren(c))
			default:
				text.WriteString(inline(c))
			}
		}
		sb.WriteString(indent + bullet + strings.TrimSpace(text.String()) + "\n")
		for _, sub := range nested {
			sb.WriteString(sub)
		}
	}
	return sb.String()
}

func table(n *html.Node) string {
	var rows [][]string
	headerRows := 0
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			switch c.DataAtom {
			case atom.Thead, atom.Tbody, atom.Tfoot:
				walk(c)
			case atom.Tr:
				var cells []string
				header := false
				for cell := c.FirstChild; cell != nil; cell = cell.NextSibling {
					if cell.DataAtom == atom.Th || cell.DataAtom == atom.Td {
						header = header || cell.DataAtom == atom.Th
						cells = append(cells, strings.ReplaceAll(strings.TrimSpace(inlineChildren(cell)), "|", `\|`))
					}
				}
				if header && len(rows) == headerRows {
					headerRows++
				}
				rows = append(rows, cells)
			}
		}
	}
	walk(n)
	if len(rows) == 0 {
		return ""
	}

	columns := 0
	for _, row := range rows {
		columns = max(columns, len(row))
	}
	format := func(cells []string) string {
		padded := make([]string, columns)
		copy(padded, cells)
		return "| " + strings.Join(padded, " | ") + " |"
	}

	var lines []string
	header := rows[0]
	body := rows[1:]
	if headerRows == 0 {
		header = make([]string, columns)
		body = rows
	}
	lines = append(lines, format(header))
	separator := make([]string, columns)
	for i := range separator {
		separator[i] = "---"
	}
	lines = append(lines, format(separator))
	for _, row := range body {
		lines = append(lines, format(row))
	}
	return strings.Join(lines, "\n")
}

func codeLanguage(pre *html.Node) string {
	for c := pre.FirstChild; c != nil; c = c.NextSibling {
		if c.DataAtom != atom.Code {
			continue
		}
		for _, class := range strings.Fields(attr(c, "class")) {
			if lang, ok := strings.CutPrefix(class, "language-"); ok {
				return lang
			}
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return sb.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}
