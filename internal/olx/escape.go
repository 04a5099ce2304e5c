package olx

import "strings"

var codeEntities = strings.NewReplacer(
	"|", "&pipe;",
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// EscapeCode replaces | & < > inside fenced (```) and inline (`) code spans
// with entities, so that no later stage reads code as problem syntax.
// Fences pair up in order of appearance. Inline backticks pair up within a line.
// A backtick without a partner leaves the rest of the text untouched.
func EscapeCode(text string) string {
	var b strings.Builder
	rest := text
	for {
		start := strings.Index(rest, "```")
		if start < 0 {
			break
		}
		end := strings.Index(rest[start+3:], "```")
		if end < 0 {
			break
		}
		end += start + 3

		b.WriteString(escapeInlineCode(rest[:start]))
		b.WriteString("```")
		b.WriteString(codeEntities.Replace(rest[start+3 : end]))
		b.WriteString("```")
		rest = rest[end+3:]
	}
	b.WriteString(escapeInlineCode(rest))
	return b.String()
}

func escapeInlineCode(text string) string {
	if !strings.Contains(text, "`") {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		parts := strings.Split(line, "`")
		// odd parts sit between a pair of backticks, except a trailing unpaired one
		for j := 1; j < len(parts)-1; j += 2 {
			parts[j] = codeEntities.Replace(parts[j])
		}
		lines[i] = strings.Join(parts, "`")
	}
	return strings.Join(lines, "\n")
}
