package olx

import (
	"regexp"
	"strings"
)

var (
	structuralTagPattern = regexp.MustCompile(`(</?(?:script|pre|label|description).*?>)`)
	structuralOpen       = regexp.MustCompile(`<(?:script|pre|label|description)`)
	structuralClose      = regexp.MustCompile(`</(?:script|pre|label|description)`)
)

// paragraphWrapper wraps bare lines in <p> elements. Lines inside script,
// pre, label and description elements are left alone, even when the element
// spans several calls.
type paragraphWrapper struct {
	inside bool
}

func (w *paragraphWrapper) wrap(text string) string {
	var sb strings.Builder
	last := 0
	for _, loc := range structuralTagPattern.FindAllStringIndex(text, -1) {
		sb.WriteString(w.wrapPart(text[last:loc[0]]))
		sb.WriteString(w.wrapPart(text[loc[0]:loc[1]]))
		last = loc[1]
	}
	sb.WriteString(w.wrapPart(text[last:]))
	return sb.String()
}

func (w *paragraphWrapper) wrapPart(part string) string {
	if structuralOpen.MatchString(part) {
		w.inside = true
	}
	if !w.inside {
		lines := strings.Split(part, "\n")
		for i, line := range lines {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || strings.HasPrefix(trimmed, "<") {
				continue
			}
			lines[i] = "<p>" + line + "</p>"
		}
		part = strings.Join(lines, "\n")
	}
	if structuralClose.MatchString(part) {
		w.inside = false
	}
	return part
}
