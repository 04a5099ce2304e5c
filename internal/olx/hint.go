package olx

import (
	"regexp"
	"strings"
)

var (
	hintPattern       = regexp.MustCompile(`\s*\{\{(.*?)\}\}`)
	hintLabelPattern  = regexp.MustCompile(`^(.*?)::`)
	multilineHint     = regexp.MustCompile(`(?s)\{\{.*?\}\}`)
	hintLineBreak     = regexp.MustCompile(`\r?\n[ \t]*`)
	selectedPattern   = regexp.MustCompile(`(?is)\{\s*(?:s|selected):(.*?)\}`)
	unselectedPattern = regexp.MustCompile(`(?is)\{\s*(?:u|unselected):(.*?)\}`)
	compoundPattern   = regexp.MustCompile(`^\s*\{\{\s*\(\((.*?)\)\)(.*?)\}\}`)
)

// compoundLineBreak stands for a line break inside a compound hint.
const compoundLineBreak = "&lf;"

type extractedHint struct {
	remainder     string
	hint          *HintSpec
	parenthesized bool
}

// extractHint removes the last {{label:: text}} annotation from text.
// hint is nil when the annotation has no text.
// With detectParens, a remainder wrapped in parentheses is unwrapped and
// reported as parenthesized.
func extractHint(text string, detectParens bool) extractedHint {
	result := extractedHint{remainder: text}

	if matches := hintPattern.FindAllStringSubmatchIndex(text, -1); len(matches) > 0 {
		loc := matches[len(matches)-1]
		result.remainder = text[:loc[0]] + text[loc[1]:]

		hint := HintSpec{Text: strings.TrimSpace(text[loc[2]:loc[3]])}
		if label := hintLabelPattern.FindStringSubmatchIndex(hint.Text); label != nil {
			hint.Label = strings.TrimSpace(hint.Text[label[2]:label[3]])
			hint.Text = strings.TrimSpace(hint.Text[label[1]:])
		}
		if hint.Text != "" {
			result.hint = &hint
		}
	}

	if detectParens {
		r := result.remainder
		if len(r) >= 2 && r[0] == '(' && r[len(r)-1] == ')' {
			result.remainder = r[1 : len(r)-1]
			result.parenthesized = true
		}
	}
	return result
}

// joinHintLines puts every {{ ... }} annotation on a single line.
func joinHintLines(text string) string {
	return multilineHint.ReplaceAllStringFunc(text, func(hint string) string {
		return hintLineBreak.ReplaceAllString(hint, " ")
	})
}

// parseSelectionHints reads the {selected: ...}, {unselected: ...} form of a
// checkbox hint. ok is false when neither part is present.
func parseSelectionHints(hint string) (selected, unselected string, ok bool) {
	inner := "{" + hint + "}"
	if m := selectedPattern.FindStringSubmatch(inner); m != nil {
		selected = strings.TrimSpace(m[1])
		ok = true
	}
	if m := unselectedPattern.FindStringSubmatch(inner); m != nil {
		unselected = strings.TrimSpace(m[1])
		ok = true
	}
	return selected, unselected, ok
}

// parseCompoundHint reads a {{((A B)) text}} line.
func parseCompoundHint(line string) (CompoundHint, bool) {
	m := compoundPattern.FindStringSubmatch(line)
	if m == nil {
		return CompoundHint{}, false
	}
	return CompoundHint{
		Value: strings.TrimSpace(m[1]),
		Text:  strings.TrimSpace(strings.ReplaceAll(m[2], compoundLineBreak, "\n")),
	}, true
}
