package olx

import (
	"regexp"
	"strings"
)

var (
	selectPattern       = regexp.MustCompile(`\[\[((?s).+?)\]\]`)
	selectSeparator     = regexp.MustCompile(`,\s*`)
	parenthesizedOption = regexp.MustCompile(`^\((.*)\)$`)
)

// parseSelect reads the text between [[ and ]].
// A line break inside the brackets selects the one-option-per-line form.
func parseSelect(inner string) *Select {
	if !strings.Contains(inner, "\n") {
		return parseInlineSelect(inner)
	}

	s := &Select{}
	for _, line := range strings.Split(inner, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		extracted := extractHint(line, true)
		s.Options = append(s.Options, Choice{
			Value:   extracted.remainder,
			Correct: extracted.parenthesized,
			Hint:    extracted.hint,
		})
	}
	return s
}

// parseInlineSelect reads "a, (b), c". Only the first parenthesized option
// is correct; the parentheses of the others are still dropped.
func parseInlineSelect(inner string) *Select {
	s := &Select{Inline: true}
	hasCorrect := false
	for _, option := range selectSeparator.Split(inner, -1) {
		option = strings.TrimSpace(option)
		choice := Choice{Value: option}
		if m := parenthesizedOption.FindStringSubmatch(option); m != nil {
			choice.Value = strings.TrimSpace(m[1])
			if !hasCorrect {
				choice.Correct = true
				hasCorrect = true
			}
		}
		s.Options = append(s.Options, choice)
	}
	return s
}
