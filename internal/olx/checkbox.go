package olx

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	checkboxPattern     = regexp.MustCompile(`^\s*\[(.?)\]\s*`)
	checkboxLinePattern = regexp.MustCompile(`^\s*(?:\[.?\]|\{\{.*?\}\})`)
)

// parseCheckboxGroup reads a run of "[x] text" and {{((A B)) text}} lines.
// Compound hints are kept apart from the choices and rendered after them.
func parseCheckboxGroup(lines []string) (*CheckboxGroup, []string) {
	group := &CheckboxGroup{}
	var diagnostics []string
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if compound, ok := parseCompoundHint(line); ok {
			group.CompoundHints = append(group.CompoundHints, compound)
			continue
		}

		m := checkboxPattern.FindStringSubmatch(line)
		if m == nil {
			diagnostics = append(diagnostics, fmt.Sprintf("checkbox group: ignored hint line %q", strings.TrimSpace(line)))
			continue
		}

		value := strings.TrimRight(line[len(m[0]):], " \t")
		choice := Choice{
			Value:   value,
			Correct: strings.EqualFold(m[1], "x"),
		}
		if extracted := extractHint(value, false); extracted.hint != nil {
			selected, unselected, ok := parseSelectionHints(extracted.hint.Text)
			if ok {
				choice.Value = strings.TrimSpace(extracted.remainder)
				choice.SelectedHint = selected
				choice.UnselectedHint = unselected
			} else {
				// the annotation stays visible so the author notices it was not understood
				diagnostics = append(diagnostics, fmt.Sprintf("checkbox choice %q: hint is not {selected: ...} or {unselected: ...}", value))
			}
		}
		group.Choices = append(group.Choices, choice)
	}
	return group, diagnostics
}
