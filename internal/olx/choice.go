package olx

import (
	"regexp"
	"strings"
)

var (
	choicePattern         = regexp.MustCompile(`^\s*\((.{0,3})\)\s*`)
	extendedChoicePattern = regexp.MustCompile(`^\s*\+\((.{0,3})\)\s*`)
	continuationPattern   = regexp.MustCompile(`^\s*-\(.{0,3}\)\s*`)
	extendedEndPattern    = regexp.MustCompile(`^\s*-\(.{0,3}\)-\s*$`)
)

type choiceMarker struct {
	correct bool
	fixed   bool
	shuffle bool
}

// parseMarker reads the 0-3 characters between the parentheses of a choice.
// x marks the choice correct, @ pins its position and ! shuffles the group.
func parseMarker(marker string) choiceMarker {
	return choiceMarker{
		correct: strings.ContainsAny(marker, "xX"),
		fixed:   strings.Contains(marker, "@"),
		shuffle: strings.Contains(marker, "!"),
	}
}

// parseMultipleChoice reads a run of "(x) text" lines.
func parseMultipleChoice(lines []string) *MultipleChoice {
	group := &MultipleChoice{}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m := choicePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		group.add(parseMarker(m[1]), line[len(m[0]):])
	}
	return group
}

// parseExtendedMultipleChoice reads a "+(x) text" block. Every +(x) line
// opens a choice and the lines after it continue the choice body. A leading
// -(x) on a continuation line is dropped.
func parseExtendedMultipleChoice(lines []string) *MultipleChoice {
	group := &MultipleChoice{Extended: true}

	var marker choiceMarker
	var body []string
	open := false
	flush := func() {
		if open {
			group.add(marker, strings.TrimSpace(strings.Join(body, "\n")))
		}
	}
	for _, line := range lines {
		if m := extendedChoicePattern.FindStringSubmatch(line); m != nil {
			flush()
			marker = parseMarker(m[1])
			body = []string{line[len(m[0]):]}
			open = true
			continue
		}
		body = append(body, continuationPattern.ReplaceAllString(line, ""))
	}
	flush()
	return group
}

func (group *MultipleChoice) add(marker choiceMarker, value string) {
	if marker.shuffle {
		group.Shuffle = true
	}
	choice := Choice{
		Value:   value,
		Correct: marker.correct,
		Fixed:   marker.fixed,
	}
	if extracted := extractHint(value, false); extracted.hint != nil {
		choice.Value = strings.TrimSpace(extracted.remainder)
		choice.Hint = extracted.hint
	}
	group.Choices = append(group.Choices, choice)
}
