package olx

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	answerPattern         = regexp.MustCompile(`^s?=`)
	answerContinuation    = regexp.MustCompile(`^(?:or|not)=`)
	numericAnswerPrefix   = regexp.MustCompile(`^=\s*`)
	stringAnswerPrefix    = regexp.MustCompile(`^s?=\s*`)
	additionalAnswer      = regexp.MustCompile(`^or=\s*(.*)`)
	wrongAnswer           = regexp.MustCompile(`^not=\s*(.*)`)
	tolerancePattern      = regexp.MustCompile(`^(.*?)\+-\s*(.*)$`)
	floatPrefixPattern    = regexp.MustCompile(`^\s*[+-]?(?:Infinity|\d+\.?\d*(?:[eE][+-]?\d+)?|\.\d+(?:[eE][+-]?\d+)?)`)
	whitespaceRunsPattern = regexp.MustCompile(`\s+`)
)

// parseAnswer reads a "= value" line and its or= / not= lines.
// A value that starts like a number, or looks like a range, makes a numerical
// question; anything else falls through to a string question.
func parseAnswer(lines []string) (Response, []string) {
	first := lines[0]
	if numericAnswerPrefix.MatchString(first) {
		value := numericAnswerPrefix.ReplaceAllString(first, "")
		extracted := extractHint(value, false)
		candidate := strings.TrimSpace(extracted.remainder)
		if isFloatPrefix(candidate) || isRangeTolerance(candidate) {
			return parseNumerical(candidate, extracted.hint, lines[1:])
		}
	}
	return parseStringMatch(lines), nil
}

func parseNumerical(value string, hint *HintSpec, rest []string) (*Numerical, []string) {
	numerical := &Numerical{}
	numerical.Primary.Hint = hint
	switch {
	case isRangeTolerance(value):
		numerical.Primary.Value = value
	case tolerancePattern.MatchString(value):
		m := tolerancePattern.FindStringSubmatch(value)
		numerical.Primary.Value = removeWhitespace(m[1])
		numerical.Primary.Tolerance = strings.TrimSpace(m[2])
	default:
		numerical.Primary.Value = removeWhitespace(value)
	}

	var diagnostics []string
	for _, line := range rest {
		extracted := extractHint(line, false)
		m := additionalAnswer.FindStringSubmatch(strings.TrimSpace(extracted.remainder))
		if m == nil {
			continue
		}
		additional := strings.TrimSpace(m[1])
		if !isFloatPrefix(additional) || isRangeTolerance(additional) || tolerancePattern.MatchString(additional) {
			diagnostics = append(diagnostics, fmt.Sprintf("numerical answer %s: dropped additional answer %q", numerical.Primary.Value, additional))
			continue
		}
		numerical.Additional = append(numerical.Additional, Answer{
			Value:        additional,
			IsAdditional: true,
			Hint:         extracted.hint,
		})
	}
	return numerical, diagnostics
}

func parseStringMatch(lines []string) *StringMatch {
	match := &StringMatch{}

	extracted := extractHint(stringAnswerPrefix.ReplaceAllString(lines[0], ""), false)
	value := strings.TrimSpace(extracted.remainder)
	if strings.HasPrefix(value, "|") {
		match.Regexp = true
		value = strings.TrimSpace(value[1:])
	}
	match.Primary = Answer{Value: value, Hint: extracted.hint}

	for _, line := range lines[1:] {
		extracted := extractHint(line, false)
		rest := strings.TrimSpace(extracted.remainder)
		if m := wrongAnswer.FindStringSubmatch(rest); m != nil {
			match.Others = append(match.Others, Answer{
				Value:   strings.TrimSpace(m[1]),
				IsWrong: true,
				Hint:    extracted.hint,
			})
			continue
		}
		if m := additionalAnswer.FindStringSubmatch(rest); m != nil {
			match.Others = append(match.Others, Answer{
				Value:        strings.TrimSpace(m[1]),
				IsAdditional: true,
				Hint:         extracted.hint,
			})
		}
	}
	return match
}

// isFloatPrefix reports whether value starts with a decimal number,
// the way "5*2" or "3 apples" still read as 5 and 3.
func isFloatPrefix(value string) bool {
	return floatPrefixPattern.MatchString(value)
}

// isRangeTolerance reports whether value looks like [a, b), (a, b] and so on.
func isRangeTolerance(value string) bool {
	if value == "" {
		return false
	}
	return strings.ContainsRune("[(", rune(value[0])) && strings.ContainsRune("])", rune(value[len(value)-1]))
}

func removeWhitespace(value string) string {
	return whitespaceRunsPattern.ReplaceAllString(value, "")
}
