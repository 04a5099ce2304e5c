package olx

import (
	"regexp"
	"strings"
)

var separatorPattern = regexp.MustCompile(`^-{3,}$`)

// splitSegments splits a document on lines made of three or more hyphens.
// Blank segments are dropped.
func splitSegments(markdown string) []string {
	markdown = strings.ReplaceAll(markdown, "\r\n", "\n")

	var segments []string
	var current []string
	flush := func() {
		segment := strings.TrimSpace(strings.Join(current, "\n"))
		if segment != "" {
			segments = append(segments, segment)
		}
		current = current[:0]
	}
	for _, line := range strings.Split(markdown, "\n") {
		if separatorPattern.MatchString(strings.TrimSpace(line)) {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return segments
}
