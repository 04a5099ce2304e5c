package olx

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	headerUnderline    = regexp.MustCompile(`^={2,}\s*$`)
	labelPattern       = regexp.MustCompile(`>>((?s).+?)<<`)
	demandHintPattern  = regexp.MustCompile(`^\s*\|\|(.*?)\|\|\s*$`)
	explanationPattern = regexp.MustCompile(`(?i)\[explanation\]\n?([^\]]*)\[/?explanation\]`)
	codePattern        = regexp.MustCompile(`(?i)\[code\]\n?([^\]]*)\[/?code\]`)
)

// Parse reads a problem markdown document.
func Parse(markdown string) Document {
	var doc Document
	for i, text := range splitSegments(markdown) {
		p := newSegmentParser(text, doc.DemandHints)
		segment := p.parse()
		doc.Segments = append(doc.Segments, segment)
		doc.DemandHints = p.demandHints
		for _, message := range p.diagnostics {
			doc.Diagnostics = append(doc.Diagnostics, Diagnostic{Segment: i, Message: message})
		}
		if n := len(segment.Responses()); n > 1 {
			doc.Diagnostics = append(doc.Diagnostics, Diagnostic{
				Segment: i,
				Message: fmt.Sprintf("%d response types in one segment; separate them with ---", n),
			})
		}
	}
	return doc
}

// segmentParser scans one segment line by line. At every line the
// recognizers are tried in a fixed order: header, label, demand hint,
// select, multiple choice, extended multiple choice, checkbox group,
// answer, explanation and code. Select comes before multiple choice
// because "(b)" inside a select reads as a choice too.
type segmentParser struct {
	src         string
	pos         int
	blocks      []Block
	prose       []string
	demandHints DemandHints
	diagnostics []string
}

func newSegmentParser(text string, demandHints DemandHints) *segmentParser {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = joinHintLines(EscapeCode(text))
	return &segmentParser{
		src:         text,
		demandHints: demandHints,
	}
}

func (p *segmentParser) parse() Segment {
	for p.pos < len(p.src) {
		p.step()
	}
	p.flushProse()
	return Segment{Blocks: p.blocks}
}

func (p *segmentParser) step() {
	line := p.line()

	if strings.TrimSpace(line) != "" && headerUnderline.MatchString(p.lineAfter(p.pos)) {
		p.emit(&Header{Text: strings.TrimSpace(line)})
		p.skipLines(2)
		return
	}
	if p.matchInline(labelPattern, func(m []string) {
		p.emit(parseLabel(m[1]))
	}) {
		return
	}
	if m := demandHintPattern.FindStringSubmatch(line); m != nil {
		p.demandHints = append(p.demandHints, strings.TrimSpace(m[1]))
		p.skipLines(1)
		return
	}
	if p.matchInline(selectPattern, func(m []string) {
		p.emit(parseSelect(m[1]))
	}) {
		return
	}
	if choicePattern.MatchString(line) {
		p.emit(parseMultipleChoice(p.takeRun(choicePattern)))
		return
	}
	if extendedChoicePattern.MatchString(line) {
		p.emit(parseExtendedMultipleChoice(p.takeExtendedRun()))
		return
	}
	if checkboxLinePattern.MatchString(line) {
		group, diagnostics := parseCheckboxGroup(p.takeRun(checkboxLinePattern))
		p.emit(group)
		p.diagnostics = append(p.diagnostics, diagnostics...)
		return
	}
	if answerPattern.MatchString(line) {
		response, diagnostics := parseAnswer(p.takeAnswerRun())
		p.emit(response)
		p.diagnostics = append(p.diagnostics, diagnostics...)
		return
	}
	if p.matchInline(explanationPattern, func(m []string) {
		p.emit(&Solution{Body: m[1]})
	}) {
		return
	}
	if p.matchInline(codePattern, func(m []string) {
		p.emit(&CodeBlock{Body: m[1]})
	}) {
		return
	}

	p.prose = append(p.prose, line)
	p.skipLines(1)
}

// line returns the text from the current position to the end of the line.
func (p *segmentParser) line() string {
	line, _ := p.lineAt(p.pos)
	return line
}

// lineAt returns the line starting at pos and the position of the next line.
func (p *segmentParser) lineAt(pos int) (string, int) {
	if pos >= len(p.src) {
		return "", len(p.src)
	}
	end := strings.IndexByte(p.src[pos:], '\n')
	if end < 0 {
		return p.src[pos:], len(p.src)
	}
	return p.src[pos : pos+end], pos + end + 1
}

// lineAfter returns the line following the one that starts at pos.
func (p *segmentParser) lineAfter(pos int) string {
	_, next := p.lineAt(pos)
	if next >= len(p.src) {
		return ""
	}
	line, _ := p.lineAt(next)
	return line
}

func (p *segmentParser) skipLines(n int) {
	for i := 0; i < n && p.pos < len(p.src); i++ {
		_, p.pos = p.lineAt(p.pos)
	}
}

// matchInline applies a construct that may start anywhere in the current
// line and may end on a later one. Text before it on the line becomes prose;
// text after it is scanned as the next line.
func (p *segmentParser) matchInline(pattern *regexp.Regexp, emit func(m []string)) bool {
	line := p.line()
	rest := p.src[p.pos:]
	loc := pattern.FindStringSubmatchIndex(rest)
	if loc == nil || loc[0] >= len(line) {
		return false
	}

	if before := line[:loc[0]]; strings.TrimSpace(before) != "" {
		p.prose = append(p.prose, before)
	}
	m := make([]string, len(loc)/2)
	for i := range m {
		if loc[2*i] >= 0 {
			m[i] = rest[loc[2*i]:loc[2*i+1]]
		}
	}
	emit(m)

	p.pos += loc[1]
	if after := p.line(); strings.TrimSpace(after) == "" {
		p.skipLines(1)
	}
	return true
}

// takeRun consumes consecutive lines matching pattern. Blank lines do not end
// the run when another matching line follows them.
func (p *segmentParser) takeRun(pattern *regexp.Regexp) []string {
	var lines []string
	for p.pos < len(p.src) {
		line, next := p.lineAt(p.pos)
		if strings.TrimSpace(line) == "" {
			if !pattern.MatchString(p.nextNonBlank(next)) {
				break
			}
		} else if !pattern.MatchString(line) || p.claimed(line) {
			break
		}
		lines = append(lines, line)
		p.pos = next
	}
	return lines
}

// claimed reports whether the current line belongs to a recognizer that
// comes first: a header title or a select.
func (p *segmentParser) claimed(line string) bool {
	if headerUnderline.MatchString(p.lineAfter(p.pos)) {
		return true
	}
	loc := selectPattern.FindStringIndex(p.src[p.pos:])
	return loc != nil && loc[0] < len(line)
}

func (p *segmentParser) nextNonBlank(pos int) string {
	for pos < len(p.src) {
		line, next := p.lineAt(pos)
		if strings.TrimSpace(line) != "" {
			return line
		}
		pos = next
	}
	return ""
}

// takeExtendedRun consumes a +(x) block up to a -(x)- line or the end of the segment.
func (p *segmentParser) takeExtendedRun() []string {
	var lines []string
	for p.pos < len(p.src) {
		line, next := p.lineAt(p.pos)
		p.pos = next
		if extendedEndPattern.MatchString(line) {
			break
		}
		lines = append(lines, line)
	}
	return lines
}

// takeAnswerRun consumes an s?= line and the or= / not= lines after it.
func (p *segmentParser) takeAnswerRun() []string {
	line, next := p.lineAt(p.pos)
	lines := []string{line}
	p.pos = next
	for p.pos < len(p.src) {
		line, next := p.lineAt(p.pos)
		if strings.TrimSpace(line) == "" {
			if !answerContinuation.MatchString(p.nextNonBlank(next)) {
				break
			}
		} else if !answerContinuation.MatchString(line) {
			break
		}
		lines = append(lines, line)
		p.pos = next
	}
	return lines
}

func (p *segmentParser) emit(block Block) {
	p.flushProse()
	p.blocks = append(p.blocks, block)
}

func (p *segmentParser) flushProse() {
	var lines []string
	for _, line := range p.prose {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) > 0 {
		p.blocks = append(p.blocks, &Prose{Lines: lines})
	}
	p.prose = nil
}

// parseLabel reads "question||description". An empty description is dropped.
func parseLabel(text string) *Label {
	parts := strings.Split(text, "||")
	label := &Label{Question: strings.TrimSpace(parts[0])}
	if len(parts) > 1 {
		label.Description = strings.TrimSpace(parts[1])
	}
	return label
}
