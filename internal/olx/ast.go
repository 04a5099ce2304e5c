// Package olx converts problem markdown into OLX, the XML problem format of
// the course platform.
//
// Conversion happens in two steps. Parse scans every segment of the document
// into a tree of blocks, one variant per response type, and Render builds the
// XML output from that tree.
package olx

// ResponseType is the OLX element name of a response construct.
type ResponseType string

const (
	ResponseSelect         ResponseType = "optionresponse"
	ResponseMultipleChoice ResponseType = "multiplechoiceresponse"
	ResponseCheckbox       ResponseType = "choiceresponse"
	ResponseNumerical      ResponseType = "numericalresponse"
	ResponseString         ResponseType = "stringresponse"
)

// Document is the parsed form of a whole problem markdown document.
type Document struct {
	Segments    []Segment
	DemandHints DemandHints
	// Attributes are emitted on the root <problem> element.
	Attributes  []Attribute
	Diagnostics []Diagnostic
}

// Segment is one block of the document between separator lines.
type Segment struct {
	Blocks []Block
}

// Responses returns the response blocks of the segment in source order.
func (segment Segment) Responses() []Response {
	var responses []Response
	for _, block := range segment.Blocks {
		if response, ok := block.(Response); ok {
			responses = append(responses, response)
		}
	}
	return responses
}

// Attribute is a name/value pair of the <problem> element.
type Attribute struct {
	Name  string
	Value string
}

// Diagnostic reports input that was parsed, but probably not the way the
// author intended.
type Diagnostic struct {
	Segment int
	Message string
}

// DemandHints collects the free-standing hints of a document.
// They are shown once at the end of the output no matter which segment declared them.
type DemandHints []string

// Block is a top-level construct of a segment.
type Block interface {
	block()
}

// Response is a block that owns answers.
type Response interface {
	Block
	Type() ResponseType
}

// HintSpec is a hint attached to a choice or an answer.
type HintSpec struct {
	Label string
	Text  string
}

// Header is a title line underlined with "=".
type Header struct {
	Text string
}

// Label is a ">>question||description<<" block.
type Label struct {
	Question    string
	Description string
}

// Prose is text that no recognizer claimed. It is kept as authored.
type Prose struct {
	Lines []string
}

// Solution is an [explanation] block.
type Solution struct {
	Body string
}

// CodeBlock is a [code] block.
type CodeBlock struct {
	Body string
}

// Choice is an option of a select, multiple choice or checkbox question.
type Choice struct {
	Value   string
	Correct bool
	Fixed   bool
	Hint    *HintSpec
	// SelectedHint and UnselectedHint are only set on checkbox choices.
	SelectedHint   string
	UnselectedHint string
}

// Select is a dropdown written as [[ a, (b) ]] or as one option per line.
type Select struct {
	Inline  bool
	Options []Choice
}

// Correct returns the first correct option of the select.
func (s *Select) Correct() (Choice, bool) {
	for _, option := range s.Options {
		if option.Correct {
			return option, true
		}
	}
	return Choice{}, false
}

// MultipleChoice is a group of "(x) text" or "+(x) text" choices.
type MultipleChoice struct {
	Extended bool
	Shuffle  bool
	Choices  []Choice
}

// CompoundHint is a {{((A B)) text}} hint of a checkbox group.
type CompoundHint struct {
	Value string
	Text  string
}

// CheckboxGroup is a group of "[x] text" choices.
type CheckboxGroup struct {
	Choices       []Choice
	CompoundHints []CompoundHint
}

// Answer is an accepted, or for string questions known wrong, answer.
type Answer struct {
	Value        string
	Tolerance    string
	IsAdditional bool
	IsWrong      bool
	Hint         *HintSpec
}

// Numerical is a "= 42 +- 0.5" question.
type Numerical struct {
	Primary    Answer
	Additional []Answer
}

// StringMatch is a "s= text" question.
type StringMatch struct {
	Primary Answer
	Regexp  bool
	// Others holds or= and not= answers in source order.
	Others []Answer
}

func (*Header) block()         {}
func (*Label) block()          {}
func (*Prose) block()          {}
func (*Solution) block()       {}
func (*CodeBlock) block()      {}
func (*Select) block()         {}
func (*MultipleChoice) block() {}
func (*CheckboxGroup) block()  {}
func (*Numerical) block()      {}
func (*StringMatch) block()    {}

func (*Select) Type() ResponseType         { return ResponseSelect }
func (*MultipleChoice) Type() ResponseType { return ResponseMultipleChoice }
func (*CheckboxGroup) Type() ResponseType  { return ResponseCheckbox }
func (*Numerical) Type() ResponseType      { return ResponseNumerical }
func (*StringMatch) Type() ResponseType    { return ResponseString }
