package olx

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// ErrAssembly is returned when the markup built for a segment is not well-formed XML.
var ErrAssembly = errors.New("olx assembly failed")

// AssemblyError reports which segment could not be assembled.
// Segment is -1 for the <problem> start tag and the demand hint block.
type AssemblyError struct {
	Segment int
	Err     error
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("segment %d: %v: %v", e.Segment, ErrAssembly, e.Err)
}

func (e *AssemblyError) Unwrap() []error {
	return []error{ErrAssembly, e.Err}
}

const indentUnit = "  "

var entityReference = regexp.MustCompile(`^&(?:#[0-9]+|#x[0-9a-fA-F]+|[A-Za-z][A-Za-z0-9]*);`)

// node is an element of the output tree. A node without a name is markup
// that is written as is.
type node struct {
	name     string
	attrs    []Attribute
	text     string
	children []*node
	// inline nodes are written on a single line.
	inline bool
	// verbatim raw markup keeps its line breaks and indentation.
	verbatim bool
}

func element(name string, attrs ...Attribute) *node {
	return &node{name: name, attrs: attrs}
}

func inlineElement(name, text string, attrs ...Attribute) *node {
	return &node{name: name, attrs: attrs, text: text, inline: true}
}

func raw(markup string) *node {
	return &node{text: markup}
}

func (n *node) add(children ...*node) *node {
	n.children = append(n.children, children...)
	return n
}

func (n *node) write(sb *strings.Builder, depth int) {
	indent := strings.Repeat(indentUnit, depth)
	if n.name == "" {
		n.writeRaw(sb, indent)
		return
	}

	sb.WriteString(indent)
	sb.WriteString("<" + n.name)
	for _, attr := range n.attrs {
		fmt.Fprintf(sb, ` %s="%s"`, attr.Name, escapeAttribute(attr.Value))
	}
	if n.text == "" && len(n.children) == 0 {
		sb.WriteString(" />")
		return
	}
	sb.WriteString(">")
	sb.WriteString(escapeText(n.text))

	if n.inline {
		for _, child := range n.children {
			if child.name == "" || !child.inline {
				continue
			}
			if n.text != "" {
				sb.WriteString(" ")
			}
			child.write(sb, 0)
		}
	} else {
		for _, child := range n.children {
			sb.WriteString("\n")
			child.write(sb, depth+1)
		}
		sb.WriteString("\n" + indent)
	}
	sb.WriteString("</" + n.name + ">")
}

func (n *node) writeRaw(sb *strings.Builder, indent string) {
	if n.verbatim {
		sb.WriteString(indent + n.text)
		return
	}
	first := true
	for _, line := range strings.Split(n.text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !first {
			sb.WriteString("\n")
		}
		sb.WriteString(indent + strings.TrimSpace(line))
		first = false
	}
}

// escapeText escapes ampersands that do not start an entity reference.
// Other markup in authored text is kept, so it must be well-formed.
func escapeText(text string) string {
	if !strings.Contains(text, "&") {
		return text
	}
	var sb strings.Builder
	for i := 0; i < len(text); i++ {
		if text[i] == '&' && !entityReference.MatchString(text[i:]) {
			sb.WriteString("&amp;")
			continue
		}
		sb.WriteByte(text[i])
	}
	return sb.String()
}

func escapeAttribute(value string) string {
	return strings.NewReplacer(`"`, "&quot;", "<", "&lt;").Replace(escapeText(value))
}

// segmentRenderer builds the output tree of one segment.
type segmentRenderer struct {
	heading    string
	paragraphs paragraphWrapper
}

func (r *segmentRenderer) render(segment Segment) []*node {
	var nodes []*node
	responseAt := -1
	for _, block := range segment.Blocks {
		if _, ok := block.(Response); ok {
			if responseAt == -1 {
				responseAt = len(nodes)
			} else {
				responseAt = -2
			}
		}
		nodes = append(nodes, r.renderBlock(block)...)
	}
	return normalizeSegment(nodes, responseAt)
}

// normalizeSegment moves every node around the single response into it:
// the ones before it in front of its first child, the ones after it to the
// end. Segments with zero or several responses are left flat.
func normalizeSegment(nodes []*node, responseAt int) []*node {
	if responseAt < 0 {
		return nodes
	}
	response := nodes[responseAt]
	children := make([]*node, 0, len(nodes)-1+len(response.children))
	children = append(children, nodes[:responseAt]...)
	children = append(children, response.children...)
	children = append(children, nodes[responseAt+1:]...)
	response.children = children
	return []*node{response}
}

func (r *segmentRenderer) renderBlock(block Block) []*node {
	switch b := block.(type) {
	case *Header:
		return []*node{inlineElement("h3", b.Text,
			Attribute{Name: "class", Value: "hd hd-2 problem-header"})}
	case *Label:
		nodes := []*node{inlineElement("label", b.Question)}
		if b.Description != "" {
			nodes = append(nodes, inlineElement("description", b.Description))
		}
		return nodes
	case *Prose:
		return []*node{raw(escapeText(r.paragraphs.wrap(strings.Join(b.Lines, "\n"))))}
	case *Solution:
		body := r.paragraphs.wrap(r.heading + "\n\n" + b.Body)
		return []*node{element("solution").add(
			element("div", Attribute{Name: "class", Value: "detailed-solution"}).add(raw(escapeText(body))),
		)}
	case *CodeBlock:
		return []*node{{text: "<pre><code>" + escapeText(b.Body) + "</code></pre>", verbatim: true}}
	case *Select:
		return []*node{renderSelect(b)}
	case *MultipleChoice:
		return []*node{renderMultipleChoice(b)}
	case *CheckboxGroup:
		return []*node{renderCheckboxGroup(b)}
	case *Numerical:
		return []*node{renderNumerical(b)}
	case *StringMatch:
		return []*node{renderStringMatch(b)}
	}
	return nil
}

func trueFalse(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func hintNode(name string, hint *HintSpec, attrs ...Attribute) *node {
	if hint.Label != "" {
		attrs = append(attrs, Attribute{Name: "label", Value: hint.Label})
	}
	return inlineElement(name, hint.Text, attrs...)
}

func renderSelect(s *Select) *node {
	response := element(string(ResponseSelect))
	if s.Inline {
		quoted := make([]string, 0, len(s.Options))
		for _, option := range s.Options {
			quoted = append(quoted, "'"+option.Value+"'")
		}
		correct, _ := s.Correct()
		return response.add(element("optioninput",
			Attribute{Name: "options", Value: "(" + strings.Join(quoted, ",") + ")"},
			Attribute{Name: "correct", Value: correct.Value},
		))
	}

	input := element("optioninput")
	for _, option := range s.Options {
		n := inlineElement("option", option.Value, Attribute{Name: "correct", Value: trueFalse(option.Correct)})
		if option.Hint != nil {
			n.add(hintNode("optionhint", option.Hint))
		}
		input.add(n)
	}
	return response.add(input)
}

func renderMultipleChoice(mc *MultipleChoice) *node {
	attrs := []Attribute{{Name: "type", Value: "MultipleChoice"}}
	if mc.Shuffle {
		attrs = append(attrs, Attribute{Name: "shuffle", Value: "true"})
	}
	group := element("choicegroup", attrs...)
	for _, choice := range mc.Choices {
		attrs := []Attribute{{Name: "correct", Value: trueFalse(choice.Correct)}}
		if choice.Fixed {
			attrs = append(attrs, Attribute{Name: "fixed", Value: "true"})
		}
		n := inlineElement("choice", choice.Value, attrs...)
		if choice.Hint != nil {
			n.add(hintNode("choicehint", choice.Hint))
		}
		group.add(n)
	}
	return element(string(ResponseMultipleChoice)).add(group)
}

func renderCheckboxGroup(cg *CheckboxGroup) *node {
	group := element("checkboxgroup")
	for _, choice := range cg.Choices {
		n := &node{name: "choice", text: choice.Value, attrs: []Attribute{{Name: "correct", Value: trueFalse(choice.Correct)}}}
		if choice.SelectedHint != "" {
			n.add(inlineElement("choicehint", choice.SelectedHint, Attribute{Name: "selected", Value: "true"}))
		}
		if choice.UnselectedHint != "" {
			n.add(inlineElement("choicehint", choice.UnselectedHint, Attribute{Name: "selected", Value: "false"}))
		}
		if len(n.children) == 0 {
			n.inline = true
		}
		group.add(n)
	}
	for _, compound := range cg.CompoundHints {
		group.add(inlineElement("compoundhint", compound.Text, Attribute{Name: "value", Value: compound.Value}))
	}
	return element(string(ResponseCheckbox)).add(group)
}

func renderNumerical(num *Numerical) *node {
	response := element(string(ResponseNumerical), Attribute{Name: "answer", Value: num.Primary.Value})
	if num.Primary.Tolerance != "" {
		response.add(element("responseparam",
			Attribute{Name: "type", Value: "tolerance"},
			Attribute{Name: "default", Value: num.Primary.Tolerance},
		))
	}
	for _, answer := range num.Additional {
		response.add(additionalAnswerNode(answer))
	}
	response.add(element("formulaequationinput"))
	if num.Primary.Hint != nil {
		response.add(hintNode("correcthint", num.Primary.Hint))
	}
	return response
}

func renderStringMatch(sm *StringMatch) *node {
	comparison := "ci"
	if sm.Regexp {
		comparison = "ci regexp"
	}
	response := element(string(ResponseString),
		Attribute{Name: "answer", Value: sm.Primary.Value},
		Attribute{Name: "type", Value: comparison},
	)
	if sm.Primary.Hint != nil {
		response.add(hintNode("correcthint", sm.Primary.Hint))
	}
	for _, answer := range sm.Others {
		if answer.IsWrong {
			hint := answer.Hint
			if hint == nil {
				hint = &HintSpec{}
			}
			response.add(hintNode("stringequalhint", hint, Attribute{Name: "answer", Value: answer.Value}))
			continue
		}
		response.add(additionalAnswerNode(answer))
	}
	return response.add(element("textline", Attribute{Name: "size", Value: "20"}))
}

func additionalAnswerNode(answer Answer) *node {
	n := inlineElement("additional_answer", "", Attribute{Name: "answer", Value: answer.Value})
	if answer.Hint != nil {
		n.add(hintNode("correcthint", answer.Hint))
	}
	return n
}

func writeNodes(nodes []*node) string {
	var sb strings.Builder
	for i, n := range nodes {
		if i > 0 {
			sb.WriteString("\n")
		}
		n.write(&sb, 0)
	}
	return sb.String()
}

// checkWellFormed parses markup with the entities the output may carry.
func checkWellFormed(markup string) error {
	decoder := xml.NewDecoder(strings.NewReader("<segment>" + markup + "</segment>"))
	decoder.Strict = true
	decoder.Entity = outputEntities
	for {
		if _, err := decoder.Token(); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

var outputEntities = func() map[string]string {
	entities := make(map[string]string, len(xml.HTMLEntity)+2)
	for name, value := range xml.HTMLEntity {
		entities[name] = value
	}
	entities["pipe"] = "|"
	entities["lf"] = "\n"
	return entities
}()
