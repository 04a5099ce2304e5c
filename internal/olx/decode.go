package olx

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// Problem is a generated <problem> document read back into structs.
type Problem struct {
	XMLName                 xml.Name                 `xml:"problem"`
	Attributes              []xml.Attr               `xml:",any,attr"`
	OptionResponses         []OptionResponse         `xml:"optionresponse"`
	MultipleChoiceResponses []MultipleChoiceResponse `xml:"multiplechoiceresponse"`
	ChoiceResponses         []ChoiceResponse         `xml:"choiceresponse"`
	NumericalResponses      []NumericalResponse      `xml:"numericalresponse"`
	StringResponses         []StringResponse         `xml:"stringresponse"`
	DemandHint              *DemandHint              `xml:"demandhint"`
}

type Markup struct {
	InnerXML string `xml:",innerxml"`
}

type OptionResponse struct {
	Label       *Markup     `xml:"label"`
	OptionInput OptionInput `xml:"optioninput"`
}

type OptionInput struct {
	Options string          `xml:"options,attr"`
	Correct string          `xml:"correct,attr"`
	Items   []DecodedChoice `xml:"option"`
}

type MultipleChoiceResponse struct {
	Label       *Markup     `xml:"label"`
	ChoiceGroup ChoiceGroup `xml:"choicegroup"`
}

type ChoiceGroup struct {
	Shuffle bool            `xml:"shuffle,attr"`
	Choices []DecodedChoice `xml:"choice"`
}

type ChoiceResponse struct {
	Label         *Markup       `xml:"label"`
	CheckboxGroup CheckboxInput `xml:"checkboxgroup"`
}

type CheckboxInput struct {
	Choices       []DecodedChoice `xml:"choice"`
	CompoundHints []Markup        `xml:"compoundhint"`
}

// DecodedChoice is an <option> or <choice>. InnerXML still holds its hints.
type DecodedChoice struct {
	Correct  string   `xml:"correct,attr"`
	Fixed    bool     `xml:"fixed,attr"`
	InnerXML string   `xml:",innerxml"`
	Hints    []Markup `xml:"choicehint"`
}

// IsCorrect reports whether the correct attribute is set to true in any case.
func (c DecodedChoice) IsCorrect() bool {
	return strings.EqualFold(c.Correct, "true")
}

type NumericalResponse struct {
	Answer            string             `xml:"answer,attr"`
	Label             *Markup            `xml:"label"`
	Tolerance         *ResponseParam     `xml:"responseparam"`
	AdditionalAnswers []AdditionalAnswer `xml:"additional_answer"`
}

type ResponseParam struct {
	Type    string `xml:"type,attr"`
	Default string `xml:"default,attr"`
}

type AdditionalAnswer struct {
	Answer string `xml:"answer,attr"`
}

type StringResponse struct {
	Answer            string             `xml:"answer,attr"`
	Type              string             `xml:"type,attr"`
	Label             *Markup            `xml:"label"`
	AdditionalAnswers []AdditionalAnswer `xml:"additional_answer"`
	WrongAnswers      []AdditionalAnswer `xml:"stringequalhint"`
}

type DemandHint struct {
	Hints []Markup `xml:"hint"`
}

// ResponseCount returns the number of response elements of the problem.
func (p *Problem) ResponseCount() int {
	return len(p.OptionResponses) + len(p.MultipleChoiceResponses) + len(p.ChoiceResponses) +
		len(p.NumericalResponses) + len(p.StringResponses)
}

// DecodeProblem reads OLX produced by a Converter. Entities written inside
// code spans are turned back into the characters they stand for.
func DecodeProblem(olx string) (*Problem, error) {
	decoder := xml.NewDecoder(strings.NewReader(olx))
	decoder.Strict = true
	decoder.Entity = outputEntities

	var problem Problem
	if err := decoder.Decode(&problem); err != nil {
		return nil, fmt.Errorf("xml.Decode() > %w", err)
	}

	var err error
	unescape := func(s *string) {
		if err != nil {
			return
		}
		*s, err = UnescapeCode(*s)
	}
	unescapeLabel := func(m *Markup) {
		if m != nil {
			unescape(&m.InnerXML)
		}
	}
	unescapeChoices := func(choices []DecodedChoice) {
		for i := range choices {
			unescape(&choices[i].InnerXML)
			for j := range choices[i].Hints {
				unescape(&choices[i].Hints[j].InnerXML)
			}
		}
	}

	for i := range problem.OptionResponses {
		unescapeLabel(problem.OptionResponses[i].Label)
		unescapeChoices(problem.OptionResponses[i].OptionInput.Items)
	}
	for i := range problem.MultipleChoiceResponses {
		unescapeLabel(problem.MultipleChoiceResponses[i].Label)
		unescapeChoices(problem.MultipleChoiceResponses[i].ChoiceGroup.Choices)
	}
	for i := range problem.ChoiceResponses {
		unescapeLabel(problem.ChoiceResponses[i].Label)
		unescapeChoices(problem.ChoiceResponses[i].CheckboxGroup.Choices)
	}
	for i := range problem.NumericalResponses {
		unescapeLabel(problem.NumericalResponses[i].Label)
	}
	for i := range problem.StringResponses {
		unescapeLabel(problem.StringResponses[i].Label)
		unescape(&problem.StringResponses[i].Answer)
	}
	if problem.DemandHint != nil {
		for i := range problem.DemandHint.Hints {
			unescape(&problem.DemandHint.Hints[i].InnerXML)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("UnescapeCode() > %w", err)
	}
	return &problem, nil
}
