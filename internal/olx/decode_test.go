package olx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeProblem(t *testing.T) {
	markdown := `>>Which operator compares ` + "`a < b`" + `?<<
(x) Less than {{Right:: yes}}
( ) Greater than
---
s= paris
or= Paris
not= london
---
= 3 +- 0.1
---
|| Read the question twice ||`

	olx, err := MarkdownToOLX(markdown)
	require.NoError(t, err)

	problem, err := DecodeProblem(olx)
	require.NoError(t, err)
	assert.Equal(t, 3, problem.ResponseCount())

	require.Len(t, problem.MultipleChoiceResponses, 1)
	mc := problem.MultipleChoiceResponses[0]
	require.NotNil(t, mc.Label)
	assert.Equal(t, "Which operator compares `a < b`?", mc.Label.InnerXML)
	require.Len(t, mc.ChoiceGroup.Choices, 2)
	assert.True(t, mc.ChoiceGroup.Choices[0].IsCorrect())
	assert.False(t, mc.ChoiceGroup.Choices[1].IsCorrect())
	require.Len(t, mc.ChoiceGroup.Choices[0].Hints, 1)
	assert.Equal(t, "yes", mc.ChoiceGroup.Choices[0].Hints[0].InnerXML)

	require.Len(t, problem.StringResponses, 1)
	sr := problem.StringResponses[0]
	assert.Equal(t, "paris", sr.Answer)
	assert.Equal(t, "ci", sr.Type)
	assert.Equal(t, []AdditionalAnswer{{Answer: "Paris"}}, sr.AdditionalAnswers)
	assert.Equal(t, []AdditionalAnswer{{Answer: "london"}}, sr.WrongAnswers)

	require.Len(t, problem.NumericalResponses, 1)
	nr := problem.NumericalResponses[0]
	assert.Equal(t, "3", nr.Answer)
	require.NotNil(t, nr.Tolerance)
	assert.Equal(t, "0.1", nr.Tolerance.Default)

	require.NotNil(t, problem.DemandHint)
	require.Len(t, problem.DemandHint.Hints, 1)
	assert.Equal(t, "Read the question twice", problem.DemandHint.Hints[0].InnerXML)
}

func TestDecodeProblem_Error(t *testing.T) {
	tests := []struct {
		name string
		olx  string
	}{
		{name: "not xml", olx: "plain text"},
		{name: "unclosed element", olx: "<problem><choiceresponse></problem>"},
		{name: "unknown entity", olx: "<problem>&nope;</problem>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeProblem(tt.olx)
			assert.Error(t, err)
		})
	}
}
