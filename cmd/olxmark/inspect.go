package main

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/olxmark/internal/cli"
	"github.com/at-ishikawa/olxmark/internal/olx"
)

var (
	choiceHintElement = regexp.MustCompile(`(?s)<(?:choicehint|optionhint)\b.*?</(?:choicehint|optionhint)>`)
	markupTag         = regexp.MustCompile(`<[^>]*>`)
)

const maxColumnWidth = 40

func newInspectCommand() *cobra.Command {
	var (
		input    string
		encoding string
	)

	command := &cobra.Command{
		Use:   "inspect",
		Short: "Summarize the responses of an OLX problem",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := cli.ReadInput(input, cmd.InOrStdin(), encoding)
			if err != nil {
				return fmt.Errorf("cli.ReadInput() > %w", err)
			}
			problem, err := olx.DecodeProblem(content)
			if err != nil {
				return fmt.Errorf("olx.DecodeProblem() > %w", err)
			}
			return writeProblemSummary(cmd.OutOrStdout(), problem)
		},
	}

	command.Flags().StringVarP(&input, "input", "i", "", "OLX file (default: stdin)")
	command.Flags().StringVarP(&encoding, "encoding", "u", "utf8", "Input encoding, as an IANA name")
	return command
}

func writeProblemSummary(output io.Writer, problem *olx.Problem) error {
	for _, attr := range problem.Attributes {
		if _, err := fmt.Fprintf(output, "%s: %s\n", attr.Name.Local, attr.Value); err != nil {
			return fmt.Errorf("fmt.Fprintf() > %w", err)
		}
	}
	if problem.ResponseCount() == 0 {
		_, err := fmt.Fprintln(output, "No responses found.")
		return err
	}

	w := tabwriter.NewWriter(output, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TYPE\tLABEL\tANSWER\tCHOICES")
	row := func(responseType string, label *olx.Markup, answer string, choices int) {
		labelText := ""
		if label != nil {
			labelText = plainText(label.InnerXML)
		}
		choiceCount := "-"
		if choices > 0 {
			choiceCount = fmt.Sprint(choices)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", responseType, truncate(labelText), truncate(answer), choiceCount)
	}

	for _, r := range problem.OptionResponses {
		answer := r.OptionInput.Correct
		choices := len(r.OptionInput.Items)
		if len(r.OptionInput.Items) > 0 {
			answer = correctChoices(r.OptionInput.Items)
		} else if r.OptionInput.Options != "" {
			choices = strings.Count(r.OptionInput.Options, "','") + 1
		}
		row("optionresponse", r.Label, answer, choices)
	}
	for _, r := range problem.MultipleChoiceResponses {
		row("multiplechoiceresponse", r.Label, correctChoices(r.ChoiceGroup.Choices), len(r.ChoiceGroup.Choices))
	}
	for _, r := range problem.ChoiceResponses {
		row("choiceresponse", r.Label, correctChoices(r.CheckboxGroup.Choices), len(r.CheckboxGroup.Choices))
	}
	for _, r := range problem.NumericalResponses {
		answer := r.Answer
		if r.Tolerance != nil && r.Tolerance.Default != "" {
			answer += " +- " + r.Tolerance.Default
		}
		for _, additional := range r.AdditionalAnswers {
			answer += ", " + additional.Answer
		}
		row("numericalresponse", r.Label, answer, 0)
	}
	for _, r := range problem.StringResponses {
		answer := r.Answer
		for _, additional := range r.AdditionalAnswers {
			answer += ", " + additional.Answer
		}
		row("stringresponse", r.Label, answer, 0)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("w.Flush() > %w", err)
	}

	if problem.DemandHint != nil {
		if _, err := fmt.Fprintf(output, "Demand hints: %d\n", len(problem.DemandHint.Hints)); err != nil {
			return fmt.Errorf("fmt.Fprintf() > %w", err)
		}
	}
	return nil
}

func correctChoices(choices []olx.DecodedChoice) string {
	var correct []string
	for _, choice := range choices {
		if choice.IsCorrect() {
			correct = append(correct, plainText(choiceHintElement.ReplaceAllString(choice.InnerXML, "")))
		}
	}
	return strings.Join(correct, ", ")
}

func plainText(markup string) string {
	return strings.Join(strings.Fields(markupTag.ReplaceAllString(markup, "")), " ")
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxColumnWidth {
		return s
	}
	return string(runes[:maxColumnWidth-3]) + "..."
}
