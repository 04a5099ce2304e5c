package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/olxmark/internal/cli"
	"github.com/at-ishikawa/olxmark/internal/pdf"
)

func newMakePDFCommand() *cobra.Command {
	var (
		input    string
		output   string
		encoding string
		quiet    bool
		mute     bool
	)

	command := &cobra.Command{
		Use:   "makepdf",
		Short: "Render markdown as a PDF file",
		Long: `Render markdown as a PDF file.
Without --output the PDF is written next to the input file, which is then required.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			messenger := cli.NewMessenger(cmd.OutOrStdout(), quiet, mute)

			pdfPath, err := makePDF(cmd, input, output, encoding)
			if err != nil {
				messenger.Error(err)
				return &reportedError{err: err}
			}
			messenger.Success("PDF written to %s", pdfPath)
			return nil
		},
	}

	command.Flags().StringVarP(&input, "input", "i", "", "Markdown file (default: stdin)")
	command.Flags().StringVarP(&output, "output", "o", "", "PDF file")
	command.Flags().StringVarP(&encoding, "encoding", "u", "utf8", "Input encoding, as an IANA name")
	command.Flags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode. Only print errors")
	command.Flags().BoolVarP(&mute, "mute", "m", false, "Mute mode. Print nothing")
	return command
}

func makePDF(cmd *cobra.Command, input, output, encoding string) (string, error) {
	if input != "" && input != cli.StdStream && (encoding == "" || encoding == "utf8") {
		return pdf.ConvertMarkdownToPDF(input, output)
	}
	if output == "" {
		return "", fmt.Errorf("--output is required when the markdown is read from stdin or re-encoded")
	}

	content, err := cli.ReadInput(input, cmd.InOrStdin(), encoding)
	if err != nil {
		return "", fmt.Errorf("cli.ReadInput() > %w", err)
	}
	if err := pdf.RenderMarkdown([]byte(content), output); err != nil {
		return "", err
	}
	return output, nil
}
