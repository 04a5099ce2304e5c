package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/at-ishikawa/olxmark/internal/client"
	"github.com/at-ishikawa/olxmark/internal/config"
	"github.com/at-ishikawa/olxmark/internal/markdown"
	"github.com/at-ishikawa/olxmark/internal/olx"
)

type inputFormatFlag markdown.InputFormat

// Set implements pflag.Value.
func (f *inputFormatFlag) Set(v string) error {
	switch markdown.InputFormat(v) {
	case markdown.InputFormatMarkdown, markdown.InputFormatOrg:
		*f = inputFormatFlag(v)
	default:
		return fmt.Errorf("invalid value %q, valid values are %q or %q", v, markdown.InputFormatMarkdown, markdown.InputFormatOrg)
	}
	return nil
}

// String implements pflag.Value.
func (f *inputFormatFlag) String() string {
	if f == nil {
		return ""
	}
	return string(*f)
}

// Type implements pflag.Value.
func (f *inputFormatFlag) Type() string {
	return "InputFormat"
}

var (
	_ pflag.Value = (*inputFormatFlag)(nil)
)

func newMakeHTMLCommand() *cobra.Command {
	var (
		files       ioFlags
		md          markdownFlags
		serverURL   string
		inputFormat = inputFormatFlag(markdown.InputFormatMarkdown)
	)

	command := &cobra.Command{
		Use:   "makehtml",
		Short: "Convert markdown to HTML",
		Long: `Convert markdown, or org text with --input-format org, to HTML.
With --server the conversion service renders the HTML with its own options.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return files.run(cmd, conversion{
				serverURL: serverURL,
				local: func(cfg *config.Config) (conversionFunc, error) {
					settings := md.settings(cmd, cfg)
					settings.InputFormat = markdown.InputFormat(inputFormat)
					converter, err := settings.Build()
					if err != nil {
						return nil, fmt.Errorf("settings.Build() > %w", err)
					}
					return func(_ context.Context, content string) (string, error) {
						return converter.MakeHTML(content)
					}, nil
				},
				remote: func(c *client.Client) conversionFunc {
					return c.MakeHTML
				},
			})
		},
	}

	files.register(command)
	md.register(command)
	command.Flags().Var(&inputFormat, "input-format", "Input format: markdown or org")
	command.Flags().StringVar(&serverURL, "server", "", "Base URL of a conversion service to delegate to")
	return command
}

func newMakeMarkdownCommand() *cobra.Command {
	var (
		files     ioFlags
		md        markdownFlags
		serverURL string
	)

	command := &cobra.Command{
		Use:   "makemarkdown",
		Short: "Convert HTML to markdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return files.run(cmd, conversion{
				serverURL: serverURL,
				local: func(cfg *config.Config) (conversionFunc, error) {
					converter, err := md.settings(cmd, cfg).Build()
					if err != nil {
						return nil, fmt.Errorf("settings.Build() > %w", err)
					}
					return func(_ context.Context, content string) (string, error) {
						return converter.MakeMarkdown(content)
					}, nil
				},
				remote: func(c *client.Client) conversionFunc {
					return c.MakeMarkdown
				},
			})
		},
	}

	files.register(command)
	md.register(command)
	command.Flags().StringVar(&serverURL, "server", "", "Base URL of a conversion service to delegate to")
	return command
}

func newMakeOLXCommand() *cobra.Command {
	var (
		files     ioFlags
		locale    string
		metadata  bool
		serverURL string
	)

	command := &cobra.Command{
		Use:   "makeolx",
		Short: "Convert problem markdown to OLX",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return files.run(cmd, conversion{
				serverURL: serverURL,
				local: func(cfg *config.Config) (conversionFunc, error) {
					if locale == "" {
						locale = cfg.OLX.Locale
					}
					converter, err := olx.NewConverter(
						olx.WithLocale(locale),
						olx.WithMetadata(metadata || cfg.OLX.Metadata),
					)
					if err != nil {
						return nil, fmt.Errorf("olx.NewConverter() > %w", err)
					}
					return func(_ context.Context, content string) (string, error) {
						return converter.Convert(content)
					}, nil
				},
				remote: func(c *client.Client) conversionFunc {
					return c.MakeOLX
				},
			})
		},
	}

	files.register(command)
	command.Flags().StringVar(&locale, "locale", "", "Language of the explanation heading (default: olx.locale of the configuration)")
	command.Flags().BoolVar(&metadata, "metadata", false, "Write front matter fields as attributes of <problem>")
	command.Flags().StringVar(&serverURL, "server", "", "Base URL of a conversion service to delegate to")
	return command
}

func newUnescapeMDCommand() *cobra.Command {
	var (
		files     ioFlags
		serverURL string
	)

	command := &cobra.Command{
		Use:   "unescapemd",
		Short: "Restore the characters escaped inside code spans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return files.run(cmd, conversion{
				serverURL: serverURL,
				local: func(cfg *config.Config) (conversionFunc, error) {
					return func(_ context.Context, content string) (string, error) {
						return olx.UnescapeCode(content)
					}, nil
				},
				remote: func(c *client.Client) conversionFunc {
					return c.UnescapeMD
				},
			})
		},
	}

	files.register(command)
	command.Flags().StringVar(&serverURL, "server", "", "Base URL of a conversion service to delegate to")
	return command
}
