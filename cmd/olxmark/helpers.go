package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/olxmark/internal/cli"
	"github.com/at-ishikawa/olxmark/internal/client"
	"github.com/at-ishikawa/olxmark/internal/config"
	"github.com/at-ishikawa/olxmark/internal/markdown"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("config.Load() > %w", err)
	}
	return cfg, nil
}

type conversionFunc func(ctx context.Context, content string) (string, error)

// ioFlags are the input and output flags shared by the conversion commands.
type ioFlags struct {
	input      string
	output     string
	appendMode bool
	encoding   string
	quiet      bool
	mute       bool
}

func (f *ioFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.input, "input", "i", "", "Input file (default: stdin)")
	flags.StringVarP(&f.output, "output", "o", "", "Output file (default: stdout)")
	flags.BoolVarP(&f.appendMode, "append", "a", false, "Append to the output file instead of overwriting it")
	flags.StringVarP(&f.encoding, "encoding", "u", "utf8", "Input encoding, as an IANA name")
	flags.BoolVarP(&f.quiet, "quiet", "q", false, "Quiet mode. Only print errors")
	flags.BoolVarP(&f.mute, "mute", "m", false, "Mute mode. Print nothing")
}

// messenger writes to stdout when the output goes to a file and to stderr otherwise.
func (f *ioFlags) messenger(cmd *cobra.Command) *cli.Messenger {
	writer := cmd.ErrOrStderr()
	if !cli.IsStdout(f.output) {
		writer = cmd.OutOrStdout()
	}
	return cli.NewMessenger(writer, f.quiet, f.mute)
}

func describePath(path string, std string) string {
	if path == "" || path == cli.StdStream {
		return std
	}
	return path
}

// conversion describes how a command converts its input, locally or through
// the service.
type conversion struct {
	serverURL string
	local     func(cfg *config.Config) (conversionFunc, error)
	remote    func(c *client.Client) conversionFunc
}

func (f *ioFlags) run(cmd *cobra.Command, c conversion) error {
	messenger := f.messenger(cmd)
	if err := f.convert(cmd, messenger, c); err != nil {
		messenger.Error(err)
		return &reportedError{err: err}
	}
	return nil
}

func (f *ioFlags) convert(cmd *cobra.Command, messenger *cli.Messenger, c conversion) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	var convert conversionFunc
	serverURL := c.serverURL
	if serverURL == "" {
		serverURL = cfg.Client.BaseURL
	}
	if serverURL != "" && c.remote != nil {
		remoteClient := client.NewClient(
			serverURL,
			time.Duration(cfg.Client.TimeoutSeconds)*time.Second,
			cfg.Client.MaxRetryAttempts,
		)
		defer func() {
			_ = remoteClient.Close()
		}()
		messenger.Info("Using conversion service at %s", serverURL)
		convert = c.remote(remoteClient)
	} else {
		convert, err = c.local(cfg)
		if err != nil {
			return err
		}
	}

	messenger.Info("Reading from %s", describePath(f.input, "stdin"))
	content, err := cli.ReadInput(f.input, cmd.InOrStdin(), f.encoding)
	if err != nil {
		return fmt.Errorf("cli.ReadInput() > %w", err)
	}

	out, err := convert(cmd.Context(), content)
	if err != nil {
		return err
	}

	if err := cli.WriteOutput(f.output, cmd.OutOrStdout(), out, f.appendMode); err != nil {
		return fmt.Errorf("cli.WriteOutput() > %w", err)
	}
	messenger.Success("Conversion complete. Output written to %s", describePath(f.output, "stdout"))
	return nil
}

// markdownFlags select the markdown converter.
type markdownFlags struct {
	extensions       []string
	flavor           string
	flavorFile       string
	documentTemplate string
	options          map[string]*bool
}

func (f *markdownFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringSliceVarP(&f.extensions, "extensions", "e", nil, "Extension files to load")
	flags.StringVarP(&f.flavor, "flavor", "p", "", "Option preset: vanilla, original, github, ghost or allOn")
	flags.StringVar(&f.flavorFile, "flavor-file", "", "YAML file with additional option presets")
	flags.StringVar(&f.documentTemplate, "document-template", "", "Template used by --completeHTMLDocument")

	f.options = make(map[string]*bool, len(markdown.OptionNames))
	for _, name := range markdown.OptionNames {
		f.options[name] = flags.Bool(name, false, markdown.OptionDescriptions[name])
	}
}

// settings merges the flags over the configuration. Only option flags given
// on the command line override the flavor and the configured options.
func (f *markdownFlags) settings(cmd *cobra.Command, cfg *config.Config) markdown.Settings {
	options := markdown.NormalizeOptions(cfg.Markdown.Options)
	for name, value := range f.options {
		if cmd.Flags().Changed(name) {
			options[name] = *value
		}
	}

	settings := markdown.Settings{
		Flavor:           cfg.Markdown.Flavor,
		FlavorFile:       cfg.Markdown.FlavorFile,
		Options:          options,
		Extensions:       cfg.Markdown.Extensions,
		DocumentTemplate: cfg.Markdown.DocumentTemplate,
	}
	if f.flavor != "" {
		settings.Flavor = f.flavor
	}
	if f.flavorFile != "" {
		settings.FlavorFile = f.flavorFile
	}
	if len(f.extensions) > 0 {
		settings.Extensions = f.extensions
	}
	if f.documentTemplate != "" {
		settings.DocumentTemplate = f.documentTemplate
	}
	return settings
}
