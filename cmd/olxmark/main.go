package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFile string
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			printError(os.Stderr, err)
		}
		os.Exit(1)
	}
	os.Exit(0)
}

func newRootCommand() *cobra.Command {
	var debugMode bool
	rootCommand := &cobra.Command{
		Use:           "olxmark",
		Short:         "Convert problem markdown to OLX, and markdown to and from HTML",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogger(debugMode)
			return nil
		},
	}
	rootCommand.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCommand.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug mode")

	rootCommand.AddCommand(
		newMakeHTMLCommand(),
		newMakeMarkdownCommand(),
		newMakeOLXCommand(),
		newUnescapeMDCommand(),
		newMakePDFCommand(),
		newInspectCommand(),
	)
	return rootCommand
}

// setupLogger configures the default logger based on debug mode.
// Logs go to stderr since stdout carries the converted output.
func setupLogger(debugMode bool) {
	logLevel := slog.LevelInfo
	if debugMode {
		logLevel = slog.LevelDebug
	}

	slog.SetDefault(
		slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})),
	)
}

// reportedError has already been shown by a Messenger.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string {
	return e.err.Error()
}

func (e *reportedError) Unwrap() error {
	return e.err
}

func printError(w io.Writer, err error) {
	if _, fprintfErr := fmt.Fprintf(w, "failed to execute a command: %+v\n", err); fprintfErr != nil {
		panic(fmt.Errorf("failed to output an error: %w. Reason: %w", err, fprintfErr))
	}
}
