package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// StdStream is the path that means standard input or output.
const StdStream = "-"

func isStdStream(path string) bool {
	return path == "" || path == StdStream
}

// ReadInput reads the file at path, or stdin when path is empty or "-", and
// decodes it from encodingName to UTF-8.
func ReadInput(path string, stdin io.Reader, encodingName string) (string, error) {
	reader := stdin
	if !isStdStream(path) {
		file, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("os.Open(%s) > %w", path, err)
		}
		defer func() {
			_ = file.Close()
		}()
		reader = file
	}

	if encodingName != "" && !strings.EqualFold(encodingName, "utf8") {
		enc, err := ianaindex.IANA.Encoding(encodingName)
		if err != nil {
			return "", fmt.Errorf("ianaindex.IANA.Encoding(%s) > %w", encodingName, err)
		}
		if enc == nil {
			return "", fmt.Errorf("encoding %s is not supported", encodingName)
		}
		reader = transform.NewReader(reader, enc.NewDecoder())
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(content), nil
}

// WriteOutput writes content to the file at path, or to stdout when path is
// empty or "-". The file is appended to instead of truncated when appendMode is set.
func WriteOutput(path string, stdout io.Writer, content string, appendMode bool) error {
	if isStdStream(path) {
		if _, err := io.WriteString(stdout, content); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if appendMode {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	file, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return fmt.Errorf("os.OpenFile(%s) > %w", path, err)
	}
	if _, err := file.WriteString(content); err != nil {
		_ = file.Close()
		return fmt.Errorf("file.WriteString(%s) > %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("file.Close(%s) > %w", path, err)
	}
	return nil
}

// IsStdout reports whether path writes to standard output.
func IsStdout(path string) bool {
	return isStdStream(path)
}
