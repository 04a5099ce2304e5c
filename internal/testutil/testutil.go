// Package testutil provides shared test helpers for creating config files and extension fixtures.
package testutil

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// IsolateEnvironment moves the test into a new directory that is also HOME,
// so no configuration file or environment variable of the machine leaks in.
// Returns the directory.
func IsolateEnvironment(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	for _, name := range []string{"OLXMARK_CONFIG", "OLXMARK_SERVER_URL", "OLXMARK_LOCALE", "PORT"} {
		t.Setenv(name, "")
	}
	return dir
}

// ConfigOption configures the fields of a test config file.
type ConfigOption func(map[string]any)

func section(cfg map[string]any, name string) map[string]any {
	if s, ok := cfg[name].(map[string]any); ok {
		return s
	}
	s := map[string]any{}
	cfg[name] = s
	return s
}

// WithMarkdownFlavor sets markdown.flavor.
func WithMarkdownFlavor(flavor string) ConfigOption {
	return func(cfg map[string]any) {
		section(cfg, "markdown")["flavor"] = flavor
	}
}

// WithMarkdownOption sets one entry of markdown.options.
func WithMarkdownOption(name string, value bool) ConfigOption {
	return func(cfg map[string]any) {
		markdown := section(cfg, "markdown")
		options, ok := markdown["options"].(map[string]any)
		if !ok {
			options = map[string]any{}
			markdown["options"] = options
		}
		options[name] = value
	}
}

// WithExtensions sets markdown.extensions.
func WithExtensions(paths ...string) ConfigOption {
	return func(cfg map[string]any) {
		section(cfg, "markdown")["extensions"] = paths
	}
}

// WithLocale sets olx.locale.
func WithLocale(locale string) ConfigOption {
	return func(cfg map[string]any) {
		section(cfg, "olx")["locale"] = locale
	}
}

// WithServerURL sets client.base_url.
func WithServerURL(url string) ConfigOption {
	return func(cfg map[string]any) {
		section(cfg, "client")["base_url"] = url
	}
}

// SetupTestConfig writes config.yml into tmpDir and returns its path.
// Without options the file only sets the default flavor.
func SetupTestConfig(t *testing.T, tmpDir string, opts ...ConfigOption) string {
	t.Helper()

	cfg := map[string]any{
		"markdown": map[string]any{"flavor": "vanilla"},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	content, err := yaml.Marshal(cfg)
	require.NoError(t, err)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, content, 0644))
	return cfgPath
}

// CreateExtension writes a lang extension that replaces from with to and
// returns its path.
func CreateExtension(t *testing.T, dir, name, from, to string) string {
	t.Helper()

	source := `package main

import "strings"

func Transform(text string) (string, error) {
	return strings.ReplaceAll(text, ` + strconv.Quote(from) + `, ` + strconv.Quote(to) + `), nil
}
`
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(source), 0644))
	return path
}
