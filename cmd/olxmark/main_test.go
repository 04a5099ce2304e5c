package main

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/olxmark/internal/markdown"
	"github.com/at-ishikawa/olxmark/internal/olx"
	"github.com/at-ishikawa/olxmark/internal/server"
	"github.com/at-ishikawa/olxmark/internal/testutil"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		debugMode bool
		wantLevel slog.Level
	}{
		{
			name:      "debug mode enabled",
			debugMode: true,
			wantLevel: slog.LevelDebug,
		},
		{
			name:      "debug mode disabled",
			debugMode: false,
			wantLevel: slog.LevelInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupLogger(tt.debugMode)
			logger := slog.Default()
			assert.NotNil(t, logger)
			assert.Equal(t, tt.wantLevel <= slog.LevelDebug, logger.Enabled(context.Background(), slog.LevelDebug))
		})
	}
}

func setupWorkspace(t *testing.T) string {
	t.Helper()
	color.NoColor = true
	return testutil.IsolateEnvironment(t)
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestMakeOLXCommand(t *testing.T) {
	setupWorkspace(t)
	source := ">>Which is a fruit?<<\n(x) Apple\n( ) Carrot\n"
	want, err := olx.MarkdownToOLX(source)
	require.NoError(t, err)

	stdout, stderr, err := execute(t, source, "makeolx", "-q")
	require.NoError(t, err)
	assert.Equal(t, want, stdout)
	assert.Empty(t, stderr)
}

func TestMakeOLXCommand_Locale(t *testing.T) {
	setupWorkspace(t)
	source := "(x) A\n[explanation]\nBecause.\n[/explanation]\n"
	converter, err := olx.NewConverter(olx.WithLocale("es"))
	require.NoError(t, err)
	want, err := converter.Convert(source)
	require.NoError(t, err)

	stdout, _, err := execute(t, source, "makeolx", "-q", "--locale", "es")
	require.NoError(t, err)
	assert.Equal(t, want, stdout)
}

func TestMakeHTMLCommand(t *testing.T) {
	dir := setupWorkspace(t)
	input := filepath.Join(dir, "table.md")
	output := filepath.Join(dir, "table.html")
	require.NoError(t, os.WriteFile(input, []byte("| a |\n| - |\n| 1 |\n"), 0644))

	tests := []struct {
		name        string
		args        []string
		wantContain string
		wantMissing string
	}{
		{
			name:        "tables are off in vanilla",
			args:        []string{"makehtml", "-i", input, "-o", output},
			wantMissing: "<table>",
		},
		{
			name:        "tables flag",
			args:        []string{"makehtml", "-i", input, "-o", output, "--tables"},
			wantContain: "<table>",
		},
		{
			name:        "github flavor",
			args:        []string{"makehtml", "-i", input, "-o", output, "-p", "github"},
			wantContain: "<table>",
		},
		{
			name:        "flag wins over the flavor",
			args:        []string{"makehtml", "-i", input, "-o", output, "-p", "github", "--tables=false"},
			wantMissing: "<table>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, "", tt.args...)
			require.NoError(t, err)
			assert.Contains(t, stdout, "Conversion complete. Output written to "+output)

			got, err := os.ReadFile(output)
			require.NoError(t, err)
			if tt.wantContain != "" {
				assert.Contains(t, string(got), tt.wantContain)
			}
			if tt.wantMissing != "" {
				assert.NotContains(t, string(got), tt.wantMissing)
			}
		})
	}
}

func TestMakeHTMLCommand_Config(t *testing.T) {
	tests := []struct {
		name  string
		opts  func(t *testing.T, dir string) []testutil.ConfigOption
		args  []string
		stdin string
		want  string
	}{
		{
			name: "configured option",
			opts: func(t *testing.T, dir string) []testutil.ConfigOption {
				return []testutil.ConfigOption{testutil.WithMarkdownOption("noHeaderId", true)}
			},
			stdin: "# Title\n",
			want:  "<h1>Title</h1>\n",
		},
		{
			name: "flag wins over the configured option",
			opts: func(t *testing.T, dir string) []testutil.ConfigOption {
				return []testutil.ConfigOption{testutil.WithMarkdownOption("noHeaderId", true)}
			},
			args:  []string{"--noHeaderId=false"},
			stdin: "# Title\n",
			want:  "<h1 id=\"title\">Title</h1>\n",
		},
		{
			name: "configured extension",
			opts: func(t *testing.T, dir string) []testutil.ConfigOption {
				return []testutil.ConfigOption{
					testutil.WithMarkdownOption("noHeaderId", true),
					testutil.WithExtensions(testutil.CreateExtension(t, dir, "copyright.go", "(c)", "copyright")),
				}
			},
			stdin: "# (c) 2026\n",
			want:  "<h1>copyright 2026</h1>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := setupWorkspace(t)
			testutil.SetupTestConfig(t, dir, tt.opts(t, dir)...)

			stdout, _, err := execute(t, tt.stdin, append([]string{"makehtml", "-q"}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stdout)
		})
	}
}

func TestMakeHTMLCommand_Append(t *testing.T) {
	dir := setupWorkspace(t)
	output := filepath.Join(dir, "out.html")
	require.NoError(t, os.WriteFile(output, []byte("<!-- head -->\n"), 0644))

	_, _, err := execute(t, "# Title\n", "makehtml", "-q", "--noHeaderId", "-o", output, "-a")
	require.NoError(t, err)

	got, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "<!-- head -->\n<h1>Title</h1>\n", string(got))
}

func TestMakeHTMLCommand_MissingExtension(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantStderr string
	}{
		{
			name:       "error is reported",
			args:       []string{"makehtml", "-e", "missing.go"},
			wantStderr: "ERROR: ",
		},
		{
			name: "mute",
			args: []string{"makehtml", "-e", "missing.go", "-m"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupWorkspace(t)
			stdout, stderr, err := execute(t, "# Title\n", tt.args...)
			require.Error(t, err)
			var reported *reportedError
			assert.ErrorAs(t, err, &reported)
			assert.Empty(t, stdout)
			if tt.wantStderr == "" {
				assert.Empty(t, stderr)
			} else {
				assert.Contains(t, stderr, tt.wantStderr)
				assert.Contains(t, stderr, "missing.go")
			}
		})
	}
}

func TestMakeMarkdownCommand(t *testing.T) {
	setupWorkspace(t)
	stdout, _, err := execute(t, "<h1>Title</h1><p>Hello <strong>world</strong></p>", "makemarkdown", "-q")
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\nHello **world**\n", stdout)
}

func TestUnescapeMDCommand(t *testing.T) {
	setupWorkspace(t)
	stdout, _, err := execute(t, "run `a &pipe; b &amp;&amp; c`", "unescapemd", "-q")
	require.NoError(t, err)
	assert.Equal(t, "run `a | b && c`", stdout)
}

type testMarkdownFactory struct{}

func (testMarkdownFactory) NewMarkdownConverter() (server.MarkdownConverter, error) {
	return markdown.NewConverter(markdown.Options{markdown.OptionNoHeaderID: true})
}

func TestConversionCommands_Server(t *testing.T) {
	setupWorkspace(t)
	olxConverter, err := olx.NewConverter()
	require.NoError(t, err)

	var calls atomic.Int32
	mux := http.NewServeMux()
	server.NewConversionHandler(olxConverter, testMarkdownFactory{}).Register(mux)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		mux.ServeHTTP(w, r)
	}))
	defer ts.Close()

	source := ">>Pick one<<\n(x) A\n( ) B\n"
	wantOLX, err := olx.MarkdownToOLX(source)
	require.NoError(t, err)

	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{
			name:  "makeolx",
			stdin: source,
			args:  []string{"makeolx", "-q", "--server", ts.URL},
			want:  wantOLX,
		},
		{
			name:  "makehtml",
			stdin: "# Title\n",
			args:  []string{"makehtml", "-q", "--server", ts.URL},
			want:  "<h1>Title</h1>\n",
		},
		{
			name:  "unescapemd",
			stdin: "`a &lt; b`",
			args:  []string{"unescapemd", "-q", "--server", ts.URL},
			want:  "`a < b`",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := calls.Load()
			stdout, _, err := execute(t, tt.stdin, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stdout)
			assert.Equal(t, before+1, calls.Load())
		})
	}
}

func TestConversionCommands_ConfiguredServer(t *testing.T) {
	olxConverter, err := olx.NewConverter()
	require.NoError(t, err)
	mux := http.NewServeMux()
	server.NewConversionHandler(olxConverter, testMarkdownFactory{}).Register(mux)
	ts := httptest.NewServer(mux)
	defer ts.Close()

	tests := []struct {
		name  string
		setup func(t *testing.T, dir string)
	}{
		{
			name: "environment variable",
			setup: func(t *testing.T, dir string) {
				t.Setenv("OLXMARK_SERVER_URL", ts.URL)
			},
		},
		{
			name: "config file",
			setup: func(t *testing.T, dir string) {
				testutil.SetupTestConfig(t, dir, testutil.WithServerURL(ts.URL))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := setupWorkspace(t)
			tt.setup(t, dir)

			stdout, stderr, err := execute(t, "# Title\n", "makehtml")
			require.NoError(t, err)
			assert.Equal(t, "<h1>Title</h1>\n", stdout)
			assert.Contains(t, stderr, "Using conversion service at "+ts.URL)
		})
	}
}

func TestInspectCommand(t *testing.T) {
	setupWorkspace(t)
	source := ">>Which is a fruit?<<\n(x) Apple\n( ) Carrot\n---\n>>How many legs?<<\n= 4 +- 1\n---\n|| Count them ||\n"
	problem, err := olx.MarkdownToOLX(source)
	require.NoError(t, err)

	stdout, _, err := execute(t, problem, "inspect")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, []string{"TYPE", "LABEL", "ANSWER", "CHOICES"}, strings.Fields(lines[0]))
	assert.Contains(t, lines[1], "multiplechoiceresponse")
	assert.Contains(t, lines[1], "Which is a fruit?")
	assert.Contains(t, lines[1], "Apple")
	assert.NotContains(t, lines[1], "Carrot")
	assert.Contains(t, lines[2], "numericalresponse")
	assert.Contains(t, lines[2], "4 +- 1")
	assert.Equal(t, "Demand hints: 1", lines[3])
}

func TestInspectCommand_InvalidOLX(t *testing.T) {
	setupWorkspace(t)
	_, _, err := execute(t, "<problem>", "inspect")
	assert.Error(t, err)
}

func TestMakePDFCommand(t *testing.T) {
	tests := []struct {
		name     string
		stdin    string
		args     func(dir string) []string
		wantPath func(dir string) string
		wantErr  bool
	}{
		{
			name: "pdf next to the input",
			args: func(dir string) []string {
				return []string{"makepdf", "-i", filepath.Join(dir, "quiz.md")}
			},
			wantPath: func(dir string) string { return filepath.Join(dir, "quiz.pdf") },
		},
		{
			name:  "stdin with an output",
			stdin: "# Quiz\n",
			args: func(dir string) []string {
				return []string{"makepdf", "-o", filepath.Join(dir, "out.pdf")}
			},
			wantPath: func(dir string) string { return filepath.Join(dir, "out.pdf") },
		},
		{
			name:    "stdin without an output",
			stdin:   "# Quiz\n",
			args:    func(dir string) []string { return []string{"makepdf", "-m"} },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := setupWorkspace(t)
			require.NoError(t, os.WriteFile(filepath.Join(dir, "quiz.md"), []byte("# Quiz\n\nWhat is 1+1?\n"), 0644))

			stdout, _, err := execute(t, tt.stdin, tt.args(dir)...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, stdout, "PDF written to "+tt.wantPath(dir))
			_, err = os.Stat(tt.wantPath(dir))
			assert.NoError(t, err)
		})
	}
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, assert.AnError)
	assert.Equal(t, "failed to execute a command: "+assert.AnError.Error()+"\n", buf.String())
}

func TestMakeHTMLCommand_InputFormat(t *testing.T) {
	setupWorkspace(t)

	stdout, _, err := execute(t, "* Title\nSome /emphasis/ here.\n", "makehtml", "-q", "--input-format", "org")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Title")
	assert.Contains(t, stdout, "<em>emphasis</em>")
	assert.NotContains(t, stdout, "* Title")

	_, _, err = execute(t, "", "makehtml", "--input-format", "rst")
	assert.ErrorContains(t, err, `invalid value "rst"`)
}
