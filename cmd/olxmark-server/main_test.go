package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/olxmark/internal/config"
	"github.com/at-ishikawa/olxmark/internal/olx"
	"github.com/at-ishikawa/olxmark/internal/testutil"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Port = 6222
	cfg.Server.Flavor = "github"
	cfg.Server.CORS.AllowedOrigins = []string{"http://localhost:3000"}
	cfg.Server.RequestTimeoutSeconds = 30
	cfg.Markdown.Flavor = "vanilla"
	cfg.OLX.Locale = "en"
	return cfg
}

func post(t *testing.T, url, content string) (int, map[string]any) {
	t.Helper()
	body, err := json.Marshal(map[string]string{"content": content})
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	return resp.StatusCode, got
}

func TestNewHandler(t *testing.T) {
	handler, err := newHandler(testConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	ts := httptest.NewServer(handler)
	defer ts.Close()

	markdownSource := "What is 2+2?\n\n= 4\n"
	wantOLX, err := olx.MarkdownToOLX(markdownSource)
	require.NoError(t, err)

	status, got := post(t, ts.URL+"/makeolx", markdownSource)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, wantOLX, got["content"])

	status, got = post(t, ts.URL+"/makehtml", "| a |\n| - |\n| 1 |\n")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, got["content"], "<table>")
}

func TestNewHandler_MissingExtension(t *testing.T) {
	cfg := testConfig()
	cfg.Markdown.Extensions = []string{filepath.Join(t.TempDir(), "missing.go")}

	handler, err := newHandler(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	ts := httptest.NewServer(handler)
	defer ts.Close()

	status, got := post(t, ts.URL+"/makehtml", "# Title\n")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "failed_precondition", got["code"])

	status, _ = post(t, ts.URL+"/makeolx", "What?\n\n= yes\n")
	assert.Equal(t, http.StatusOK, status)
}

func TestNewHandler_UnknownFlavor(t *testing.T) {
	cfg := testConfig()
	cfg.Server.Flavor = "nonexistent"

	_, err := newHandler(cfg, slog.Default())
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	dir := testutil.IsolateEnvironment(t)
	path := filepath.Join(dir, "server.yml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9000\n"), 0644))
	t.Setenv("OLXMARK_CONFIG", path)

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "github", cfg.Server.Flavor)
}
