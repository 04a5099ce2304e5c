package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:                  6222,
			Flavor:                "github",
			CORS:                  CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
			RequestTimeoutSeconds: 30,
		},
		Markdown: MarkdownConfig{
			Flavor: "vanilla",
		},
		OLX: OLXConfig{
			Locale: "en",
		},
		Client: ClientConfig{
			TimeoutSeconds:   30,
			MaxRetryAttempts: 5,
		},
	}
}

func TestLoad(t *testing.T) {
	tempDir := t.TempDir()
	extensionPath := filepath.Join(tempDir, "ext.go")
	require.NoError(t, os.WriteFile(extensionPath, []byte("package main\n"), 0644))
	textPath := filepath.Join(tempDir, "ext.txt")
	require.NoError(t, os.WriteFile(textPath, []byte("package main\n"), 0644))
	flavorFile := filepath.Join(tempDir, "flavors.yml")
	require.NoError(t, os.WriteFile(flavorFile, []byte("course:\n  tables: true\n"), 0644))

	tests := []struct {
		name              string
		configContent     string
		useExplicitPath   bool
		env               map[string]string
		wantErr           bool
		want              func() *Config
		wantErrorContains []string
	}{
		{
			name:    "no config file uses defaults",
			want:    defaultConfig,
			wantErr: false,
		},
		{
			name: "valid config file with custom values",
			configContent: `server:
  port: 8080
  flavor: ghost
  request_timeout_seconds: 5
  cors:
    allowed_origins:
      - https://studio.example.com
markdown:
  flavor: github
  extensions:
    - ` + extensionPath + `
  options:
    tables: true
olx:
  locale: fr
  metadata: true
client:
  base_url: http://localhost:6222
  timeout_seconds: 10
  max_retry_attempts: 3
`,
			want: func() *Config {
				return &Config{
					Server: ServerConfig{
						Port:                  8080,
						Flavor:                "ghost",
						CORS:                  CORSConfig{AllowedOrigins: []string{"https://studio.example.com"}},
						RequestTimeoutSeconds: 5,
					},
					Markdown: MarkdownConfig{
						Flavor:     "github",
						Extensions: []string{extensionPath},
						Options:    map[string]any{"tables": true},
					},
					OLX: OLXConfig{
						Locale:   "fr",
						Metadata: true,
					},
					Client: ClientConfig{
						BaseURL:          "http://localhost:6222",
						TimeoutSeconds:   10,
						MaxRetryAttempts: 3,
					},
				}
			},
		},
		{
			name: "invalid YAML format",
			configContent: `server:
  port: 8080
  invalid yaml format here [[[
`,
			wantErr: true,
			wantErrorContains: []string{
				"configuration file found but could not be read",
				"Please check the file format and permissions",
			},
		},
		{
			name: "invalid config structure uses defaults",
			configContent: `wrong_key:
  some_value: test
`,
			want: defaultConfig,
		},
		{
			name: "partial config with missing fields uses defaults",
			configContent: `olx:
  locale: ja
`,
			want: func() *Config {
				cfg := defaultConfig()
				cfg.OLX.Locale = "ja"
				return cfg
			},
		},
		{
			name: "explicit config file path",
			configContent: `markdown:
  flavor: allOn
`,
			useExplicitPath: true,
			want: func() *Config {
				cfg := defaultConfig()
				cfg.Markdown.Flavor = "allOn"
				return cfg
			},
		},
		{
			name: "environment variables",
			env: map[string]string{
				"OLXMARK_SERVER_URL": "http://converter:6222",
				"OLXMARK_LOCALE":     "de",
				"PORT":               "9000",
			},
			want: func() *Config {
				cfg := defaultConfig()
				cfg.Client.BaseURL = "http://converter:6222"
				cfg.OLX.Locale = "de"
				cfg.Server.Port = 9000
				return cfg
			},
		},
		{
			name: "missing extension file",
			configContent: `markdown:
  extensions:
    - /non/existent/ext.go
`,
			wantErr:           true,
			wantErrorContains: []string{"invalid configuration", "markdown.extensions[0] must be a readable .go source file"},
		},
		{
			name: "extension that is not a go source",
			configContent: `markdown:
  extensions:
    - ` + textPath + `
`,
			wantErr:           true,
			wantErrorContains: []string{"markdown.extensions[0] must be a readable .go source file"},
		},
		{
			name: "unknown markdown flavor",
			configContent: `markdown:
  flavor: course
`,
			wantErr:           true,
			wantErrorContains: []string{"markdown.flavor must name a flavor of the presets or of markdown.flavor_file"},
		},
		{
			name: "unknown server flavor",
			configContent: `server:
  flavor: gitlab
`,
			wantErr:           true,
			wantErrorContains: []string{"server.flavor must name a flavor"},
		},
		{
			name: "flavor of the flavor file",
			configContent: `markdown:
  flavor: course
  flavor_file: ` + flavorFile + `
`,
			want: func() *Config {
				cfg := defaultConfig()
				cfg.Markdown.Flavor = "course"
				cfg.Markdown.FlavorFile = flavorFile
				return cfg
			},
		},
		{
			name: "missing document template",
			configContent: `markdown:
  document_template: /non/existent/page.tmpl
`,
			wantErr:           true,
			wantErrorContains: []string{"markdown.document_template must be an existing and readable file"},
		},
		{
			name: "unsupported locale",
			configContent: `olx:
  locale: xx
`,
			wantErr:           true,
			wantErrorContains: []string{"invalid configuration", "locale"},
		},
		{
			name: "port out of range",
			configContent: `server:
  port: 70000
`,
			wantErr:           true,
			wantErrorContains: []string{"invalid configuration", "port"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.env {
				t.Setenv(key, value)
			}
			testDir := t.TempDir()

			var configPath string
			if tt.useExplicitPath {
				configPath = filepath.Join(testDir, "olxmark.yml")
				err := os.WriteFile(configPath, []byte(tt.configContent), 0644)
				require.NoError(t, err)
			} else {
				if tt.configContent != "" {
					err := os.WriteFile(filepath.Join(testDir, "config.yaml"), []byte(tt.configContent), 0644)
					require.NoError(t, err)
				}
				t.Chdir(testDir)
			}

			got, err := Load(configPath)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
				for _, wantMsg := range tt.wantErrorContains {
					assert.Contains(t, err.Error(), wantMsg)
				}
				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want(), got)
		})
	}
}

func TestLoad_UnreadableExtension(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read files without read permission")
	}
	dir := t.TempDir()
	extensionPath := filepath.Join(dir, "secret.go")
	require.NoError(t, os.WriteFile(extensionPath, []byte("package main\n"), 0o200))
	configPath := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("markdown:\n  extensions:\n    - "+extensionPath+"\n"), 0644))

	_, err := Load(configPath)
	assert.ErrorContains(t, err, "markdown.extensions[0] must be a readable .go source file")
}
