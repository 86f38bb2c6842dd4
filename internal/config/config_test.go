package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinjou/inconfluential/internal/core/domain"
)

func env(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func validConfig() Config {
	cfg := Default()
	cfg.Instance = "https://example.atlassian.net"
	cfg.Username = "me@example.com"
	cfg.APIKey = "secret"
	cfg.Spaces = []string{"ENG"}
	cfg.OutputDir = "/tmp/wiki"
	return cfg
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, BackendCLI, cfg.GitBackend)
	assert.Equal(t, "inconfluential.log", cfg.LogFile)
}

func TestLoad_DefaultsOnly(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(LoadOptions{
		ConfigFile: "",
		EnvFile:    filepath.Join(dir, "missing.env"),
		Getenv:     env(nil),
	})
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ExplicitConfigMustExist(t *testing.T) {
	_, err := Load(LoadOptions{
		ConfigFile: filepath.Join(t.TempDir(), "nope.toml"),
		Getenv:     env(nil),
	})
	require.Error(t, err)
}

func TestLoad_TOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "inconfluential.toml", `
[confluence]
instance = "https://wiki.example.com"
username = "bot"
api_key = "k"
spaces = ["ENG", "OPS"]
requests_per_second = 2.5
timeout = "45s"

[export]
destination = "/srv/mirror"
batch_size = 25
max_retries = 3

[git]
backend = "go-git"
author_name = "Mirror"
author_email = "mirror@example.com"

[log]
file = "run.log"
verbose = true
`)

	cfg, err := Load(LoadOptions{
		ConfigFile: path,
		EnvFile:    filepath.Join(dir, "missing.env"),
		Getenv:     env(nil),
	})
	require.NoError(t, err)

	assert.Equal(t, "https://wiki.example.com", cfg.Instance)
	assert.Equal(t, "bot", cfg.Username)
	assert.Equal(t, "k", cfg.APIKey)
	assert.Equal(t, []string{"ENG", "OPS"}, cfg.Spaces)
	assert.InDelta(t, 2.5, cfg.RequestsPerSecond, 0.001)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.Equal(t, "/srv/mirror", cfg.OutputDir)
	assert.Equal(t, 25, cfg.BatchSize)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, BackendGoGit, cfg.GitBackend)
	assert.Equal(t, "Mirror", cfg.AuthorName)
	assert.Equal(t, "mirror@example.com", cfg.AuthorEmail)
	assert.Equal(t, "run.log", cfg.LogFile)
	assert.True(t, cfg.Verbose)
}

func TestLoad_TOMLPartialKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "c.toml", "[export]\nbatch_size = 10\n")

	cfg, err := Load(LoadOptions{ConfigFile: path, EnvFile: filepath.Join(dir, "x.env"), Getenv: env(nil)})
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.BatchSize)
	assert.Equal(t, DefaultMaxRetries, cfg.MaxRetries)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
}

func TestLoad_TOMLErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed", "[confluence\ninstance = 1"},
		{"bad timeout", "[confluence]\ntimeout = \"soon\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeFile(t, dir, "c.toml", tt.content)

			_, err := Load(LoadOptions{ConfigFile: path, EnvFile: filepath.Join(dir, "x.env"), Getenv: env(nil)})
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidConfig)
		})
	}
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "c.toml", `
[confluence]
instance = "https://from-toml"
username = "toml-user"

[export]
batch_size = 10
`)
	envFile := writeFile(t, dir, ".env", `
CONFLUENCE_INSTANCE=https://from-dotenv
CONFLUENCE_API_KEY=dotenv-key
CONFLUENCE_SPACE=ENG, OPS
`)

	cfg, err := Load(LoadOptions{
		ConfigFile: path,
		EnvFile:    envFile,
		Getenv: env(map[string]string{
			"CONFLUENCE_INSTANCE":       "https://from-env",
			"INCONFLUENTIAL_BATCH_SIZE": "50",
		}),
	})
	require.NoError(t, err)

	assert.Equal(t, "https://from-env", cfg.Instance)
	assert.Equal(t, "toml-user", cfg.Username)
	assert.Equal(t, "dotenv-key", cfg.APIKey)
	assert.Equal(t, []string{"ENG", "OPS"}, cfg.Spaces)
	assert.Equal(t, 50, cfg.BatchSize)
}

func TestLoad_BadIntegerEnv(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(LoadOptions{
		EnvFile: filepath.Join(dir, "x.env"),
		Getenv: env(map[string]string{
			"INCONFLUENTIAL_BATCH_SIZE":  "lots",
			"INCONFLUENTIAL_MAX_RETRIES": "few",
		}),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "INCONFLUENTIAL_BATCH_SIZE")
	assert.Contains(t, err.Error(), "INCONFLUENTIAL_MAX_RETRIES")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr []string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{
			name: "token instead of basic",
			mutate: func(c *Config) {
				c.Username, c.APIKey, c.Token = "", "", "pat"
			},
		},
		{
			name:    "missing instance",
			mutate:  func(c *Config) { c.Instance = "" },
			wantErr: []string{"CONFLUENCE_INSTANCE"},
		},
		{
			name:    "missing api key",
			mutate:  func(c *Config) { c.APIKey = "" },
			wantErr: []string{"credentials"},
		},
		{
			name: "collects every problem",
			mutate: func(c *Config) {
				c.Spaces = nil
				c.OutputDir = ""
				c.BatchSize = 0
				c.MaxRetries = 0
				c.GitBackend = "svn"
			},
			wantErr: []string{"CONFLUENCE_SPACE", "EXPORT_DESTINATION", "batch size", "max retries", "svn"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidConfig)
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestDescribe_MasksSecrets(t *testing.T) {
	cfg := validConfig()
	lines := strings.Join(cfg.Describe(), "\n")

	assert.Contains(t, lines, "CONFLUENCE_API_KEY=***")
	assert.Contains(t, lines, "CONFLUENCE_TOKEN=Not Set")
	assert.Contains(t, lines, "CONFLUENCE_USERNAME=me@example.com")
	assert.NotContains(t, lines, "secret")
}

func TestParseSpaces(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"ENG", []string{"ENG"}},
		{"ENG,OPS", []string{"ENG", "OPS"}},
		{" ENG , ,OPS ", []string{"ENG", "OPS"}},
		{"", nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseSpaces(tt.in), tt.in)
	}
}
