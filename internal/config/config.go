// Package config loads the run configuration.
//
// Sources are applied lowest precedence first: built-in defaults, the TOML
// file, a .env file, the process environment. Command-line flags are
// applied last by the CLI.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dinjou/inconfluential/internal/core/domain"
)

// Git backends.
const (
	BackendCLI   = "cli"
	BackendGoGit = "go-git"
)

// Defaults.
const (
	DefaultConfigFile        = "inconfluential.toml"
	DefaultEnvFile           = ".env"
	DefaultLogFile           = "inconfluential.log"
	DefaultBatchSize         = 100
	DefaultMaxRetries        = 5
	DefaultRequestsPerSecond = 5.0
	DefaultTimeout           = 30 * time.Second
)

// Config is the complete run configuration.
type Config struct {
	// Instance is the Confluence site URL.
	Instance string
	Username string
	APIKey   string

	// Token is a personal access token used instead of Username/APIKey.
	Token string

	Spaces []string

	// OutputDir is the root of the mirror and of its git repository.
	OutputDir string

	BatchSize         int
	MaxRetries        int
	RequestsPerSecond float64
	Timeout           time.Duration

	LogFile string
	Verbose bool

	GitBackend  string
	AuthorName  string
	AuthorEmail string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BatchSize:         DefaultBatchSize,
		MaxRetries:        DefaultMaxRetries,
		RequestsPerSecond: DefaultRequestsPerSecond,
		Timeout:           DefaultTimeout,
		LogFile:           DefaultLogFile,
		GitBackend:        BackendCLI,
	}
}

// HasCredentials reports whether basic or token credentials are complete.
func (c Config) HasCredentials() bool {
	return c.Token != "" || (c.Username != "" && c.APIKey != "")
}

// Validate reports every problem at once. The error wraps
// domain.ErrInvalidConfig.
func (c Config) Validate() error {
	var errs []error
	if c.Instance == "" {
		errs = append(errs, errors.New("confluence instance is not set (CONFLUENCE_INSTANCE)"))
	}
	if !c.HasCredentials() {
		errs = append(errs, errors.New("credentials are not set (CONFLUENCE_USERNAME and CONFLUENCE_API_KEY, or CONFLUENCE_TOKEN)"))
	}
	if len(c.Spaces) == 0 {
		errs = append(errs, errors.New("no space keys are set (CONFLUENCE_SPACE)"))
	}
	if c.OutputDir == "" {
		errs = append(errs, errors.New("export destination is not set (EXPORT_DESTINATION)"))
	}
	if c.BatchSize < 1 {
		errs = append(errs, fmt.Errorf("batch size must be at least 1, got %d", c.BatchSize))
	}
	if c.MaxRetries < 1 {
		errs = append(errs, fmt.Errorf("max retries must be at least 1, got %d", c.MaxRetries))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}
	switch c.GitBackend {
	case BackendCLI, BackendGoGit:
	default:
		errs = append(errs, fmt.Errorf("unknown git backend %q (want %q or %q)", c.GitBackend, BackendCLI, BackendGoGit))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// Describe renders the configuration for the log with secrets masked.
func (c Config) Describe() []string {
	return []string{
		"CONFLUENCE_USERNAME=" + c.Username,
		"CONFLUENCE_API_KEY=" + mask(c.APIKey),
		"CONFLUENCE_TOKEN=" + mask(c.Token),
		fmt.Sprintf("CONFLUENCE_SPACE=%v", c.Spaces),
		"CONFLUENCE_INSTANCE=" + c.Instance,
		"EXPORT_DESTINATION=" + c.OutputDir,
		fmt.Sprintf("Pages per Batch: %d", c.BatchSize),
		fmt.Sprintf("Max Retries: %d", c.MaxRetries),
		fmt.Sprintf("Requests per Second: %g", c.RequestsPerSecond),
		"Git Backend: " + c.GitBackend,
	}
}

func mask(secret string) string {
	if secret == "" {
		return "Not Set"
	}
	return "***"
}

// ParseSpaces splits a comma-separated list of space keys.
func ParseSpaces(s string) []string {
	var keys []string
	for _, part := range strings.Split(s, ",") {
		if key := strings.TrimSpace(part); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}
