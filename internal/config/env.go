package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/dinjou/inconfluential/internal/core/domain"
)

// Environment variable names.
const (
	EnvInstance    = "CONFLUENCE_INSTANCE"
	EnvUsername    = "CONFLUENCE_USERNAME"
	EnvAPIKey      = "CONFLUENCE_API_KEY"
	EnvToken       = "CONFLUENCE_TOKEN"
	EnvSpace       = "CONFLUENCE_SPACE"
	EnvDestination = "EXPORT_DESTINATION"
	EnvBatchSize   = "INCONFLUENTIAL_BATCH_SIZE"
	EnvMaxRetries  = "INCONFLUENTIAL_MAX_RETRIES"
	EnvGitBackend  = "INCONFLUENTIAL_GIT_BACKEND"
	EnvLogFile     = "INCONFLUENTIAL_LOG_FILE"
)

// environment resolves variables from the process first and the .env
// file second, matching godotenv.Load, which never overrides variables
// that are already set.
type environment struct {
	getenv func(string) string
	dotenv map[string]string
}

func loadEnvironment(getenv func(string) string, envFile string) (environment, error) {
	env := environment{getenv: getenv, dotenv: map[string]string{}}
	if envFile == "" {
		return env, nil
	}
	values, err := godotenv.Read(envFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return env, nil
		}
		return env, fmt.Errorf("%w: read %s: %v", domain.ErrInvalidConfig, envFile, err)
	}
	env.dotenv = values
	return env, nil
}

func (e environment) get(key string) string {
	if v := e.getenv(key); v != "" {
		return v
	}
	return e.dotenv[key]
}

// applyEnv overrides cfg with every variable that is set.
func applyEnv(cfg *Config, env environment) error {
	strs := []struct {
		key string
		dst *string
	}{
		{EnvInstance, &cfg.Instance},
		{EnvUsername, &cfg.Username},
		{EnvAPIKey, &cfg.APIKey},
		{EnvToken, &cfg.Token},
		{EnvDestination, &cfg.OutputDir},
		{EnvGitBackend, &cfg.GitBackend},
		{EnvLogFile, &cfg.LogFile},
	}
	for _, s := range strs {
		if v := env.get(s.key); v != "" {
			*s.dst = v
		}
	}

	if v := env.get(EnvSpace); v != "" {
		cfg.Spaces = ParseSpaces(v)
	}

	ints := []struct {
		key string
		dst *int
	}{
		{EnvBatchSize, &cfg.BatchSize},
		{EnvMaxRetries, &cfg.MaxRetries},
	}
	var errs []error
	for _, s := range ints {
		raw := env.get(s.key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s=%q is not an integer", s.key, raw))
			continue
		}
		*s.dst = n
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
