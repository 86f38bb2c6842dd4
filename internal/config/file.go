package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dinjou/inconfluential/internal/core/domain"
)

// fileConfig mirrors the TOML layout. Pointer fields distinguish "absent"
// from zero values so only keys present in the file override defaults.
type fileConfig struct {
	Confluence struct {
		Instance          *string  `toml:"instance"`
		Username          *string  `toml:"username"`
		APIKey            *string  `toml:"api_key"`
		Token             *string  `toml:"token"`
		Spaces            []string `toml:"spaces"`
		RequestsPerSecond *float64 `toml:"requests_per_second"`
		Timeout           *string  `toml:"timeout"`
	} `toml:"confluence"`

	Export struct {
		Destination *string `toml:"destination"`
		BatchSize   *int    `toml:"batch_size"`
		MaxRetries  *int    `toml:"max_retries"`
	} `toml:"export"`

	Git struct {
		Backend     *string `toml:"backend"`
		AuthorName  *string `toml:"author_name"`
		AuthorEmail *string `toml:"author_email"`
	} `toml:"git"`

	Log struct {
		File    *string `toml:"file"`
		Verbose *bool   `toml:"verbose"`
	} `toml:"log"`
}

// applyFile merges the TOML file at path into cfg. A missing file is not
// an error unless required is set.
func applyFile(cfg *Config, path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("%w: parse %s: %v", domain.ErrInvalidConfig, path, err)
	}

	setString(&cfg.Instance, fc.Confluence.Instance)
	setString(&cfg.Username, fc.Confluence.Username)
	setString(&cfg.APIKey, fc.Confluence.APIKey)
	setString(&cfg.Token, fc.Confluence.Token)
	if len(fc.Confluence.Spaces) > 0 {
		cfg.Spaces = fc.Confluence.Spaces
	}
	if v := fc.Confluence.RequestsPerSecond; v != nil {
		cfg.RequestsPerSecond = *v
	}
	if v := fc.Confluence.Timeout; v != nil {
		d, err := time.ParseDuration(*v)
		if err != nil {
			return fmt.Errorf("%w: confluence.timeout: %v", domain.ErrInvalidConfig, err)
		}
		cfg.Timeout = d
	}

	setString(&cfg.OutputDir, fc.Export.Destination)
	if v := fc.Export.BatchSize; v != nil {
		cfg.BatchSize = *v
	}
	if v := fc.Export.MaxRetries; v != nil {
		cfg.MaxRetries = *v
	}

	setString(&cfg.GitBackend, fc.Git.Backend)
	setString(&cfg.AuthorName, fc.Git.AuthorName)
	setString(&cfg.AuthorEmail, fc.Git.AuthorEmail)

	setString(&cfg.LogFile, fc.Log.File)
	if v := fc.Log.Verbose; v != nil {
		cfg.Verbose = *v
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
