// Package config provides optional YAML configuration with environment
// variable expansion. A missing config file is not an error: the zero-value
// defaults apply.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the optional per-project configuration file.
const FileName = "skillgraph.yaml"

// EnvRoot overrides the configured roots with a single root path.
const EnvRoot = "SKILLGRAPH_ROOT"

// Config holds defaults the CLI applies when flags are absent.
type Config struct {
	Roots       []string `yaml:"roots"`
	ProjectRoot string   `yaml:"project_root"`
	Format      string   `yaml:"format"`
	Depth       int      `yaml:"depth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Format, validation.In("", "json", "toon")),
		validation.Field(&c.Depth, validation.Min(0)),
	)
}

// Load reads configuration for the given working directory. A .env file is
// applied first when present, then skillgraph.yaml with ${VAR} expansion,
// then the SKILLGRAPH_ROOT override.
func Load(dir string) (*Config, error) {
	_ = godotenv.Load(filepath.Join(dir, ".env"))

	cfg := &Config{}
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	switch {
	case err == nil:
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// defaults apply
	default:
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	if root := strings.TrimSpace(os.Getenv(EnvRoot)); root != "" {
		cfg.Roots = []string{root}
	}
	if cfg.Depth == 0 {
		cfg.Depth = 10
	}
	if cfg.Format == "" {
		cfg.Format = "json"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}
