package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/syntrixbase/salesgrid/internal/data"
	"github.com/syntrixbase/salesgrid/internal/server"
	"github.com/syntrixbase/salesgrid/internal/transform"
)

// EnvPrefix prefixes every environment override, e.g. SALESGRID_DATA_MODE.
const EnvPrefix = "SALESGRID_"

// DefaultDir is the config directory used when none is given.
const DefaultDir = "config"

// Config holds the application configuration.
type Config struct {
	Data    data.Config      `yaml:"data" envPrefix:"DATA_"`
	Table   transform.Config `yaml:"table" envPrefix:"TABLE_"`
	Server  server.Config    `yaml:"server" envPrefix:"SERVER_"`
	Logging LoggingConfig    `yaml:"logging" envPrefix:"LOGGING_"`
}

// Default returns the configuration used before any file or env override.
func Default() *Config {
	return &Config{
		Data:    data.DefaultConfig(),
		Table:   transform.DefaultConfig(),
		Server:  server.DefaultConfig(),
		Logging: DefaultLoggingConfig(),
	}
}

// Load reads configuration from configDir.
// Order: defaults -> config.yml -> config.local.yml -> ApplyDefaults -> env -> ResolvePaths -> Validate
//
// Relative paths resolve against the parent of configDir, so data/ and logs/
// end up next to config/, not inside it.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultDir
	}
	cfg := Default()

	for _, name := range []string{"config.yml", "config.local.yml"} {
		if err := loadFile(filepath.Join(configDir, name), cfg); err != nil {
			return nil, err
		}
	}

	sections := cfg.sections()
	for _, s := range sections {
		s.ApplyDefaults()
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := ApplyServiceConfigs(filepath.Dir(filepath.Clean(configDir)), sections...); err != nil {
		return nil, err
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

func (c *Config) sections() []ServiceConfig {
	return []ServiceConfig{&c.Data, &c.Table, &c.Server, &c.Logging}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// loadFile merges filename into cfg. A missing file is skipped; unreadable or
// malformed files are errors.
func loadFile(filename string, cfg *Config) error {
	content, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}

	if err := yaml.Unmarshal(content, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	slog.Debug("Loaded config file", "file", filename)
	return nil
}
