package data

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Mode selects where records are resolved.
type Mode string

const (
	// ModeRemote delegates filtering, sorting and pagination to the records endpoint.
	ModeRemote Mode = "remote"
	// ModeLocal executes queries over a dataset file.
	ModeLocal Mode = "local"
)

// Config configures the data access layer.
type Config struct {
	Mode        Mode          `yaml:"mode" env:"MODE" validate:"oneof=remote local"`
	BaseURL     string        `yaml:"base_url" env:"BASE_URL"`
	DatasetPath string        `yaml:"dataset_path" env:"DATASET_PATH"`
	Timeout     time.Duration `yaml:"timeout" env:"TIMEOUT"`
	CacheSize   int           `yaml:"cache_size" env:"CACHE_SIZE" validate:"gte=1"`
}

// DefaultConfig returns the default data access configuration.
func DefaultConfig() Config {
	return Config{
		Mode:        ModeRemote,
		BaseURL:     "http://localhost:8080",
		DatasetPath: "data/dataset.json",
		Timeout:     10 * time.Second,
		CacheSize:   1,
	}
}

// ApplyDefaults fills in zero values with defaults.
func (c *Config) ApplyDefaults() {
	defaults := DefaultConfig()
	if c.Mode == "" {
		c.Mode = defaults.Mode
	}
	if c.BaseURL == "" {
		c.BaseURL = defaults.BaseURL
	}
	if c.DatasetPath == "" {
		c.DatasetPath = defaults.DatasetPath
	}
	if c.Timeout == 0 {
		c.Timeout = defaults.Timeout
	}
	if c.CacheSize == 0 {
		c.CacheSize = defaults.CacheSize
	}
}

// ResolvePaths resolves the dataset path against baseDir.
func (c *Config) ResolvePaths(baseDir string) {
	if c.DatasetPath != "" && !filepath.IsAbs(c.DatasetPath) {
		c.DatasetPath = filepath.Join(baseDir, c.DatasetPath)
	}
}

// Validate returns an error if the configuration is invalid.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeRemote:
		if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
			return fmt.Errorf("data.base_url must be an http(s) URL in remote mode, got %q", c.BaseURL)
		}
	case ModeLocal:
		if c.DatasetPath == "" {
			return fmt.Errorf("data.dataset_path is required in local mode")
		}
	default:
		return fmt.Errorf("data.mode must be remote or local, got %q", c.Mode)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("data.timeout must not be negative")
	}
	if c.CacheSize < 1 {
		return fmt.Errorf("data.cache_size must be at least 1, got %d", c.CacheSize)
	}
	return nil
}
