package transform

import (
	"fmt"
)

// Config holds table presentation settings.
type Config struct {
	DefaultLimit    int `yaml:"default_limit" env:"DEFAULT_LIMIT" validate:"gte=1"`
	MaxVisiblePages int `yaml:"max_visible_pages" env:"MAX_VISIBLE_PAGES" validate:"gte=1"`
}

// DefaultConfig returns the table defaults: ten rows, five page buttons.
func DefaultConfig() Config {
	return Config{
		DefaultLimit:    10,
		MaxVisiblePages: 5,
	}
}

// ApplyDefaults fills in zero values with defaults.
func (c *Config) ApplyDefaults() {
	defaults := DefaultConfig()
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = defaults.DefaultLimit
	}
	if c.MaxVisiblePages <= 0 {
		c.MaxVisiblePages = defaults.MaxVisiblePages
	}
}

// ResolvePaths is a no-op; the table config has no paths.
func (c *Config) ResolvePaths(string) {}

// Validate returns an error if the configuration is invalid.
func (c *Config) Validate() error {
	if c.DefaultLimit < 1 {
		return fmt.Errorf("table.default_limit must be at least 1, got %d", c.DefaultLimit)
	}
	if c.MaxVisiblePages < 1 {
		return fmt.Errorf("table.max_visible_pages must be at least 1, got %d", c.MaxVisiblePages)
	}
	return nil
}
