package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level    string         `yaml:"level" env:"LEVEL"`   // debug, info, warn, error
	Format   string         `yaml:"format" env:"FORMAT"` // text, json
	Dir      string         `yaml:"dir" env:"DIR"`
	Rotation RotationConfig `yaml:"rotation" envPrefix:"ROTATION_"`
	Console  ConsoleConfig  `yaml:"console" envPrefix:"CONSOLE_"`
	File     FileConfig     `yaml:"file" envPrefix:"FILE_"`
}

// RotationConfig holds log rotation settings.
type RotationConfig struct {
	MaxSize    int  `yaml:"max_size" env:"MAX_SIZE" validate:"gte=0"`       // MB
	MaxBackups int  `yaml:"max_backups" env:"MAX_BACKUPS" validate:"gte=0"` // files
	MaxAge     int  `yaml:"max_age" env:"MAX_AGE" validate:"gte=0"`         // days
	Compress   bool `yaml:"compress" env:"COMPRESS"`
}

// ConsoleConfig holds console output configuration.
type ConsoleConfig struct {
	Enabled bool   `yaml:"enabled" env:"ENABLED"`
	Level   string `yaml:"level" env:"LEVEL"`
	Format  string `yaml:"format" env:"FORMAT"`
	// Output is stderr or stdout. The interactive table owns stdout.
	Output string `yaml:"output" env:"OUTPUT"`
}

// FileConfig holds file output configuration.
type FileConfig struct {
	Enabled bool   `yaml:"enabled" env:"ENABLED"`
	Level   string `yaml:"level" env:"LEVEL"`
	Format  string `yaml:"format" env:"FORMAT"`
}

// DefaultLoggingConfig returns default logging configuration.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level:  "info",
		Format: "text",
		Dir:    "logs",
		Rotation: RotationConfig{
			MaxSize:    100,
			MaxBackups: 10,
			MaxAge:     30,
			Compress:   true,
		},
		Console: ConsoleConfig{
			Enabled: true,
			Level:   "warn",
			Format:  "text",
			Output:  "stderr",
		},
		File: FileConfig{
			Enabled: true,
			Level:   "info",
			Format:  "text",
		},
	}
}

// ApplyDefaults fills in missing values. Level and format fall through from
// the top-level settings to console and file.
func (c *LoggingConfig) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "text"
	}
	if c.Dir == "" {
		c.Dir = "logs"
	}

	if c.Rotation.MaxSize == 0 {
		c.Rotation.MaxSize = 100
	}
	if c.Rotation.MaxBackups == 0 {
		c.Rotation.MaxBackups = 10
	}
	if c.Rotation.MaxAge == 0 {
		c.Rotation.MaxAge = 30
	}
	// Compress stays as given; false cannot be told apart from unset.

	if c.Console.Level == "" {
		c.Console.Level = c.Level
	}
	if c.Console.Format == "" {
		c.Console.Format = c.Format
	}
	if c.Console.Output == "" {
		c.Console.Output = "stderr"
	}
	if c.File.Level == "" {
		c.File.Level = c.Level
	}
	if c.File.Format == "" {
		c.File.Format = c.Format
	}
}

// ResolvePaths resolves a relative log directory against baseDir.
func (c *LoggingConfig) ResolvePaths(baseDir string) {
	if c.Dir != "" && !filepath.IsAbs(c.Dir) {
		c.Dir = filepath.Clean(filepath.Join(baseDir, c.Dir))
	}
}

var (
	validLevels  = []string{"debug", "info", "warn", "error"}
	validFormats = []string{"text", "json"}
)

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// Validate validates the configuration.
func (c *LoggingConfig) Validate() error {
	if !oneOf(c.Level, validLevels) {
		return fmt.Errorf("invalid log level: %s (must be %s)", c.Level, strings.Join(validLevels, ", "))
	}
	if !oneOf(c.Format, validFormats) {
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.Format)
	}
	if c.Dir == "" {
		return fmt.Errorf("log directory cannot be empty")
	}

	if c.Console.Enabled {
		if !oneOf(c.Console.Level, validLevels) {
			return fmt.Errorf("invalid console log level: %s", c.Console.Level)
		}
		if !oneOf(c.Console.Format, validFormats) {
			return fmt.Errorf("invalid console log format: %s", c.Console.Format)
		}
		if c.Console.Output != "stderr" && c.Console.Output != "stdout" {
			return fmt.Errorf("invalid console output: %s (must be stderr or stdout)", c.Console.Output)
		}
	}

	if c.File.Enabled {
		if !oneOf(c.File.Level, validLevels) {
			return fmt.Errorf("invalid file log level: %s", c.File.Level)
		}
		if !oneOf(c.File.Format, validFormats) {
			return fmt.Errorf("invalid file log format: %s", c.File.Format)
		}
	}
	return nil
}
