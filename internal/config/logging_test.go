package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLoggingConfig(t *testing.T) {
	cfg := DefaultLoggingConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "warn", cfg.Console.Level)
	assert.Equal(t, "stderr", cfg.Console.Output)
	assert.True(t, cfg.File.Enabled)
	assert.True(t, cfg.Rotation.Compress)
	assert.NoError(t, cfg.Validate())
}

func TestLoggingConfig_ApplyDefaults(t *testing.T) {
	cfg := LoggingConfig{Level: "debug", Format: "json"}
	cfg.ApplyDefaults()

	assert.Equal(t, "logs", cfg.Dir)
	assert.Equal(t, 100, cfg.Rotation.MaxSize)
	assert.Equal(t, 10, cfg.Rotation.MaxBackups)
	assert.Equal(t, 30, cfg.Rotation.MaxAge)
	assert.False(t, cfg.Rotation.Compress)
	assert.Equal(t, "debug", cfg.Console.Level)
	assert.Equal(t, "json", cfg.Console.Format)
	assert.Equal(t, "stderr", cfg.Console.Output)
	assert.Equal(t, "debug", cfg.File.Level)
	assert.Equal(t, "json", cfg.File.Format)
}

func TestLoggingConfig_ApplyDefaults_KeepsOverrides(t *testing.T) {
	cfg := LoggingConfig{
		Console: ConsoleConfig{Level: "error", Output: "stdout"},
		File:    FileConfig{Format: "json"},
	}
	cfg.ApplyDefaults()

	assert.Equal(t, "error", cfg.Console.Level)
	assert.Equal(t, "stdout", cfg.Console.Output)
	assert.Equal(t, "info", cfg.File.Level)
	assert.Equal(t, "json", cfg.File.Format)
}

func TestLoggingConfig_ResolvePaths(t *testing.T) {
	base := filepath.Join("/srv", "salesgrid")

	cfg := LoggingConfig{Dir: "logs"}
	cfg.ResolvePaths(base)
	assert.Equal(t, filepath.Join(base, "logs"), cfg.Dir)

	cfg = LoggingConfig{Dir: "../shared/logs"}
	cfg.ResolvePaths(base)
	assert.Equal(t, filepath.Join("/srv", "shared", "logs"), cfg.Dir)

	abs := filepath.Join("/var", "log", "salesgrid")
	cfg = LoggingConfig{Dir: abs}
	cfg.ResolvePaths(base)
	assert.Equal(t, abs, cfg.Dir)
}

func TestLoggingConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*LoggingConfig)
		wantErr string
	}{
		{"valid", func(*LoggingConfig) {}, ""},
		{"level", func(c *LoggingConfig) { c.Level = "verbose" }, "invalid log level"},
		{"format", func(c *LoggingConfig) { c.Format = "xml" }, "invalid log format"},
		{"dir", func(c *LoggingConfig) { c.Dir = "" }, "log directory"},
		{"console level", func(c *LoggingConfig) { c.Console.Level = "trace" }, "invalid console log level"},
		{"console format", func(c *LoggingConfig) { c.Console.Format = "xml" }, "invalid console log format"},
		{"console output", func(c *LoggingConfig) { c.Console.Output = "syslog" }, "invalid console output"},
		{"disabled console ignored", func(c *LoggingConfig) {
			c.Console.Enabled = false
			c.Console.Output = "syslog"
		}, ""},
		{"file level", func(c *LoggingConfig) { c.File.Level = "trace" }, "invalid file log level"},
		{"file format", func(c *LoggingConfig) { c.File.Format = "xml" }, "invalid file log format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultLoggingConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}
