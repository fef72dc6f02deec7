package config

// ServiceConfig is the configuration lifecycle every section follows.
type ServiceConfig interface {
	// ApplyDefaults fills zero values with defaults.
	ApplyDefaults()

	// ResolvePaths resolves relative paths against baseDir.
	ResolvePaths(baseDir string)

	// Validate returns an error if the configuration is invalid.
	Validate() error
}

// ApplyServiceConfigs runs ApplyDefaults, ResolvePaths and Validate on each
// config in order and stops at the first validation error.
func ApplyServiceConfigs(baseDir string, configs ...ServiceConfig) error {
	for _, cfg := range configs {
		cfg.ApplyDefaults()
		cfg.ResolvePaths(baseDir)
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	return nil
}
