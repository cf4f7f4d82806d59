package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file.
// An empty path means defaults only.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks configuration values for consistency.
func (c *Config) Validate() error {
	if c.Sampling.NumSamples <= 0 {
		return fmt.Errorf("sampling.num_samples must be positive, got %d", c.Sampling.NumSamples)
	}
	if c.Sampling.MinSamplesPerTriangle < 0 {
		return fmt.Errorf("sampling.min_samples_per_triangle must be non-negative, got %d",
			c.Sampling.MinSamplesPerTriangle)
	}
	if c.Sampling.Workers < 0 {
		return fmt.Errorf("sampling.workers must be non-negative, got %d", c.Sampling.Workers)
	}
	return nil
}
