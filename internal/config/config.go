// Package config handles baking configuration loading and management.
package config

// Config holds all baking settings.
type Config struct {
	Sampling SamplingConfig `yaml:"sampling"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// SamplingConfig holds surface sampling settings.
type SamplingConfig struct {
	NumSamples            int `yaml:"num_samples"`              // target total sample count
	MinSamplesPerTriangle int `yaml:"min_samples_per_triangle"` // floor placed on every triangle
	Workers               int `yaml:"workers"`                  // 0 means one per CPU
}

// OutputConfig holds sample dump settings.
type OutputConfig struct {
	SamplesFile string `yaml:"samples_file"` // optional PLY point-cloud dump path
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Sampling: SamplingConfig{
			NumSamples:            100000,
			MinSamplesPerTriangle: 3,
			Workers:               0,
		},
		Output: OutputConfig{
			SamplesFile: "",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
