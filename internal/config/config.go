// Package config holds the scandiff configuration: output selection and
// logging settings, loadable from a YAML file with sensible defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Output formats supported by the renderers.
const (
	FormatText = "text"
	FormatXML  = "xml"
)

// Config represents the complete scandiff configuration.
type Config struct {
	// Output configuration
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// OutputConfig holds report output settings.
type OutputConfig struct {
	// Report format: "text" or "xml"
	Format string `yaml:"format" json:"format"`

	// Also report entities that haven't changed
	Verbose bool `yaml:"verbose" json:"verbose"`

	// Print a per-host change summary table to stderr
	Summary bool `yaml:"summary" json:"summary"`
}

// LoggingConfig holds logging-related settings.
type LoggingConfig struct {
	// Log level: debug, info, warn, error
	Level string `yaml:"level" json:"level"`

	// Log format: text or json
	Format string `yaml:"format" json:"format"`

	// Log output: stderr, stdout, or a file path
	Output string `yaml:"output" json:"output"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Format:  FormatText,
			Verbose: false,
			Summary: false,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
			Output: "stderr",
		},
	}
}

// Load loads configuration from a file. A missing file is not an error;
// defaults are returned.
func Load(path string) (*Config, error) {
	config := Default()

	if path == "" {
		return config, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Save saves configuration to a file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case FormatText, FormatXML:
	default:
		return fmt.Errorf("invalid output format: %q", c.Output.Format)
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log format: %q", c.Logging.Format)
	}

	return nil
}
