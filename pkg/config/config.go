// Package config provides configuration loading and management for the
// denoising tool. It handles loading configuration from YAML files and
// provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Processing parameters
	Processing struct {
		// Intensity is the default noise-intensity scalar in (0, 1]
		Intensity float64 `yaml:"intensity"`

		// NumWorkers specifies how many worker goroutines to use
		NumWorkers int `yaml:"numWorkers"`

		// AutoIntensity enables estimating the intensity from the input
		// image instead of using the configured value
		AutoIntensity bool `yaml:"autoIntensity"`
	} `yaml:"processing"`

	// Preview parameters
	Preview struct {
		// Enabled controls whether a downscaled preview is generated
		Enabled bool `yaml:"enabled"`

		// MaxDimension bounds the long edge of the preview in pixels
		MaxDimension int `yaml:"maxDimension"`
	} `yaml:"preview"`

	// Output parameters
	Output struct {
		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Processing.Intensity = 0.3
	cfg.Processing.NumWorkers = runtime.NumCPU()
	cfg.Processing.AutoIntensity = false

	cfg.Preview.Enabled = true
	cfg.Preview.MaxDimension = 4000

	cfg.Output.Verbose = true

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
