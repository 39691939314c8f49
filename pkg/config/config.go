// Package config provides configuration loading and management for
// phantomgen. It handles loading configuration from YAML files and
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
	// Phantom parameters
	Phantom struct {
		// Mode selects the generator: ct2d, ct3d, mr, dynamic or kspace
		Mode string `yaml:"mode"`

		// Height, Width, Depth set the output dimensions; Depth is
		// ignored for 2D modes
		Height int `yaml:"height"`
		Width  int `yaml:"width"`
		Depth  int `yaml:"depth"`

		// Original selects the 1974 gray values instead of the
		// modified contrast set
		Original bool `yaml:"original"`

		// B0 is the field strength in Tesla for the MR phantom
		B0 float64 `yaml:"b0"`

		// T2Star returns T2* instead of T2 values for the MR phantom
		T2Star bool `yaml:"t2star"`

		// ZMin and ZMax bound the z sampling range of 3D phantoms
		ZMin float64 `yaml:"zmin"`
		ZMax float64 `yaml:"zmax"`

		// EllipseFile optionally points to a YAML table overriding
		// the builtin ellipse parameters
		EllipseFile string `yaml:"ellipseFile"`
	} `yaml:"phantom"`

	// Dynamic phantom parameters
	Dynamic struct {
		// Frames is the number of time points
		Frames int `yaml:"frames"`
	} `yaml:"dynamic"`

	// Kspace sampling parameters
	Kspace struct {
		// Spokes is the number of radial spokes
		Spokes int `yaml:"spokes"`

		// SamplesPerSpoke is the readout length of each spoke
		SamplesPerSpoke int `yaml:"samplesPerSpoke"`

		// Golden switches to golden-angle spoke ordering
		Golden bool `yaml:"golden"`
	} `yaml:"kspace"`

	// Output parameters
	Output struct {
		// Dir is the directory where results are written
		Dir string `yaml:"dir"`

		// NumWorkers specifies how many goroutines to use for
		// rasterization
		NumWorkers int `yaml:"numWorkers"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default phantom parameters
	cfg.Phantom.Mode = "ct2d"
	cfg.Phantom.Height = 256
	cfg.Phantom.Width = 256
	cfg.Phantom.Depth = 256
	cfg.Phantom.B0 = 3.0
	cfg.Phantom.ZMin = -1.0
	cfg.Phantom.ZMax = 1.0

	// Set default dynamic parameters
	cfg.Dynamic.Frames = 30

	// Set default kspace parameters
	cfg.Kspace.Spokes = 128
	cfg.Kspace.SamplesPerSpoke = 128

	// Set default output parameters
	cfg.Output.Dir = "phantom_output"
	cfg.Output.NumWorkers = runtime.NumCPU()
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

// CreateDefaultConfigFile creates a default configuration file at the
// specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
