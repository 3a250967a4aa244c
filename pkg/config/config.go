// Package config provides configuration loading and management for sinogeom.
// It handles loading geometry builder options from YAML files and provides
// default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"sinogeom/pkg/sinogeom"
)

// Config represents a geometry description loaded from YAML
type Config struct {
	// Variant selects the beam geometry or scanner preset to build:
	// parallel, fan, mojette, ge1, or hd1
	Variant string `yaml:"variant"`

	// Geometry holds the acquisition parameters passed to the builder
	Geometry struct {
		// Units is the descriptive physical unit tag for length fields
		Units string `yaml:"units"`

		// NB is the number of radial samples per view
		NB int `yaml:"nb"`

		// NA is the number of angular views (0 derives it from nb)
		NA int `yaml:"na"`

		// D is the radial sample spacing
		D float64 `yaml:"d"`

		// Orbit is the total angular coverage in degrees
		Orbit float64 `yaml:"orbit"`

		// OrbitShort requests a fan-beam short-scan orbit
		OrbitShort bool `yaml:"orbitShort"`

		// OrbitStart is the angle of the first view in degrees
		OrbitStart float64 `yaml:"orbitStart"`

		// Offset is the sub-sample detector centering offset
		Offset float64 `yaml:"offset"`

		// StripWidth is the detector-element width (0 defaults to d)
		StripWidth float64 `yaml:"stripWidth"`

		// SourceOffset is the lateral source/detector offset (fan only)
		SourceOffset float64 `yaml:"sourceOffset"`

		// DSD is the source-to-detector distance (fan only)
		DSD float64 `yaml:"dsd"`

		// DOD is the isocenter-to-detector distance (fan only)
		DOD float64 `yaml:"dod"`

		// FlatDetector selects a flat detector instead of the default arc
		FlatDetector bool `yaml:"flatDetector"`

		// Down is an optional downsampling factor applied after building
		Down int `yaml:"down"`
	} `yaml:"geometry"`

	// Output parameters
	Output struct {
		// Properties lists derived quantities to report after building
		Properties []string `yaml:"properties"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Build a parallel-beam geometry with the library defaults
	cfg.Variant = "parallel"
	cfg.Geometry.NB = 128
	cfg.Geometry.D = 1.0

	// Report the common overview quantities
	cfg.Output.Properties = []string{"dim", "rfov"}
	cfg.Output.Verbose = true

	return cfg
}

// Options converts the geometry section into builder options for
// sinogeom.MakeGeometry
func (c *Config) Options() sinogeom.Options {
	g := c.Geometry
	return sinogeom.Options{
		Units:        g.Units,
		NB:           g.NB,
		NA:           g.NA,
		D:            g.D,
		Orbit:        g.Orbit,
		OrbitShort:   g.OrbitShort,
		OrbitStart:   g.OrbitStart,
		Offset:       g.Offset,
		StripWidth:   g.StripWidth,
		SourceOffset: g.SourceOffset,
		DSD:          g.DSD,
		DOD:          g.DOD,
		FlatDetector: g.FlatDetector,
		Down:         g.Down,
	}
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
