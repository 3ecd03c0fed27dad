// Package config loads analysis settings from yaml files and sets up
// logging.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/BarrensZeppelin/pta"
	"github.com/BarrensZeppelin/pta/preprocess"
)

type Config struct {
	sourceFile string

	// MaxSweeps bounds the number of passes over all methods.
	MaxSweeps int `yaml:"max-sweeps"`

	// MaxMethodSteps bounds the statements processed per method visit.
	MaxMethodSteps int `yaml:"max-method-steps"`

	// LogLevel is one of error, warn, info, debug or trace.
	LogLevel string `yaml:"log-level"`

	// Markers names the class and methods that label allocations and
	// queries.
	Markers preprocess.Markers `yaml:"markers"`

	// EntryOnly restricts the analysis to methods reachable from the
	// program entry points.
	EntryOnly bool `yaml:"entry-only"`
}

// NewDefault returns the default config.
func NewDefault() *Config {
	return &Config{
		MaxSweeps:      pta.DefaultMaxSweeps,
		MaxMethodSteps: pta.DefaultMaxMethodSteps,
		LogLevel:       "info",
		Markers:        preprocess.DefaultMarkers,
	}
}

// Load reads a configuration from a file.
func Load(filename string) (*Config, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	cfg, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	cfg.sourceFile = filename
	return cfg, nil
}

// Parse decodes a yaml configuration. Absent or non-positive settings take
// their default values.
func Parse(b []byte) (*Config, error) {
	cfg := NewDefault()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	def := NewDefault()
	if cfg.MaxSweeps <= 0 {
		cfg.MaxSweeps = def.MaxSweeps
	}
	if cfg.MaxMethodSteps <= 0 {
		cfg.MaxMethodSteps = def.MaxMethodSteps
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	if cfg.Markers.Class == "" {
		cfg.Markers.Class = def.Markers.Class
	}
	if cfg.Markers.Alloc == "" {
		cfg.Markers.Alloc = def.Markers.Alloc
	}
	if cfg.Markers.Test == "" {
		cfg.Markers.Test = def.Markers.Test
	}
	return cfg, nil
}

// SourceFile returns the file the config was loaded from, if any.
func (c *Config) SourceFile() string { return c.sourceFile }
