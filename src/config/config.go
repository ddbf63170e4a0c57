// Package config provides configuration loading for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World     WorldConfig     `yaml:"world"`
	Engine    EngineConfig    `yaml:"engine"`
	Entropy   EntropyConfig   `yaml:"entropy"`
	Species   SpeciesConfig   `yaml:"species"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Log       LogConfig       `yaml:"log"`
	Seed      int64           `yaml:"seed"`
}

// WorldConfig holds the spacetime dimensions and the initial fill.
type WorldConfig struct {
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	History     int     `yaml:"history"`
	RandomFill  bool    `yaml:"random_fill"`
	FillDensity float64 `yaml:"fill_density"`
}

// EngineConfig holds the evolution loop parameters.
type EngineConfig struct {
	Interval time.Duration `yaml:"interval"`
	Workers  int           `yaml:"workers"`
	MaxSteps int           `yaml:"max_steps"`
}

// EntropyConfig holds the entropy loop parameters.
type EntropyConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

// SpeciesConfig lists where pattern files come from.
type SpeciesConfig struct {
	Builtin bool     `yaml:"builtin"`
	Dirs    []string `yaml:"dirs"`
	Formats []string `yaml:"formats"`
}

// TelemetryConfig controls per-tick output.
type TelemetryConfig struct {
	Output   string `yaml:"output"`
	LogEvery int    `yaml:"log_every"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be clamped silently.
func (c *Config) Validate() error {
	switch {
	case c.World.Width < 1 || c.World.Height < 1:
		return fmt.Errorf("config: world size must be positive, got %dx%d", c.World.Width, c.World.Height)
	case c.World.History < 2:
		return fmt.Errorf("config: world.history must be at least 2, got %d", c.World.History)
	case c.World.FillDensity < 0 || c.World.FillDensity > 1:
		return fmt.Errorf("config: world.fill_density must be in [0, 1], got %v", c.World.FillDensity)
	case c.Engine.Interval < 0 || c.Entropy.Interval < 0:
		return fmt.Errorf("config: intervals must not be negative")
	case c.Engine.MaxSteps < 0:
		return fmt.Errorf("config: engine.max_steps must not be negative")
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(c.Log.Level))); err != nil {
		return l, fmt.Errorf("config: log.level: %w", err)
	}
	return l, nil
}

// WriteYAML saves the configuration, used to record what a run was started with.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
