// Package config loads simulator settings from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"slam-robot-sim/internal/simulation"

	"gopkg.in/yaml.v3"
)

// Config describes one simulator run. Every field is optional in the file;
// missing fields keep the values from Default.
type Config struct {
	Robot       simulation.Config `yaml:"robot"`
	Landmarks   int               `yaml:"landmarks"`
	Steps       int               `yaml:"steps"`
	Distance    float64           `yaml:"distance"`
	Seed        uint64            `yaml:"seed"`
	MetricsAddr string            `yaml:"metrics_addr"`
	Log         LogConfig         `yaml:"log"`
}

// LogConfig selects the log level and encoding.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the settings of the demonstration: a 10x10 world, range 5,
// noise 0.2 and three landmarks.
func Default() *Config {
	return &Config{
		Robot: simulation.Config{
			WorldSize:        10.0,
			MeasurementRange: 5.0,
			MotionNoise:      0.2,
			MeasurementNoise: 0.2,
		},
		Landmarks: 3,
		Steps:     20,
		Distance:  2.0,
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load decodes YAML from r over the defaults and validates the result.
func Load(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFile loads a YAML config file. An empty path returns the defaults.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Validate rejects settings the simulator cannot run with.
func (c *Config) Validate() error {
	switch {
	case !(c.Robot.WorldSize > 0):
		return fmt.Errorf("robot.world_size must be positive, got %v", c.Robot.WorldSize)
	case c.Robot.MotionNoise < 0:
		return fmt.Errorf("robot.motion_noise must not be negative, got %v", c.Robot.MotionNoise)
	case c.Robot.MeasurementNoise < 0:
		return fmt.Errorf("robot.measurement_noise must not be negative, got %v", c.Robot.MeasurementNoise)
	case c.Landmarks < 0:
		return fmt.Errorf("landmarks must not be negative, got %d", c.Landmarks)
	case c.Steps < 0:
		return fmt.Errorf("steps must not be negative, got %d", c.Steps)
	case !(c.Distance > 0):
		return fmt.Errorf("distance must be positive, got %v", c.Distance)
	}
	return nil
}
