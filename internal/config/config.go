// Package config holds bracefix run configuration. Which fixers run, on
// which paths, and with which replacement payloads is configuration, not
// core logic; the repair packages receive all of this explicitly.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level bracefix configuration.
type Config struct {
	// Targets are the file paths to repair, relative to the working
	// directory unless absolute.
	Targets []string `yaml:"targets"`

	// Fixers names the built-in fixers to run, in order. An empty list
	// means the full built-in catalog.
	Fixers []string `yaml:"fixers"`

	// Blocks are marker-driven block replacements, applied after Fixers.
	Blocks []BlockRule `yaml:"blocks"`

	// Jobs bounds how many files are repaired concurrently.
	Jobs int `yaml:"jobs"`

	Logging LoggingConfig `yaml:"logging"`
	Watch   WatchConfig   `yaml:"watch"`
}

// BlockRule configures one block replacement. The replacement text is an
// opaque payload; bracefix never interprets it.
type BlockRule struct {
	Name        string `yaml:"name"`
	Marker      string `yaml:"marker"`
	Replacement string `yaml:"replacement"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	Debounce string `yaml:"debounce"` // e.g. "500ms"
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Jobs:    4,
		Logging: LoggingConfig{Level: "info"},
		Watch:   WatchConfig{Debounce: "500ms"},
	}
}

// Load reads a YAML config file and overlays it on the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks structural validity. Fixer names are resolved against the
// catalog by the runner, not here.
func (c *Config) Validate() error {
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be >= 1, got %d", c.Jobs)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	if _, err := c.DebounceDuration(); err != nil {
		return err
	}
	for i, b := range c.Blocks {
		if b.Name == "" {
			return fmt.Errorf("blocks[%d]: name is required", i)
		}
		if b.Marker == "" {
			return fmt.Errorf("block %s: marker is required", b.Name)
		}
		if b.Replacement == "" {
			return fmt.Errorf("block %s: replacement is required", b.Name)
		}
	}
	return nil
}

// DebounceDuration parses the watch debounce interval.
func (c *Config) DebounceDuration() (time.Duration, error) {
	if c.Watch.Debounce == "" {
		return 500 * time.Millisecond, nil
	}
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return 0, fmt.Errorf("watch debounce: %w", err)
	}
	return d, nil
}
