// Package config holds the demo CLI's YAML-driven configuration. The
// client library itself is configured purely through functional options
// (socketio.Option); this package exists only so cmd/socketio-demo has a
// persistent, human-editable config file the way cmd/maboo does.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the complete demo CLI configuration.
type Config struct {
	Connect ConnectConfig `yaml:"connect"`
	Logging LogConfig     `yaml:"logging"`
	Debug   DebugConfig   `yaml:"debug"`
}

// ConnectConfig configures the connection the demo CLI establishes.
type ConnectConfig struct {
	URL              string   `yaml:"url"`
	Namespace        string   `yaml:"namespace"`
	HandshakeTimeout Duration `yaml:"handshake_timeout"`
	AutoPing         bool     `yaml:"auto_ping"`
}

// LogConfig configures slog output, matching the teacher's logging config
// shape.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// DebugConfig configures the optional local debug HTTP server exposing
// liveness and pending-ack information.
type DebugConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

// Duration is a time.Duration that supports human-readable YAML strings
// ("10s", "1m30s") instead of raw nanosecond integers.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Load reads config from a YAML file, applying defaults for missing
// values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks the config for invalid values.
func (c *Config) Validate() error {
	if c.Connect.URL == "" {
		return fmt.Errorf("connect.url is required")
	}
	if c.Connect.Namespace == "" {
		return fmt.Errorf("connect.namespace is required")
	}
	if c.Connect.HandshakeTimeout.Duration() <= 0 {
		return fmt.Errorf("connect.handshake_timeout must be > 0")
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of debug/info/warn/error, got %q", c.Logging.Level)
	}
	if c.Debug.Enabled && c.Debug.Address == "" {
		return fmt.Errorf("debug.address is required when debug.enabled is true")
	}
	return nil
}
