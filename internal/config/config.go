package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/d21d3q/goelsys/internal/options"
)

// Config is the optional configuration file of goelsys-decode.
type Config struct {
	Decoder   string          `yaml:"decoder"`
	Format    string          `yaml:"format"`
	LogLevel  string          `yaml:"log_level"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// TelemetryConfig controls the ThingsBoard style telemetry output.
type TelemetryConfig struct {
	// IncludeTimestamp wraps values in {"ts": ..., "values": ...} when set,
	// otherwise the bare values object is printed.
	IncludeTimestamp bool `yaml:"include_timestamp"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Decoder:  "elsys",
		Format:   string(options.FormatJSON),
		LogLevel: logrus.InfoLevel.String(),
		Telemetry: TelemetryConfig{
			IncludeTimestamp: true,
		},
	}
}

// Load reads the YAML file at path on top of Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks every field.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Decoder) == "" {
		return fmt.Errorf("decoder cannot be empty")
	}
	if _, err := options.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("format: %w", err)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// OutputFormat returns the validated output format.
func (c Config) OutputFormat() options.Format {
	f, err := options.ParseFormat(c.Format)
	if err != nil {
		return options.FormatJSON
	}
	return f
}

// Level returns the logrus level, falling back to info.
func (c Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
