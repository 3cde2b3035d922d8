// Package config provides file-based configuration for the standalone
// workspace MCP server binary.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults applied when the config file omits a field.
const (
	DefaultAddr    = "127.0.0.1:8765"
	DefaultName    = "workspace-mcp"
	DefaultVersion = "1.0.0"
)

// Config holds the standalone server settings.
type Config struct {
	// Addr is the listen address for the HTTP front end.
	Addr string `yaml:"addr"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// Name and Version identify the server in initialize responses.
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// PlainText renders resource-kind tool results as plain text for
	// clients that do not understand embedded resources.
	PlainText bool `yaml:"plain_text"`
}

// Default returns a config with all defaults applied.
func Default() *Config {
	return &Config{
		Addr:     DefaultAddr,
		LogLevel: "info",
		Name:     DefaultName,
		Version:  DefaultVersion,
	}
}

// Load reads a YAML config file and applies defaults for omitted fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}

	if cfg.Name == "" {
		cfg.Name = DefaultName
	}

	if cfg.Version == "" {
		cfg.Version = DefaultVersion
	}

	return cfg, nil
}

// SlogLevel maps the configured log level to a slog.Level.
// Unknown values fall back to info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
