// Package config loads simkit's YAML configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ToolConfig identifies the external simulator tool.
type ToolConfig struct {
	Path string   `yaml:"path"` // absolute executable path
	Args []string `yaml:"args"` // fixed leading arguments before every subcommand
}

// FeedConfig holds change-feed settings.
type FeedConfig struct {
	PollInterval string `yaml:"poll_interval"` // duration string (default: "5s")
}

// CaptureConfig holds detached-session settings.
type CaptureConfig struct {
	MaxSessions     int    `yaml:"max_sessions"`
	SessionTTL      string `yaml:"session_ttl"`       // duration string (default: "30m")
	OutputBufferMax int    `yaml:"output_buffer_max"` // bytes per session
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// TracerConfig holds tracing settings.
type TracerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"`
}

// Config is the top-level configuration.
type Config struct {
	Tool    ToolConfig    `yaml:"tool"`
	Feed    FeedConfig    `yaml:"feed"`
	Capture CaptureConfig `yaml:"capture"`
	Logger  LoggerConfig  `yaml:"logger"`
	Tracer  TracerConfig  `yaml:"tracer"`
}

// Defaults returns the configuration used when no file or overrides exist.
func Defaults() *Config {
	return &Config{
		Tool: ToolConfig{
			Path: "/usr/bin/xcrun",
			Args: []string{"simctl"},
		},
		Feed: FeedConfig{
			PollInterval: "5s",
		},
		Capture: CaptureConfig{
			MaxSessions:     8,
			SessionTTL:      "30m",
			OutputBufferMax: 256 * 1024,
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Tracer: TracerConfig{
			Enabled:  false,
			Exporter: "noop",
		},
	}
}

// Load reads the config file at path, layering it over Defaults() and then
// applying environment overrides. A missing file is not an error; defaults
// plus environment apply.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			ApplyEnvOverrides(cfg)
			if err := Validate(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	ApplyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides applies SIMKIT_* environment variables on top of cfg.
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SIMKIT_TOOL_PATH"); v != "" {
		cfg.Tool.Path = v
	}
	if v := os.Getenv("SIMKIT_FEED_POLL_INTERVAL"); v != "" {
		cfg.Feed.PollInterval = v
	}
	if v := os.Getenv("SIMKIT_LOGGER_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("SIMKIT_TRACER_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Tracer.Enabled = enabled
		}
	}
	if v := os.Getenv("SIMKIT_TRACER_EXPORTER"); v != "" {
		cfg.Tracer.Exporter = v
	}
}

// PollInterval returns the parsed feed poll interval.
func (c *Config) PollInterval() time.Duration {
	d, err := time.ParseDuration(c.Feed.PollInterval)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

// SessionTTL returns the parsed capture session TTL.
func (c *Config) SessionTTL() time.Duration {
	d, err := time.ParseDuration(c.Capture.SessionTTL)
	if err != nil || d <= 0 {
		return 30 * time.Minute
	}
	return d
}
