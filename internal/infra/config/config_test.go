package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Tool.Path != "/usr/bin/xcrun" {
		t.Errorf("Tool.Path = %q", cfg.Tool.Path)
	}
	if len(cfg.Tool.Args) != 1 || cfg.Tool.Args[0] != "simctl" {
		t.Errorf("Tool.Args = %v", cfg.Tool.Args)
	}
	if got := cfg.PollInterval(); got != 5*time.Second {
		t.Errorf("PollInterval = %s, want 5s", got)
	}
	if got := cfg.SessionTTL(); got != 30*time.Minute {
		t.Errorf("SessionTTL = %s, want 30m", got)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("Defaults() does not validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Tool.Path != "/usr/bin/xcrun" {
		t.Errorf("Tool.Path = %q", cfg.Tool.Path)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simkit.yaml")
	content := `
tool:
  path: /opt/devtools/xcrun
feed:
  poll_interval: 2s
logger:
  level: debug
  format: json
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Tool.Path != "/opt/devtools/xcrun" {
		t.Errorf("Tool.Path = %q", cfg.Tool.Path)
	}
	if got := cfg.PollInterval(); got != 2*time.Second {
		t.Errorf("PollInterval = %s, want 2s", got)
	}
	if cfg.Logger.Level != "debug" || cfg.Logger.Format != "json" {
		t.Errorf("Logger = %+v", cfg.Logger)
	}
	// Untouched sections keep their defaults.
	if cfg.Capture.MaxSessions != 8 {
		t.Errorf("Capture.MaxSessions = %d, want 8", cfg.Capture.MaxSessions)
	}
}

func TestEnvOverridesWin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simkit.yaml")
	if err := os.WriteFile(path, []byte("tool:\n  path: /opt/devtools/xcrun\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SIMKIT_TOOL_PATH", "/usr/local/bin/xcrun")
	t.Setenv("SIMKIT_LOGGER_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Tool.Path != "/usr/local/bin/xcrun" {
		t.Errorf("Tool.Path = %q, want env override", cfg.Tool.Path)
	}
	if cfg.Logger.Level != "warn" {
		t.Errorf("Logger.Level = %q, want warn", cfg.Logger.Level)
	}
}

func TestTracerEnabledEnvOverridesBothWays(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simkit.yaml")
	if err := os.WriteFile(path, []byte("tracer:\n  enabled: true\n  exporter: stdout\n"), 0600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		value string
		want  bool
	}{
		{"false", false},
		{"true", true},
		{"0", false},
		{"1", true},
		{"maybe", true}, // unparsable values leave the file's setting alone
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("SIMKIT_TRACER_ENABLED", tt.value)
			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if cfg.Tracer.Enabled != tt.want {
				t.Errorf("Tracer.Enabled = %v, want %v", cfg.Tracer.Enabled, tt.want)
			}
		})
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty tool path", func(c *Config) { c.Tool.Path = "" }},
		{"relative tool path", func(c *Config) { c.Tool.Path = "xcrun" }},
		{"bad poll interval", func(c *Config) { c.Feed.PollInterval = "fast" }},
		{"negative poll interval", func(c *Config) { c.Feed.PollInterval = "-5s" }},
		{"bad session ttl", func(c *Config) { c.Capture.SessionTTL = "forever" }},
		{"negative max sessions", func(c *Config) { c.Capture.MaxSessions = -1 }},
		{"bad logger level", func(c *Config) { c.Logger.Level = "verbose" }},
		{"bad logger format", func(c *Config) { c.Logger.Format = "xml" }},
		{"bad tracer exporter", func(c *Config) { c.Tracer.Exporter = "jaeger" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Error("Validate accepted invalid config")
			}
		})
	}
}

func TestValidateAccumulatesErrors(t *testing.T) {
	cfg := Defaults()
	cfg.Tool.Path = ""
	cfg.Logger.Level = "verbose"

	err := Validate(cfg)
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("err is %T, want *ValidationError", err)
	}
	if len(ve.Errors) != 2 {
		t.Errorf("Errors = %v, want 2 entries", ve.Errors)
	}
}
