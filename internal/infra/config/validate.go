package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ValidationError accumulates config validation errors.
type ValidationError struct {
	Errors []string
}

func (v *ValidationError) Error() string {
	return "config validation failed:\n  - " + strings.Join(v.Errors, "\n  - ")
}

// HasErrors reports whether any validation errors have been recorded.
func (v *ValidationError) HasErrors() bool {
	return len(v.Errors) > 0
}

// Add records a formatted validation error.
func (v *ValidationError) Add(format string, args ...interface{}) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

// Validate checks cfg for structural correctness. It returns a
// *ValidationError when one or more problems are found, allowing callers to
// see all issues at once.
func Validate(cfg *Config) error {
	ve := &ValidationError{}
	validateTool(cfg, ve)
	validateFeed(cfg, ve)
	validateCapture(cfg, ve)
	validateLogger(cfg, ve)
	validateTracer(cfg, ve)
	if ve.HasErrors() {
		return ve
	}
	return nil
}

func validateTool(cfg *Config, ve *ValidationError) {
	if cfg.Tool.Path == "" {
		ve.Add("tool.path must not be empty")
		return
	}
	if !filepath.IsAbs(cfg.Tool.Path) {
		ve.Add("tool.path must be absolute, got %q", cfg.Tool.Path)
	}
}

func validateFeed(cfg *Config, ve *ValidationError) {
	if cfg.Feed.PollInterval == "" {
		return
	}
	d, err := time.ParseDuration(cfg.Feed.PollInterval)
	if err != nil {
		ve.Add("feed.poll_interval %q is not a duration", cfg.Feed.PollInterval)
		return
	}
	if d <= 0 {
		ve.Add("feed.poll_interval must be positive, got %s", d)
	}
}

func validateCapture(cfg *Config, ve *ValidationError) {
	if cfg.Capture.MaxSessions < 0 {
		ve.Add("capture.max_sessions must not be negative, got %d", cfg.Capture.MaxSessions)
	}
	if cfg.Capture.OutputBufferMax < 0 {
		ve.Add("capture.output_buffer_max must not be negative, got %d", cfg.Capture.OutputBufferMax)
	}
	if cfg.Capture.SessionTTL != "" {
		if _, err := time.ParseDuration(cfg.Capture.SessionTTL); err != nil {
			ve.Add("capture.session_ttl %q is not a duration", cfg.Capture.SessionTTL)
		}
	}
}

func validateLogger(cfg *Config, ve *ValidationError) {
	switch strings.ToLower(cfg.Logger.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		ve.Add("logger.level %q is not one of debug/info/warn/error", cfg.Logger.Level)
	}
	switch strings.ToLower(cfg.Logger.Format) {
	case "", "text", "json":
	default:
		ve.Add("logger.format %q is not one of text/json", cfg.Logger.Format)
	}
}

func validateTracer(cfg *Config, ve *ValidationError) {
	switch cfg.Tracer.Exporter {
	case "", "noop", "stdout":
	default:
		ve.Add("tracer.exporter %q is not one of noop/stdout", cfg.Tracer.Exporter)
	}
}
