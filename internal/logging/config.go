// internal/logging/config.go
package logging

import (
	"fmt"
	"time"

	"go.uber.org/zap/zapcore"
)

// Config holds logging configuration.
type Config struct {
	Level    Level             `koanf:"level" yaml:"level"`
	Format   string            `koanf:"format" yaml:"format"`
	Output   OutputConfig      `koanf:"output" yaml:"output"`
	Sampling SamplingConfig    `koanf:"sampling" yaml:"sampling"`
	Caller   CallerConfig      `koanf:"caller" yaml:"caller"`
	Fields   map[string]string `koanf:"fields" yaml:"fields"`
}

// OutputConfig controls where logs are written.
// Stdout is never a target; it carries answers and the terminal UI.
type OutputConfig struct {
	Stderr bool       `koanf:"stderr" yaml:"stderr"`
	File   FileConfig `koanf:"file" yaml:"file"`
}

// FileConfig controls the rotating log file. An empty Path disables it.
type FileConfig struct {
	Path       string `koanf:"path" yaml:"path"`
	MaxSizeMB  int    `koanf:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days" yaml:"max_age_days"`
	Compress   bool   `koanf:"compress" yaml:"compress"`
}

// SamplingConfig controls log volume reduction below error level.
type SamplingConfig struct {
	Enabled    bool          `koanf:"enabled" yaml:"enabled"`
	Tick       time.Duration `koanf:"tick" yaml:"tick"`
	Initial    int           `koanf:"initial" yaml:"initial"`
	Thereafter int           `koanf:"thereafter" yaml:"thereafter"`
}

// CallerConfig controls caller information in logs.
type CallerConfig struct {
	Enabled bool `koanf:"enabled" yaml:"enabled"`
	Skip    int  `koanf:"skip" yaml:"skip"`
}

// NewDefaultConfig returns config with defaults suitable for an interactive client.
// File output is off until a path is set; the config loader supplies one.
func NewDefaultConfig() *Config {
	return &Config{
		Level:  Level(zapcore.InfoLevel),
		Format: "json",
		Output: OutputConfig{
			Stderr: false,
			File: FileConfig{
				MaxSizeMB:  10,
				MaxBackups: 5,
				MaxAgeDays: 30,
				Compress:   true,
			},
		},
		Sampling: SamplingConfig{
			Enabled:    true,
			Tick:       time.Second,
			Initial:    100,
			Thereafter: 10,
		},
		Caller: CallerConfig{
			Enabled: true,
			Skip:    1,
		},
		Fields: map[string]string{
			"service": "aiactqa",
		},
	}
}

// Validate checks config for errors.
func (c *Config) Validate() error {
	if c.Format != "json" && c.Format != "console" {
		return fmt.Errorf("format must be 'json' or 'console', got %q", c.Format)
	}
	if !c.Output.Stderr && c.Output.File.Path == "" {
		return fmt.Errorf("at least one output must be enabled (stderr or file)")
	}
	if c.Output.File.Path != "" && c.Output.File.MaxSizeMB <= 0 {
		return fmt.Errorf("file max_size_mb must be > 0, got %d", c.Output.File.MaxSizeMB)
	}
	if c.Sampling.Enabled && c.Sampling.Tick <= 0 {
		return fmt.Errorf("sampling tick must be > 0 when sampling enabled")
	}
	if c.Caller.Enabled && c.Caller.Skip < 0 {
		return fmt.Errorf("caller skip must be >= 0, got %d", c.Caller.Skip)
	}

	for k, v := range c.Fields {
		if k == "" {
			return fmt.Errorf("field key cannot be empty")
		}
		if v == "" {
			return fmt.Errorf("field %q has empty value", k)
		}
	}

	return nil
}
