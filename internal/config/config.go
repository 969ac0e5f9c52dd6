// Package config provides configuration loading for aiactqa.
//
// Configuration comes from an optional YAML file, then AIACTQA_* environment
// variables, then command-line flags applied by the caller.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/fyrsmithlabs/aiactqa/internal/logging"
	"github.com/fyrsmithlabs/aiactqa/internal/telemetry"
)

const (
	// DefaultServerURL is where the answering backend listens by default.
	DefaultServerURL = "http://localhost:8000"

	// DefaultTimeout bounds a single ask.
	DefaultTimeout = 60 * time.Second

	// DefaultPageSize is how many passages the query view shows per page.
	DefaultPageSize = 3

	maxPageSize = 20
)

// Config holds the complete aiactqa configuration.
type Config struct {
	Server    ServerConfig     `koanf:"server" yaml:"server"`
	UI        UIConfig         `koanf:"ui" yaml:"ui"`
	Logging   logging.Config   `koanf:"logging" yaml:"logging"`
	Telemetry telemetry.Config `koanf:"telemetry" yaml:"telemetry"`
}

// ServerConfig locates the answering backend.
type ServerConfig struct {
	URL     string        `koanf:"url" yaml:"url"`
	Timeout time.Duration `koanf:"timeout" yaml:"timeout"`
}

// UIConfig holds query view settings.
type UIConfig struct {
	PageSize int `koanf:"page_size" yaml:"page_size"`
}

// Default returns the configuration used when nothing overrides it.
// Logs go to a rotating file under the config directory.
func Default() *Config {
	logCfg := logging.NewDefaultConfig()
	logCfg.Output.File.Path = defaultLogPath

	return &Config{
		Server: ServerConfig{
			URL:     DefaultServerURL,
			Timeout: DefaultTimeout,
		},
		UI: UIConfig{
			PageSize: DefaultPageSize,
		},
		Logging:   *logCfg,
		Telemetry: *telemetry.NewDefaultConfig(),
	}
}

// Validate checks the configuration. The server URL is only checked for
// presence; a malformed URL is reported per request by the client.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.URL == "" {
		errs = append(errs, errors.New("server.url is required"))
	}
	if c.Server.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("server.timeout must be > 0, got %s", c.Server.Timeout))
	}
	if c.UI.PageSize < 1 || c.UI.PageSize > maxPageSize {
		errs = append(errs, fmt.Errorf("ui.page_size must be between 1 and %d, got %d", maxPageSize, c.UI.PageSize))
	}
	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}
	if err := c.Telemetry.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("telemetry: %w", err))
	}

	return errors.Join(errs...)
}
