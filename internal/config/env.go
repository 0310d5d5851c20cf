// Package config loads calculator settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the settings shared by the calculator binaries.
type Config struct {
	Session     string        `env:"CALC_SESSION" envDefault:"default"`
	ErrorDelay  time.Duration `env:"CALC_ERROR_DELAY" envDefault:"1500ms"`
	Store       string        `env:"CALC_STORE" envDefault:"none"`
	StateDir    string        `env:"CALC_STATE_DIR" envDefault:".calculatorx"`
	QueueSize   int           `env:"CALC_QUEUE_SIZE" envDefault:"64"`
	Verbose     bool          `env:"CALC_VERBOSE" envDefault:"false"`
	MCPHTTPAddr string        `env:"CALC_MCP_HTTP_ADDR"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses Config from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges env parsing cannot express.
func (c *Config) Validate() error {
	c.Session = strings.TrimSpace(c.Session)
	if c.Session == "" {
		return fmt.Errorf("CALC_SESSION is required")
	}
	if c.ErrorDelay <= 0 {
		return fmt.Errorf("CALC_ERROR_DELAY must be positive, got %v", c.ErrorDelay)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("CALC_QUEUE_SIZE must be positive, got %d", c.QueueSize)
	}
	c.Store = strings.ToLower(strings.TrimSpace(c.Store))
	switch c.Store {
	case "none", "json", "yaml", "sqlite":
	default:
		return fmt.Errorf("CALC_STORE must be one of none, json, yaml, sqlite; got %q", c.Store)
	}
	if c.Store != "none" && strings.TrimSpace(c.StateDir) == "" {
		return fmt.Errorf("CALC_STATE_DIR is required when CALC_STORE=%s", c.Store)
	}
	return nil
}
