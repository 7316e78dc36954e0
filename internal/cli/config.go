package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-yaml"
)

const (
	envLogLevel = "SHAPE_BURP_LOG_LEVEL"
	envTimeout  = "SHAPE_BURP_TIMEOUT"
)

// Config holds the settings shared by every command.
type Config struct {
	Bindings map[string]string `yaml:"bindings" json:"bindings"`
	Latin1   bool              `yaml:"latin1" json:"latin1"`
	Prepare  bool              `yaml:"prepare" json:"prepare"`
	Timeout  string            `yaml:"timeout" json:"timeout"`
	LogLevel string            `yaml:"log_level" json:"log_level"`
	MaxInput string            `yaml:"max_input" json:"max_input"`
}

// DefaultConfig returns the settings used when no file, environment or flag
// says otherwise.
func DefaultConfig() *Config {
	return &Config{
		Bindings: map[string]string{},
		Prepare:  true,
		Timeout:  "10s",
		LogLevel: "info",
	}
}

// LoadFromFile reads a YAML config file over the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Bindings == nil {
		cfg.Bindings = map[string]string{}
	}
	return cfg, nil
}

// ApplyEnv overrides the log level and timeout from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv(envLogLevel)); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(getenv(envTimeout)); v != "" {
		c.Timeout = v
	}
}

// TimeoutDuration parses Timeout. An empty value means no timeout.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	return d, nil
}

// MaxInputBytes parses MaxInput, e.g. "64KiB" or "1MB". Zero means no limit.
func (c *Config) MaxInputBytes() (uint64, error) {
	if c.MaxInput == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(c.MaxInput)
	if err != nil {
		return 0, fmt.Errorf("invalid max_input %q: %w", c.MaxInput, err)
	}
	return n, nil
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	d, err := c.TimeoutDuration()
	if err != nil {
		return err
	}
	if d < 0 {
		return fmt.Errorf("timeout cannot be negative, got %s", c.Timeout)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := c.MaxInputBytes(); err != nil {
		return err
	}
	for placeholder := range c.Bindings {
		if placeholder == "" {
			return fmt.Errorf("binding placeholder cannot be empty")
		}
	}
	return nil
}
