// Package config loads the readyprobe YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/drblury/readyweaver/emulator"
	"github.com/drblury/readyweaver/probe"
	"github.com/drblury/readyweaver/readiness"
)

// Environment variables that override the file.
const (
	EnvBaseURL = "READYPROBE_BASE_URL"
	EnvPath    = "READYPROBE_PATH"
	EnvLevel   = "READYPROBE_LOG_LEVEL"
)

// Config is the root of the readyprobe configuration file.
type Config struct {
	Target  TargetConfig  `yaml:"target"`
	Retry   RetryConfig   `yaml:"retry"`
	Command CommandConfig `yaml:"command"`
	Expect  ExpectConfig  `yaml:"expect"`
	Log     LogConfig     `yaml:"log"`
}

// TargetConfig is the endpoint that is polled.
type TargetConfig struct {
	BaseURL string `yaml:"base_url"`
	Path    string `yaml:"path"`
}

// RetryConfig maps onto readiness.Policy.
type RetryConfig struct {
	MaxAttempts     int    `yaml:"max_attempts"`
	InitialInterval string `yaml:"initial_interval"`
	MaxInterval     string `yaml:"max_interval,omitempty"` // empty means uncapped
	AttemptTimeout  string `yaml:"attempt_timeout,omitempty"`
	RetryOnStatus   bool   `yaml:"retry_on_status"`
}

// CommandConfig is the process started by `readyprobe run`.
type CommandConfig struct {
	Name        string   `yaml:"name"`
	Args        []string `yaml:"args,omitempty"`
	Dir         string   `yaml:"dir,omitempty"`
	Env         []string `yaml:"env,omitempty"`
	GracePeriod string   `yaml:"grace_period"`
}

// ExpectConfig holds the body assertion; an empty body skips it.
type ExpectConfig struct {
	Body string `yaml:"body"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// DefaultConfig returns the configuration that polls the local hello function.
func DefaultConfig() *Config {
	return &Config{
		Target: TargetConfig{
			BaseURL: "http://localhost:8080",
			Path:    "/helloHttp",
		},
		Retry: RetryConfig{
			MaxAttempts:     readiness.DefaultMaxAttempts,
			InitialInterval: readiness.DefaultInitialInterval.String(),
		},
		Command: CommandConfig{
			GracePeriod: emulator.DefaultGracePeriod.String(),
		},
		Expect: ExpectConfig{
			Body: "Hello world!",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path on top of DefaultConfig. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.Target.BaseURL = v
	}
	if v := os.Getenv(EnvPath); v != "" {
		c.Target.Path = v
	}
	if v := os.Getenv(EnvLevel); v != "" {
		c.Log.Level = v
	}
}

var (
	validLevels  = []string{"debug", "info", "warn", "error"}
	validFormats = []string{"text", "json"}
)

// Validate reports every problem in the configuration at once.
func (c *Config) Validate() error {
	var errs []error

	if _, err := c.Request(); err != nil {
		errs = append(errs, err)
	}
	if c.Retry.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("retry.max_attempts must be at least 1, got %d", c.Retry.MaxAttempts))
	}
	for field, value := range map[string]string{
		"retry.initial_interval": c.Retry.InitialInterval,
		"retry.max_interval":     c.Retry.MaxInterval,
		"retry.attempt_timeout":  c.Retry.AttemptTimeout,
		"command.grace_period":   c.Command.GracePeriod,
	} {
		if _, err := parseDuration(value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", field, err))
		}
	}
	if !slices.Contains(validLevels, strings.ToLower(c.Log.Level)) {
		errs = append(errs, fmt.Errorf("invalid log.level: %s (valid: %v)", c.Log.Level, validLevels))
	}
	if !slices.Contains(validFormats, strings.ToLower(c.Log.Format)) {
		errs = append(errs, fmt.Errorf("invalid log.format: %s (valid: %v)", c.Log.Format, validFormats))
	}

	return errors.Join(errs...)
}

// Request builds the probe request for the target.
func (c *Config) Request() (probe.Request, error) {
	return probe.NewRequest(c.Target.BaseURL, c.Target.Path)
}

// Policy builds the retry policy: exponential from initial_interval, capped
// at max_interval when set. An empty initial_interval means the default; an
// explicit zero retries without waiting.
func (c *Config) Policy() (readiness.Policy, error) {
	initial, err := parseDuration(c.Retry.InitialInterval)
	if err != nil {
		return readiness.Policy{}, fmt.Errorf("retry.initial_interval: %w", err)
	}
	if strings.TrimSpace(c.Retry.InitialInterval) == "" {
		initial = readiness.DefaultInitialInterval
	}
	capped, err := parseDuration(c.Retry.MaxInterval)
	if err != nil {
		return readiness.Policy{}, fmt.Errorf("retry.max_interval: %w", err)
	}

	policy, err := readiness.NewPolicy(c.Retry.MaxAttempts, readiness.ExponentialBackoff(initial))
	if err != nil {
		return readiness.Policy{}, err
	}
	return policy.WithMaxInterval(capped), nil
}

// ProbeOptions returns the readiness options implied by the retry section.
func (c *Config) ProbeOptions() []readiness.Option {
	opts := []readiness.Option{readiness.WithRetryOnStatus(c.Retry.RetryOnStatus)}
	if timeout, err := parseDuration(c.Retry.AttemptTimeout); err == nil && timeout > 0 {
		opts = append(opts, readiness.WithAttemptTimeout(timeout))
	}
	return opts
}

// EmulatorCommand converts the command section. ok is false when no command
// is configured.
func (c *Config) EmulatorCommand() (cmd emulator.Command, ok bool, err error) {
	if strings.TrimSpace(c.Command.Name) == "" {
		return emulator.Command{}, false, nil
	}
	grace, err := parseDuration(c.Command.GracePeriod)
	if err != nil {
		return emulator.Command{}, false, fmt.Errorf("command.grace_period: %w", err)
	}
	return emulator.Command{
		Name:        c.Command.Name,
		Args:        slices.Clone(c.Command.Args),
		Dir:         c.Command.Dir,
		Env:         slices.Clone(c.Command.Env),
		GracePeriod: grace,
	}, true, nil
}

// parseDuration accepts time.ParseDuration syntax; an empty string is zero.
func parseDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration %s must not be negative", value)
	}
	return d, nil
}
