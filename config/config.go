// Package config loads the process configuration: a YAML file layered over
// built-in defaults, environment overrides and provider credentials read
// from the environment (optionally seeded from a .env file).
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/furixturi/deep-research-scratch/agent"
	"github.com/furixturi/deep-research-scratch/logging"
	"github.com/furixturi/deep-research-scratch/model"
)

// DefaultPath is the configuration file read when no path is given.
const DefaultPath = "default_config.yaml"

// Environment overrides.
const (
	EnvMaxSteps = "DEEPRESEARCH_MAX_STEPS"
	EnvLogLevel = "DEEPRESEARCH_LOG_LEVEL"
	EnvAddr     = "DEEPRESEARCH_ADDR"
)

// Tool error policies accepted in the file.
const (
	PolicyAbort  = "abort"
	PolicyRecord = "record"
)

// Config is the process configuration.
type Config struct {
	AgentType       string       `yaml:"agent_type"`
	MaxSteps        int          `yaml:"max_steps"`
	LogLevel        string       `yaml:"log_level"`
	LogFormat       string       `yaml:"log_format"`
	TextActions     bool         `yaml:"text_actions"`
	ToolErrorPolicy string       `yaml:"tool_error_policy"`
	Server          ServerConfig `yaml:"server"`
	Models          Models       `yaml:"models"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	catalog := model.DefaultCatalog()
	return &Config{
		AgentType:       agent.AgentTypeSingle,
		MaxSteps:        agent.DefaultMaxSteps,
		LogLevel:        "info",
		LogFormat:       "json",
		ToolErrorPolicy: PolicyAbort,
		Server:          ServerConfig{Addr: ":8000"},
		Models: Models{
			Default:   catalog.Default,
			Agents:    catalog.Agents,
			Supported: catalog.Supported,
		},
	}
}

// Load reads the file at path over the defaults, then applies environment
// overrides. A missing file is not an error. An empty path reads
// DefaultPath.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvMaxSteps); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxSteps, err)
		}
		c.MaxSteps = n
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvAddr); ok && v != "" {
		c.Server.Addr = v
	}
	return nil
}

// Validate checks values that would otherwise fail at run time.
func (c *Config) Validate() error {
	if c.MaxSteps <= 0 {
		return fmt.Errorf("max_steps must be positive, got %d", c.MaxSteps)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if err := agent.CheckAgentType(c.AgentType); err != nil {
		return err
	}
	switch strings.ToLower(c.ToolErrorPolicy) {
	case "", PolicyAbort, PolicyRecord:
	default:
		return fmt.Errorf("tool_error_policy must be %q or %q, got %q", PolicyAbort, PolicyRecord, c.ToolErrorPolicy)
	}
	for p := range c.Models.Supported {
		if _, ok := model.ParseProvider(string(p)); !ok {
			return fmt.Errorf("models.supported: unknown provider %q", p)
		}
	}
	return nil
}

// Catalog returns the model catalog described by the file.
func (c *Config) Catalog() model.Catalog {
	return model.Catalog{
		Default:   c.Models.Default,
		Agents:    c.Models.Agents,
		Supported: c.Models.Supported,
	}
}

// RunDefaults returns the file-level run options that request options
// override.
func (c *Config) RunDefaults() agent.RunConfig {
	return agent.RunConfig{MaxSteps: c.MaxSteps, AgentType: c.AgentType}
}

// Policy maps ToolErrorPolicy to the agent policy.
func (c *Config) Policy() agent.ToolErrorPolicy {
	if strings.EqualFold(c.ToolErrorPolicy, PolicyRecord) {
		return agent.PolicyRecord
	}
	return agent.PolicyAbort
}

// Logger builds the process logger writing to w.
func (c *Config) Logger(w io.Writer) *logging.AgentLogger {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		level = logging.LogLevelInfo
	}
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  level,
		Format: c.LogFormat,
		Output: w,
	})
}
