package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the tenderly client and CLI
type Config struct {
	API API       `yaml:"api"`
	Log LogConfig `yaml:"log"`
}

// API holds Tenderly API connection configuration
type API struct {
	// Account is the Tenderly account slug
	Account string `yaml:"account"`
	// Project is the project slug within the account
	Project string `yaml:"project"`
	// AccessKey is the API access key
	AccessKey string `yaml:"access_key"`
	// BaseURL overrides the API root
	BaseURL string `yaml:"base_url,omitempty"`
	// Timeout is the per-request timeout
	Timeout time.Duration `yaml:"timeout"`
	// RequestsPerSecond enables client-side rate limiting when > 0
	RequestsPerSecond float64 `yaml:"requests_per_second,omitempty"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults sets default values for the configuration
func (c *Config) SetDefaults() {
	if c.API.Timeout == 0 {
		c.API.Timeout = 30 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}

// LoadFromEnv loads configuration from environment variables
// Environment variables take precedence over file configuration
func (c *Config) LoadFromEnv() error {
	if account := os.Getenv("TENDERLY_ACCOUNT"); account != "" {
		c.API.Account = account
	}
	if project := os.Getenv("TENDERLY_PROJECT"); project != "" {
		c.API.Project = project
	}
	if accessKey := os.Getenv("TENDERLY_ACCESS_KEY"); accessKey != "" {
		c.API.AccessKey = accessKey
	}
	if baseURL := os.Getenv("TENDERLY_BASE_URL"); baseURL != "" {
		c.API.BaseURL = baseURL
	}
	if timeout := os.Getenv("TENDERLY_TIMEOUT"); timeout != "" {
		duration, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid TENDERLY_TIMEOUT: %w", err)
		}
		c.API.Timeout = duration
	}
	if rps := os.Getenv("TENDERLY_REQUESTS_PER_SECOND"); rps != "" {
		val, err := strconv.ParseFloat(rps, 64)
		if err != nil {
			return fmt.Errorf("invalid TENDERLY_REQUESTS_PER_SECOND: %w", err)
		}
		c.API.RequestsPerSecond = val
	}
	if level := os.Getenv("TENDERLY_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if format := os.Getenv("TENDERLY_LOG_FORMAT"); format != "" {
		c.Log.Format = format
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.API.Account == "" {
		return fmt.Errorf("account is required")
	}
	if c.API.Project == "" {
		return fmt.Errorf("project is required")
	}
	if c.API.AccessKey == "" {
		return fmt.Errorf("access key is required")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.Log.Level] {
		return fmt.Errorf("invalid log level %q, must be one of: debug, info, warn, error", c.Log.Level)
	}

	validLogFormats := map[string]bool{
		"json":    true,
		"console": true,
	}
	if !validLogFormats[c.Log.Format] {
		return fmt.Errorf("invalid log format %q, must be one of: json, console", c.Log.Format)
	}

	return nil
}

// Load is a convenience method that loads configuration in the following order:
// 1. Load from file (if provided)
// 2. Load from environment variables (override file)
// 3. Set defaults for any missing values
// 4. Validate
func Load(configFile string) (*Config, error) {
	cfg := &Config{}

	if configFile != "" {
		if err := cfg.LoadFromFile(configFile); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := cfg.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}

	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
