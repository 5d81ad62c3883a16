package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSetDefaults(t *testing.T) {
	cfg := NewConfig()

	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("expected default timeout 30s, got %v", cfg.API.Timeout)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected default log level 'info', got %q", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("expected default log format 'json', got %q", cfg.Log.Format)
	}
}

func TestLoadFromFile(t *testing.T) {
	content := `
api:
  account: my-account
  project: my-project
  access_key: my-key
  timeout: 10s
log:
  level: debug
  format: console
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg := &Config{}
	if err := cfg.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.API.Account != "my-account" {
		t.Errorf("expected account 'my-account', got %q", cfg.API.Account)
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Errorf("expected timeout 10s, got %v", cfg.API.Timeout)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level 'debug', got %q", cfg.Log.Level)
	}
}

func TestLoadFromEnvOverridesFile(t *testing.T) {
	t.Setenv("TENDERLY_ACCOUNT", "env-account")
	t.Setenv("TENDERLY_ACCESS_KEY", "env-key")
	t.Setenv("TENDERLY_TIMEOUT", "5s")

	cfg := &Config{}
	cfg.API.Account = "file-account"
	cfg.API.Project = "file-project"

	if err := cfg.LoadFromEnv(); err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}

	if cfg.API.Account != "env-account" {
		t.Errorf("expected env to override account, got %q", cfg.API.Account)
	}
	if cfg.API.Project != "file-project" {
		t.Errorf("expected file project to survive, got %q", cfg.API.Project)
	}
	if cfg.API.Timeout != 5*time.Second {
		t.Errorf("expected timeout 5s, got %v", cfg.API.Timeout)
	}
}

func TestLoadFromEnvInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"invalid timeout", "TENDERLY_TIMEOUT", "not-a-duration"},
		{"invalid rate", "TENDERLY_REQUESTS_PER_SECOND", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			cfg := &Config{}
			if err := cfg.LoadFromEnv(); err == nil {
				t.Errorf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := NewConfig()
		cfg.API.Account = "acct"
		cfg.API.Project = "proj"
		cfg.API.AccessKey = "key"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"missing account", func(c *Config) { c.API.Account = "" }, true},
		{"missing project", func(c *Config) { c.API.Project = "" }, true},
		{"missing access key", func(c *Config) { c.API.AccessKey = "" }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }, true},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
