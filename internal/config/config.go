// Package config resolves the service configuration: built-in
// defaults, overridden by an optional YAML file, overridden by
// TOOLVET_* environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds every recognized option.
type Config struct {
	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`

	AllowlistPath string `yaml:"allowlist_path"`
	StrictMode    *bool  `yaml:"strict_mode"`
	MaxFileSize   int64  `yaml:"max_file_size"`
	ParseSource   bool   `yaml:"parse_source"`

	ClickHouseDSN string `yaml:"clickhouse_dsn"`
	PostgresDSN   string `yaml:"postgres_dsn"`

	AuthCacheTTLSeconds int `yaml:"auth_cache_ttl_s"`
}

// Default returns the built-in configuration.
func Default() *Config {
	strict := true
	return &Config{
		Port:                "8643",
		LogLevel:            "info",
		StrictMode:          &strict,
		MaxFileSize:         1 << 20,
		AuthCacheTTLSeconds: 30,
	}
}

// Load resolves the configuration. A non-empty path must exist and
// parse; an empty path skips the file layer entirely.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// Strict reports the effective strict_mode value (default true).
func (c *Config) Strict() bool {
	if c.StrictMode == nil {
		return true
	}
	return *c.StrictMode
}

func (c *Config) applyEnv() {
	if v := os.Getenv("TOOLVET_PORT"); v != "" {
		c.Port = v
	}
	if v := os.Getenv("TOOLVET_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("TOOLVET_ALLOWLIST_PATH"); v != "" {
		c.AllowlistPath = v
	}
	if v := os.Getenv("TOOLVET_STRICT_MODE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.StrictMode = &b
		}
	}
	if v := os.Getenv("TOOLVET_MAX_FILE_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.MaxFileSize = n
		}
	}
	if v := os.Getenv("TOOLVET_PARSE_SOURCE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.ParseSource = b
		}
	}
	if v := os.Getenv("CLICKHOUSE_DSN"); v != "" {
		c.ClickHouseDSN = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		c.PostgresDSN = v
	}
	if v := os.Getenv("TOOLVET_AUTH_CACHE_TTL_S"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.AuthCacheTTLSeconds = n
		}
	}
}
