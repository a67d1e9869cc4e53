package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by ApplyEnv.
const (
	EnvRemoteURL   = "CHURCHMAP_REMOTE_URL"
	EnvRemoteToken = "CHURCHMAP_REMOTE_TOKEN"
	EnvPort        = "CHURCHMAP_PORT"
	EnvDataset     = "CHURCHMAP_DATASET"
	EnvStore       = "CHURCHMAP_STORE"
	EnvStorePath   = "CHURCHMAP_STORE_PATH"
	EnvAdminToken  = "CHURCHMAP_ADMIN_TOKEN"
	EnvLogLevel    = "LOG_LEVEL"
	EnvLogFormat   = "LOG_FORMAT"
)

// DotEnvFiles are tried, in order, by Load. Missing files are ignored.
var DotEnvFiles = []string{".env", "data/env/.env"}

// Load builds the configuration: defaults, then the YAML file at path (when
// path is non-empty), then .env files, then the process environment.
func Load(path string) (*Config, error) {
	cfg := NewDefaultConfig()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	LoadDotEnv(DotEnvFiles...)
	cfg.ApplyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// LoadDotEnv loads each file that exists. Variables already set in the
// environment are left alone.
func LoadDotEnv(files ...string) {
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays environment values. getenv is os.Getenv in production.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvRemoteURL); v != "" {
		c.Remote.BaseURL = v
	}
	if v := getenv(EnvRemoteToken); v != "" {
		c.Remote.Token = v
	}
	if v := getenv(EnvPort); v != "" {
		if !strings.Contains(v, ":") {
			v = ":" + v
		}
		c.Server.Port = v
	}
	if v := getenv(EnvDataset); v != "" {
		c.Offline.DatasetPath = v
	}
	if v := getenv(EnvStore); v != "" {
		c.Store.Driver = strings.ToLower(v)
	}
	if v := getenv(EnvStorePath); v != "" {
		c.Store.Path = v
	}
	if v := getenv(EnvAdminToken); v != "" {
		c.Server.AdminToken = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := getenv(EnvLogFormat); v != "" {
		c.Log.Format = v
	}
}

// Validate rejects settings the rest of the program cannot work with.
func (c *Config) Validate() error {
	if c.Store.Driver != StoreDriverJSON && c.Store.Driver != StoreDriverBolt {
		return fmt.Errorf("unsupported store driver: %q", c.Store.Driver)
	}
	if strings.TrimSpace(c.Store.Path) == "" {
		return fmt.Errorf("store path is required")
	}
	if c.Remote.BaseURL != "" && !strings.HasPrefix(c.Remote.BaseURL, "http://") && !strings.HasPrefix(c.Remote.BaseURL, "https://") {
		return fmt.Errorf("remote base url must be http or https: %q", c.Remote.BaseURL)
	}
	if c.Remote.Timeout < 0 {
		return fmt.Errorf("remote timeout must not be negative")
	}
	if c.Search.TextDebounce < 0 {
		return fmt.Errorf("text debounce must not be negative")
	}
	if c.Search.PageSize < 1 {
		return fmt.Errorf("page size must be positive: %d", c.Search.PageSize)
	}
	if c.Map.FitMaxZoom < 0 || c.Map.SelectZoom < 0 || c.Map.FirstFixZoom < 0 || c.Map.DefaultZoom < 0 {
		return fmt.Errorf("zoom levels must not be negative")
	}
	if c.Map.ViewportWidth <= 0 || c.Map.ViewportHeight <= 0 {
		return fmt.Errorf("viewport must have a positive size")
	}
	return nil
}
