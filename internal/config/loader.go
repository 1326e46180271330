package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/phuongpt0301/jupay-demo-sub001/internal/model"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/navigation"
	"github.com/phuongpt0301/jupay-demo-sub001/internal/store"
)

// Default returns the configuration used when no file is present.
func Default() *AppConfig {
	cfg := &AppConfig{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from a YAML file. Environment variables in the
// file are expanded. A missing file yields the defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AppConfig) applyDefaults() {
	if c.Navigation.Delay == 0 {
		c.Navigation.Delay = navigation.DefaultDelay
	}
	if c.Navigation.DefaultPath == "" {
		c.Navigation.DefaultPath = model.PathDashboard
	}
	if c.Store.Backend == "" {
		c.Store.Backend = store.BackendSQLite
	}
	if c.Store.Backend == store.BackendSQLite && c.Store.SQLitePath == "" {
		c.Store.SQLitePath = "jupay.db"
	}
	if c.Store.Redis.Prefix == "" {
		c.Store.Redis.Prefix = "jupay:"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.File == "" {
		c.Logging.File = "jupay.log"
	}
	if c.Language == "" {
		c.Language = "en"
	}
}

func (c *AppConfig) validate() error {
	if c.Navigation.Delay < 0 {
		return fmt.Errorf("navigation.delay must not be negative")
	}
	if !strings.HasPrefix(c.Navigation.DefaultPath, "/") {
		return fmt.Errorf("navigation.default_path must start with /: %q", c.Navigation.DefaultPath)
	}
	switch c.Store.Backend {
	case store.BackendMemory, store.BackendSQLite:
	case store.BackendRedis:
		if c.Store.Redis.URL == "" {
			return fmt.Errorf("store.redis.url is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	return nil
}
