package config

import (
	"time"

	"github.com/phuongpt0301/jupay-demo-sub001/internal/store"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Navigation NavigationConfig `yaml:"navigation"`
	Store      store.Config     `yaml:"store"`
	Server     ServerConfig     `yaml:"server"`
	Logging    LoggingConfig    `yaml:"logging"`
	Language   string           `yaml:"language"` // en, vi
}

// NavigationConfig holds the simulated-latency settings.
type NavigationConfig struct {
	Delay       time.Duration `yaml:"delay"`
	DefaultPath string        `yaml:"default_path"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // TUI mode only; the terminal belongs to the UI
}
