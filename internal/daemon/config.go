// Package daemon manages the Stride daemon lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all daemon configuration.
type Config struct {
	API     APIConfig     `toml:"api"`
	Store   StoreConfig   `toml:"store"`
	Logging LoggingConfig `toml:"logging"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	Metrics bool   `toml:"metrics"`
}

// StoreConfig selects and configures the document store backend.
// "sqlite" keeps everything in the local data dir; "surreal" syncs
// documents to a remote SurrealDB so other devices see them.
type StoreConfig struct {
	Backend     string `toml:"backend"` // "sqlite" or "surreal"
	TimeoutSecs int    `toml:"timeout_secs"`

	// Remote backend settings.
	Host      string `toml:"host"`
	Port      string `toml:"port"`
	User      string `toml:"user"`
	Password  string `toml:"password"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
}

// Timeout returns the per-operation store timeout.
func (s StoreConfig) Timeout() time.Duration {
	if s.TimeoutSecs <= 0 {
		return 15 * time.Second
	}
	return time.Duration(s.TimeoutSecs) * time.Second
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// DefaultConfig returns a sensible default configuration: local SQLite
// store, loopback API, metrics on.
func DefaultConfig() Config {
	homeDir := strideHome()
	return Config{
		API: APIConfig{
			Host:    "127.0.0.1",
			Port:    8422,
			Metrics: true,
		},
		Store: StoreConfig{
			Backend:     "sqlite",
			TimeoutSecs: 15,
			Namespace:   "stride",
			Database:    "habits",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(homeDir, "stride.log"),
		},
	}
}

// LoadConfig reads config from ~/.stride/config.toml, falling back to defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(strideHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // No config file yet — use defaults
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes the config to ~/.stride/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(strideHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// strideHome returns the Stride data directory.
func strideHome() string {
	if env := os.Getenv("STRIDE_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".stride")
}

// StrideHome is exported for use by other packages.
func StrideHome() string {
	return strideHome()
}
