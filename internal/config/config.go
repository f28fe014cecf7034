// Package config resolves the notedock base directory and loads the
// optional config.toml inside it.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/notedock/notedock/internal/logger"
)

// EnvBaseDir overrides the base directory when set.
const EnvBaseDir = "NOTEDOCK_CONFIG_PATH"

// DefaultPort identifies the sidecar server when config.toml does not set one.
const DefaultPort = 4517

const (
	defaultDirName       = ".notedock"
	defaultServerCommand = "notedock-server"
	defaultControlListen = "127.0.0.1:4580"
	defaultControlBase   = "/api"
)

// ServerConfig describes the sidecar server command.
type ServerConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
	WorkDir string   `mapstructure:"workdir"`
	Env     []string `mapstructure:"env"`
}

// ControlConfig describes the local HTTP control surface the UI layer calls.
type ControlConfig struct {
	Listen   string `mapstructure:"listen"`
	BasePath string `mapstructure:"base_path"`
}

// MetricsConfig enables the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
}

// HistoryConfig enables the lifecycle event audit store.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DSN     string `mapstructure:"dsn"`
}

// Config is the resolved runtime configuration for one shell run.
type Config struct {
	BaseDir string

	Port    int                  `mapstructure:"port"`
	Server  ServerConfig         `mapstructure:"server"`
	Control ControlConfig        `mapstructure:"control"`
	Metrics MetricsConfig        `mapstructure:"metrics"`
	History HistoryConfig        `mapstructure:"history"`
	Capture logger.CaptureConfig `mapstructure:"capture"`
}

// ResolveBaseDir determines where notedock keeps its lock record, config
// file, and databases. The environment override wins; otherwise the home
// directory fallback is used with a warning. The directory is created with
// parents. There is no recovery path when neither source yields a
// directory: the shell cannot establish where to place its lock record.
func ResolveBaseDir(log *slog.Logger) (string, error) {
	dir := os.Getenv(EnvBaseDir)
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("determine home directory: %w", err)
		}
		log.Warn("base directory not set, falling back to home directory", "env", EnvBaseDir)
		dir = filepath.Join(home, defaultDirName)
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create base directory %s: %w", dir, err)
	}
	return dir, nil
}

// Load reads config.toml from baseDir when present and applies defaults.
// A missing file is fine; a file that fails to parse is an operator error
// and fatal, unlike a corrupt lock record.
func Load(baseDir string) (*Config, error) {
	cfg := &Config{
		BaseDir: baseDir,
		Port:    DefaultPort,
		Server:  ServerConfig{Command: defaultServerCommand},
		Control: ControlConfig{Listen: defaultControlListen, BasePath: defaultControlBase},
	}

	path := filepath.Join(baseDir, "config.toml")
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("stat config %s: %w", path, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Server.Command == "" {
		return fmt.Errorf("server command must not be empty")
	}
	if c.Control.Listen == "" {
		return fmt.Errorf("control listen address must not be empty")
	}
	return nil
}

// HistoryDSN returns the SQLite DSN for the audit store, defaulting to a
// database file inside the base directory.
func (c *Config) HistoryDSN() string {
	if c.History.DSN != "" {
		return c.History.DSN
	}
	return filepath.Join(c.BaseDir, "history.db")
}
