package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	AppName = "Task Manager"
	Version = "0.2.0"
)

// Config holds the few knobs the application has. Everything lives under
// ~/.taskman by default.
type Config struct {
	DataDir string `json:"dataDir"`
	LogDir  string `json:"logDir"`
	Debug   bool   `json:"debug"`
}

func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	base := filepath.Join(home, ".taskman")
	return &Config{
		DataDir: filepath.Join(base, "data"),
		LogDir:  filepath.Join(base, "logs"),
	}
}

func ConfigDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".taskman")
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json")
}

// LoadConfig reads config.json when present and applies environment
// overrides on top. A missing file just yields the defaults.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if dir := os.Getenv("TASKMAN_DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}
	if dir := os.Getenv("TASKMAN_LOG_DIR"); dir != "" {
		cfg.LogDir = dir
	}
	if v := os.Getenv("TASKMAN_DEBUG"); v == "1" || v == "true" {
		cfg.Debug = true
	}

	if cfg.DataDir == "" {
		cfg.DataDir = DefaultConfig().DataDir
	}
	if cfg.LogDir == "" {
		cfg.LogDir = DefaultConfig().LogDir
	}

	return cfg, nil
}

// SaveConfig writes the config back as indented JSON.
func SaveConfig(cfg *Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(ConfigPath(), data, 0644)
}
