// Package config loads powerline-tmux configuration from file and environment.
//
// Precedence (highest to lowest):
//  1. Environment variables (POWERLINE_TMUX_*, OTEL_EXPORTER_OTLP_*)
//  2. Config file
//  3. Built-in defaults
//
// Config file search order:
//  1. .powerline-tmux.yaml in current directory
//  2. ~/.config/powerline-tmux/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the current directory.
const FileName = ".powerline-tmux.yaml"

// Config holds all powerline-tmux configuration.
type Config struct {
	// Executable is the tmux binary to run. Empty means "tmux".
	Executable string `yaml:"executable"`
	// ConfigDir holds powerline-base.conf and the version-specific
	// powerline_tmux_*.conf files.
	ConfigDir string `yaml:"config_dir"`
	// Timeout bounds each CLI invocation. Go duration string, "0" or "off" disables.
	Timeout string `yaml:"timeout"`
	Verbose bool   `yaml:"verbose"`

	// OTEL
	OTELEndpoint string `yaml:"otel_endpoint"`
	OTELHeaders  string `yaml:"otel_headers"` // Comma-separated key=value pairs

	// TimeoutDuration is Timeout parsed; 0 means no timeout.
	TimeoutDuration time.Duration `yaml:"-"`

	// ConfigFile is the path to the config file that was loaded (empty if none).
	ConfigFile string `yaml:"-"`
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	return &Config{
		Executable: "tmux",
		Timeout:    "10s",
	}
}

// Load reads configuration from file and environment variables.
// Environment variables always override file values.
func Load() (*Config, error) {
	cfg := Defaults()

	if path, data, ok := findConfigFile(); ok {
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
		cfg.ConfigFile = path
		mergeFile(cfg, &fileCfg)
	}

	mergeEnv(cfg)

	var err error
	cfg.TimeoutDuration, err = parseDurationOrDisable(cfg.Timeout, 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout %q: %w", cfg.Timeout, err)
	}

	return cfg, nil
}

func findConfigFile() (string, []byte, bool) {
	if data, err := os.ReadFile(FileName); err == nil {
		return FileName, data, true
	}
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".config", "powerline-tmux", "config.yaml")
		if data, err := os.ReadFile(path); err == nil {
			return path, data, true
		}
	}
	return "", nil, false
}

// mergeFile applies non-zero file values onto cfg.
func mergeFile(cfg *Config, file *Config) {
	if file.Executable != "" {
		cfg.Executable = file.Executable
	}
	if file.ConfigDir != "" {
		cfg.ConfigDir = file.ConfigDir
	}
	if file.Timeout != "" {
		cfg.Timeout = file.Timeout
	}
	if file.Verbose {
		cfg.Verbose = true
	}
	if file.OTELEndpoint != "" {
		cfg.OTELEndpoint = file.OTELEndpoint
	}
	if file.OTELHeaders != "" {
		cfg.OTELHeaders = file.OTELHeaders
	}
}

// mergeEnv applies environment variables onto cfg. Env always wins.
func mergeEnv(cfg *Config) {
	if v := os.Getenv("POWERLINE_TMUX_EXE"); v != "" {
		cfg.Executable = v
	}
	if v := os.Getenv("POWERLINE_TMUX_CONFIG_DIR"); v != "" {
		cfg.ConfigDir = v
	}
	if v := os.Getenv("POWERLINE_TMUX_TIMEOUT"); v != "" {
		cfg.Timeout = v
	}
	if v := os.Getenv("POWERLINE_TMUX_VERBOSE"); v == "true" || v == "1" {
		cfg.Verbose = true
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTELEndpoint = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"); v != "" {
		cfg.OTELHeaders = v
	}
}

// parseDurationOrDisable parses a duration string. "0", "off", "disable" return 0.
// Empty string returns the fallback value.
func parseDurationOrDisable(s string, fallback time.Duration) (time.Duration, error) {
	if s == "" {
		return fallback, nil
	}
	if s == "0" || s == "off" || s == "disable" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
