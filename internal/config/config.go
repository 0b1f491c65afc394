// Package config loads and validates rankfuse configuration.
//
// Configuration is applied in order of increasing precedence:
//  1. Hardcoded defaults (NewConfig)
//  2. User/global config (~/.config/rankfuse/config.yaml)
//  3. Project config (.rankfuse.yaml in the working directory, or an
//     explicit --config path)
//  4. Environment variables (RANKFUSE_*)
//
// Command-line flags override all of the above at the CLI layer.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/rankfuse/pkg/rbc"
)

// Output formats accepted by the CLI.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Color modes accepted by the CLI.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config represents the complete rankfuse configuration.
type Config struct {
	// Persistence is the default decay parameter, in [0, 1).
	Persistence float64 `yaml:"persistence" json:"persistence"`

	// Format selects the output format: "text" or "json".
	Format string `yaml:"format" json:"format"`

	// Top limits output to the N best items. 0 means all.
	Top int `yaml:"top" json:"top"`

	// ItemsOnly drops scores from the output.
	ItemsOnly bool `yaml:"items_only" json:"items_only"`

	// Concurrency is the worker count for fusion accumulation and file
	// loading. 0 or 1 means sequential.
	Concurrency int `yaml:"concurrency" json:"concurrency"`

	Watch  WatchConfig  `yaml:"watch" json:"watch"`
	Log    LogConfig    `yaml:"log" json:"log"`
	Output OutputConfig `yaml:"output" json:"output"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	// Debounce is how long to coalesce file events before re-fusing,
	// as a duration string (e.g. "300ms").
	Debounce string `yaml:"debounce" json:"debounce"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" json:"level"`

	// File is the log file path. Empty logs to stderr only.
	File string `yaml:"file" json:"file"`
}

// OutputConfig configures terminal output.
type OutputConfig struct {
	// Color is one of auto, always, never.
	Color string `yaml:"color" json:"color"`
}

// NewConfig creates a new Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Persistence: rbc.DefaultPersistence,
		Format:      FormatText,
		Top:         0,
		ItemsOnly:   false,
		Concurrency: 0,
		Watch: WatchConfig{
			Debounce: "300ms",
		},
		Log: LogConfig{
			Level: "info",
			File:  "",
		},
		Output: OutputConfig{
			Color: ColorAuto,
		},
	}
}

// GetUserConfigPath returns the path to the user/global configuration file.
// It follows the XDG Base Directory specification:
//   - $XDG_CONFIG_HOME/rankfuse/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/rankfuse/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "rankfuse", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "rankfuse", "config.yaml")
	}
	return filepath.Join(home, ".config", "rankfuse", "config.yaml")
}

// loadUserConfig loads the user/global configuration file if it exists.
// Returns nil config and nil error if the file doesn't exist.
func loadUserConfig() (*Config, error) {
	path := GetUserConfigPath()
	if !fileExists(path) {
		return nil, nil
	}

	cfg := NewConfig()
	if err := cfg.loadYAML(path); err != nil {
		return nil, fmt.Errorf("failed to load user config from %s: %w", path, err)
	}
	return cfg, nil
}

// Load loads configuration for the given working directory, applying the
// full precedence chain and validating the result.
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	if userCfg, err := loadUserConfig(); err != nil {
		return nil, err
	} else if userCfg != nil {
		cfg.mergeWith(userCfg)
	}

	if err := cfg.loadFromDir(dir); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadFile loads configuration from an explicit file path (--config),
// still honoring environment overrides. A missing file is an error here,
// unlike the optional project config.
func LoadFile(path string) (*Config, error) {
	cfg := NewConfig()

	if err := cfg.loadYAML(path); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadFromDir attempts to load .rankfuse.yaml or .rankfuse.yml from dir.
// No config file is fine; defaults apply.
func (c *Config) loadFromDir(dir string) error {
	yamlPath := filepath.Join(dir, ".rankfuse.yaml")
	if fileExists(yamlPath) {
		return c.loadYAML(yamlPath)
	}

	ymlPath := filepath.Join(dir, ".rankfuse.yml")
	if fileExists(ymlPath) {
		return c.loadYAML(ymlPath)
	}

	return nil
}

// loadYAML loads and merges configuration from a YAML file.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	c.mergeWith(&parsed)
	return nil
}

// mergeWith merges non-zero values from other into c. A zero persistence
// cannot be expressed in a file; use RANKFUSE_PERSISTENCE=0 or -p 0, which
// apply after merging.
func (c *Config) mergeWith(other *Config) {
	if other.Persistence != 0 {
		c.Persistence = other.Persistence
	}
	if other.Format != "" {
		c.Format = other.Format
	}
	if other.Top != 0 {
		c.Top = other.Top
	}
	if other.ItemsOnly {
		c.ItemsOnly = true
	}
	if other.Concurrency != 0 {
		c.Concurrency = other.Concurrency
	}

	if other.Watch.Debounce != "" {
		c.Watch.Debounce = other.Watch.Debounce
	}

	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
	if other.Log.File != "" {
		c.Log.File = other.Log.File
	}

	if other.Output.Color != "" {
		c.Output.Color = other.Output.Color
	}
}

// applyEnvOverrides applies RANKFUSE_* environment variable overrides.
// Env vars can express explicit zero values that file merging cannot.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("RANKFUSE_PERSISTENCE"); v != "" {
		if p, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			c.Persistence = p
		}
	}
	if v := os.Getenv("RANKFUSE_FORMAT"); v != "" {
		c.Format = v
	}
	if v := os.Getenv("RANKFUSE_TOP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Top = n
		}
	}
	if v := os.Getenv("RANKFUSE_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Concurrency = n
		}
	}
	if v := os.Getenv("RANKFUSE_DEBOUNCE"); v != "" {
		c.Watch.Debounce = v
	}
	if v := os.Getenv("RANKFUSE_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("RANKFUSE_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv("RANKFUSE_COLOR"); v != "" {
		c.Output.Color = v
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if math.IsNaN(c.Persistence) || c.Persistence < 0 || c.Persistence >= 1 {
		return fmt.Errorf("persistence must be in [0, 1), got %v", c.Persistence)
	}

	validFormats := map[string]bool{FormatText: true, FormatJSON: true}
	if !validFormats[strings.ToLower(c.Format)] {
		return fmt.Errorf("format must be 'text' or 'json', got %s", c.Format)
	}

	if c.Top < 0 {
		return fmt.Errorf("top must be non-negative, got %d", c.Top)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must be non-negative, got %d", c.Concurrency)
	}

	if d, err := time.ParseDuration(c.Watch.Debounce); err != nil {
		return fmt.Errorf("watch.debounce must be a duration like '300ms', got %s", c.Watch.Debounce)
	} else if d <= 0 {
		return fmt.Errorf("watch.debounce must be positive, got %s", c.Watch.Debounce)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("log.level must be 'debug', 'info', 'warn', or 'error', got %s", c.Log.Level)
	}

	validColors := map[string]bool{ColorAuto: true, ColorAlways: true, ColorNever: true}
	if !validColors[strings.ToLower(c.Output.Color)] {
		return fmt.Errorf("output.color must be 'auto', 'always', or 'never', got %s", c.Output.Color)
	}

	return nil
}

// DebounceDuration returns the parsed watch debounce interval.
// Call Validate first; invalid strings fall back to 300ms here.
func (c *Config) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil || d <= 0 {
		return 300 * time.Millisecond
	}
	return d
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
