// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is the directory name for trust configuration.
	DefaultConfigDir = ".trust"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultHistoryFile is the default SQLite history database file name.
	DefaultHistoryFile = "history.db"
	// DefaultCollection is the default Qdrant collection for trust profiles.
	DefaultCollection = "trust_profiles"
)

var (
	// reNonAlphanumeric matches characters that aren't alphanumeric or underscore.
	reNonAlphanumeric = regexp.MustCompile(`[^a-z0-9_]`)
	// reMultipleUnderscores matches consecutive underscores.
	reMultipleUnderscores = regexp.MustCompile(`_+`)
)

// Config holds static infrastructure configuration (read-only after init).
type Config struct {
	Engine  EngineConfig  `yaml:"engine,omitempty"`
	LLM     LLMConfig     `yaml:"llm,omitempty"`
	Qdrant  QdrantConfig  `yaml:"qdrant,omitempty"`
	SQLite  SQLiteConfig  `yaml:"sqlite,omitempty"`
	Log     LogConfig     `yaml:"log,omitempty"`
	Metrics MetricsConfig `yaml:"metrics,omitempty"`
}

// EngineConfig holds tuning for the scoring engine. Zero values fall back
// to engine defaults.
type EngineConfig struct {
	Workers          int64 `yaml:"workers,omitempty"`
	MinReplayEvents  int   `yaml:"min_replay_events,omitempty"`
	MaxReplayPoints  int   `yaml:"max_replay_points,omitempty"`
	PatternThreshold int   `yaml:"pattern_threshold,omitempty"`
	MaxInsights      int   `yaml:"max_insights,omitempty"`
	HistoryWindow    int   `yaml:"history_window,omitempty"`

	// CompareConcurrency bounds entities scored at once by compare.
	CompareConcurrency int `yaml:"compare_concurrency,omitempty"`
}

// LLMConfig holds configuration for the narration LLM provider.
type LLMConfig struct {
	Provider string `yaml:"provider,omitempty"`
	Model    string `yaml:"model,omitempty"`
	APIKey   string `yaml:"api_key,omitempty"`
	// BaseURL overrides the API endpoint, for proxies and compatible servers.
	BaseURL string `yaml:"base_url,omitempty"`
}

// QdrantConfig holds configuration for the Qdrant profile index.
type QdrantConfig struct {
	Host       string `yaml:"host,omitempty"`
	Port       int    `yaml:"port,omitempty"`
	Collection string `yaml:"collection,omitempty"`
	APIKey     string `yaml:"api_key,omitempty"`
}

// SQLiteConfig holds configuration for the SQLite history database.
type SQLiteConfig struct {
	// Path is the file path to the SQLite database. When empty it is
	// computed with HistoryDBPath.
	Path string `yaml:"path,omitempty"`
}

// LogConfig holds logger configuration.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level,omitempty"`
	// Format is json or console.
	Format string `yaml:"format,omitempty"`
}

// MetricsConfig holds Prometheus metrics configuration.
type MetricsConfig struct {
	Namespace string `yaml:"namespace,omitempty"`
	// File, when set, receives the metrics in text exposition format on exit.
	File string `yaml:"file,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			Workers:            12,
			MinReplayEvents:    3,
			MaxReplayPoints:    50,
			PatternThreshold:   2,
			MaxInsights:        8,
			HistoryWindow:      30,
			CompareConcurrency: 4,
		},
		LLM: LLMConfig{
			Provider: "openai",
			Model:    "gpt-4o-mini",
		},
		Qdrant: QdrantConfig{
			Host:       "localhost",
			Port:       6334,
			Collection: DefaultCollection,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Metrics: MetricsConfig{
			Namespace: "trust",
		},
	}
}

// Load loads configuration from the .trust directory in the given path.
func Load(basePath string) (*Config, error) {
	configFile := ConfigFilePath(basePath)

	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s (run 'trust init' first)", configFile)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Start with defaults
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	cfg.applyEnvOverrides()

	return cfg, nil
}

// LoadOrDefault loads configuration if a config file exists and falls back
// to defaults (with environment overrides) otherwise.
func LoadOrDefault(basePath string) (*Config, error) {
	if !Exists(basePath) {
		cfg := Default()
		cfg.applyEnvOverrides()
		return cfg, nil
	}
	return Load(basePath)
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		if c.LLM.APIKey == "" {
			c.LLM.APIKey = key
		}
	}
	if key := os.Getenv("QDRANT_API_KEY"); key != "" {
		if c.Qdrant.APIKey == "" {
			c.Qdrant.APIKey = key
		}
	}
	if level := os.Getenv("TRUST_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
}

// NarrationEnabled reports whether an LLM API key is configured.
func (c *Config) NarrationEnabled() bool {
	return c.LLM.APIKey != ""
}

// ConfigDir returns the path to the .trust config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

// HistoryDBPath returns the SQLite history path, honoring an explicit
// sqlite.path setting.
func (c *Config) HistoryDBPath(basePath string) string {
	if c.SQLite.Path != "" {
		return c.SQLite.Path
	}
	return filepath.Join(basePath, DefaultConfigDir, DefaultHistoryFile)
}

// Exists checks if a trust config exists in the given path.
func Exists(basePath string) bool {
	_, err := os.Stat(ConfigFilePath(basePath))
	return err == nil
}

// SanitizeName converts a free-form name to a valid collection suffix.
func SanitizeName(name string) string {
	// Convert to lowercase
	name = strings.ToLower(name)

	// Replace spaces and hyphens with underscores
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "-", "_")

	// Remove any characters that aren't alphanumeric or underscore
	name = reNonAlphanumeric.ReplaceAllString(name, "")

	// Remove consecutive underscores
	name = reMultipleUnderscores.ReplaceAllString(name, "_")

	// Trim leading/trailing underscores
	name = strings.Trim(name, "_")

	if name == "" {
		return DefaultCollection
	}

	return name
}

// CollectionName returns the sanitized Qdrant collection name.
func (c *Config) CollectionName() string {
	return SanitizeName(c.Qdrant.Collection)
}
