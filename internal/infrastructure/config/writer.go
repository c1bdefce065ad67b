package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigYAML is the default configuration content.
const DefaultConfigYAML = `# Trust-Core Configuration

engine:
  workers: 12
  min_replay_events: 3
  max_replay_points: 50
  pattern_threshold: 2
  max_insights: 8
  history_window: 30
  compare_concurrency: 4

llm:
  provider: openai
  model: gpt-4o-mini
  # api_key: your-api-key (or set OPENAI_API_KEY env var)

qdrant:
  host: localhost
  port: 6334
  collection: trust_profiles
  # api_key: your-api-key (for Qdrant Cloud)

# sqlite:
#   path: .trust/history.db

log:
  level: info
  format: console

metrics:
  namespace: trust
  # file: metrics.prom
`

// WriteDefault creates the .trust directory and writes a default config file.
func WriteDefault(basePath string) error {
	configDir := ConfigDir(basePath)
	configFile := ConfigFilePath(basePath)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists: %s", configFile)
	}

	if err := os.WriteFile(configFile, []byte(DefaultConfigYAML), 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Write writes the given config to the config file.
func Write(basePath string, cfg *Config) error {
	configDir := filepath.Join(basePath, DefaultConfigDir)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(ConfigFilePath(basePath), data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
