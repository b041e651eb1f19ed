// Package config manages the tunescout configuration
// (~/.config/tunescout/config.toml).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// GlobalConfig holds user-wide settings.
type GlobalConfig struct {
	DefaultProvider string       `toml:"default_provider"`
	DefaultModel    string       `toml:"default_model"`
	Keys            KeysConfig   `toml:"keys"`
	Ollama          HostConfig   `toml:"ollama"`
	LMStudio        HostConfig   `toml:"lmstudio"`
	Prompt          PromptConfig `toml:"prompt"`
	Cache           CacheConfig  `toml:"cache"`
}

type KeysConfig struct {
	OpenAI    string `toml:"openai"`
	Anthropic string `toml:"anthropic"`
}

// HostConfig points at a locally-hosted model server.
type HostConfig struct {
	Host string `toml:"host"`
}

// PromptConfig tunes prompt building. ContextWindow overrides the
// provider-reported window when set; the compression fields mirror the
// renderer's limits.
type PromptConfig struct {
	ContextWindow       int     `toml:"context_window"`
	Count               int     `toml:"count"`
	Temperature         float64 `toml:"temperature"`
	MinAlbumsPerGroup   int     `toml:"min_albums_per_group"`
	MaxRelaxedInflation float64 `toml:"max_relaxed_inflation"`
	AbsoluteRelaxedCap  int     `toml:"absolute_relaxed_cap"`
}

// CacheConfig controls the recommendation result cache.
type CacheConfig struct {
	Enabled  bool   `toml:"enabled"`
	Path     string `toml:"path"`
	TTLHours int    `toml:"ttl_hours"`
}

// DefaultGlobal returns sensible defaults.
func DefaultGlobal() GlobalConfig {
	return GlobalConfig{
		DefaultProvider: "ollama",
		DefaultModel:    "",
		Ollama: HostConfig{
			Host: "http://localhost:11434",
		},
		LMStudio: HostConfig{
			Host: "http://localhost:1234/v1",
		},
		Prompt: PromptConfig{
			Count:               10,
			Temperature:         0.7,
			MinAlbumsPerGroup:   3,
			MaxRelaxedInflation: 3.0,
			AbsoluteRelaxedCap:  5000,
		},
		Cache: CacheConfig{
			Enabled:  true,
			TTLHours: 24,
		},
	}
}

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "tunescout", "config.toml"), nil
}

// CachePath resolves the cache database location, defaulting to a
// sibling of the config file.
func (c GlobalConfig) CachePath() (string, error) {
	if c.Cache.Path != "" {
		return c.Cache.Path, nil
	}
	cfgPath, err := GlobalConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(cfgPath), "cache.db"), nil
}

// LoadGlobal loads the global config, applying defaults for any missing values.
func LoadGlobal() (GlobalConfig, error) {
	cfg := DefaultGlobal()

	path, err := GlobalConfigPath()
	if err != nil {
		return cfg, nil // Return defaults if we can't determine home dir.
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // File doesn't exist yet — use defaults.
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("config: load global: %w", err)
	}

	// Let env vars override config file API keys.
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Keys.OpenAI = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.Keys.Anthropic = v
	}

	return cfg, nil
}

// SaveGlobal writes the global config to disk.
func SaveGlobal(cfg GlobalConfig) error {
	path, err := GlobalConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: mkdir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: create global config: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Key returns the configured API key for the named provider (empty
// for providers that need none).
func (c GlobalConfig) Key(providerName string) string {
	switch providerName {
	case "openai":
		return c.Keys.OpenAI
	case "anthropic":
		return c.Keys.Anthropic
	}
	return ""
}

// Host returns the configured base URL for the named local provider.
func (c GlobalConfig) Host(providerName string) string {
	switch providerName {
	case "ollama":
		return c.Ollama.Host
	case "lmstudio":
		return c.LMStudio.Host
	}
	return ""
}
