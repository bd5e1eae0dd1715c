// Package config handles configuration loading and validation for loom.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	TargetLanguage string         `yaml:"target_language"`
	TUI            TUIConfig      `yaml:"tui"`
	Database       DatabaseConfig `yaml:"database"`
	DataDir        string         `yaml:"-"` // set by caller, not from config file
}

// TUIConfig holds editor rendering and interaction settings.
type TUIConfig struct {
	Theme string `yaml:"theme"`
	// EditorMinWidth and EditorMaxWidth clamp the inline edit overlay.
	EditorMinWidth int `yaml:"editor_min_width"`
	EditorMaxWidth int `yaml:"editor_max_width"`
	// ScrollSyncCooldownMS is how long a pane ignores its own scroll
	// events after a synchronizer-driven scroll was applied to it.
	ScrollSyncCooldownMS int `yaml:"scroll_sync_cooldown_ms"`
	// ReasoningPanelWidth is the column width of the reasoning panel.
	ReasoningPanelWidth int `yaml:"reasoning_panel_width"`
}

// DatabaseConfig holds SQLite connection pool settings.
type DatabaseConfig struct {
	MaxOpenConns  int `yaml:"max_open_conns"`
	MaxIdleConns  int `yaml:"max_idle_conns"`
	BusyTimeoutMS int `yaml:"busy_timeout_ms"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		TargetLanguage: "en",
		TUI: TUIConfig{
			Theme:                "tokyo-night",
			EditorMinWidth:       40,
			EditorMaxWidth:       100,
			ScrollSyncCooldownMS: 100,
			ReasoningPanelWidth:  42,
		},
		Database: DatabaseConfig{
			MaxOpenConns:  10,
			MaxIdleConns:  5,
			BusyTimeoutMS: 5000,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// A missing or empty path returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults fills zero values left by a partial config file.
func (c *Config) applyDefaults() {
	def := DefaultConfig()

	if c.TargetLanguage == "" {
		c.TargetLanguage = def.TargetLanguage
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = def.TUI.Theme
	}
	if c.TUI.EditorMinWidth == 0 {
		c.TUI.EditorMinWidth = def.TUI.EditorMinWidth
	}
	if c.TUI.EditorMaxWidth == 0 {
		c.TUI.EditorMaxWidth = def.TUI.EditorMaxWidth
	}
	if c.TUI.ScrollSyncCooldownMS == 0 {
		c.TUI.ScrollSyncCooldownMS = def.TUI.ScrollSyncCooldownMS
	}
	if c.TUI.ReasoningPanelWidth == 0 {
		c.TUI.ReasoningPanelWidth = def.TUI.ReasoningPanelWidth
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = def.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = def.Database.MaxIdleConns
	}
	if c.Database.BusyTimeoutMS == 0 {
		c.Database.BusyTimeoutMS = def.Database.BusyTimeoutMS
	}
}

// Save writes the configuration as YAML to the given path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
