package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"), "/data")
	require.NoError(t, err)

	assert.Equal(t, "en", cfg.TargetLanguage)
	assert.Equal(t, "tokyo-night", cfg.TUI.Theme)
	assert.Equal(t, 100, cfg.TUI.ScrollSyncCooldownMS)
	assert.Equal(t, "/data", cfg.DataDir)
}

func TestLoad_PartialFileMergesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loom.yml")
	require.NoError(t, os.WriteFile(path, []byte("target_language: de\ntui:\n  theme: gruvbox\n"), 0o644))

	cfg, err := Load(path, "/data")
	require.NoError(t, err)

	assert.Equal(t, "de", cfg.TargetLanguage)
	assert.Equal(t, "gruvbox", cfg.TUI.Theme)
	// Unset values come from defaults.
	assert.Equal(t, 40, cfg.TUI.EditorMinWidth)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "loom.yml")
	require.NoError(t, os.WriteFile(path, []byte("tui: [broken"), 0o644))

	_, err := Load(path, "/data")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"unknown theme", func(c *Config) { c.TUI.Theme = "neon" }, "unknown theme"},
		{"min width too small", func(c *Config) { c.TUI.EditorMinWidth = 5 }, "editor_min_width"},
		{"max below min", func(c *Config) { c.TUI.EditorMaxWidth = 20 }, "editor_max_width"},
		{"negative cooldown", func(c *Config) { c.TUI.ScrollSyncCooldownMS = -1 }, "scroll_sync_cooldown_ms"},
		{"narrow panel", func(c *Config) { c.TUI.ReasoningPanelWidth = 5 }, "reasoning_panel_width"},
		{"zero open conns", func(c *Config) { c.Database.MaxOpenConns = 0 }, "max_open_conns"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "loom.yml")

	cfg := DefaultConfig()
	cfg.TargetLanguage = "ja"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path, dir)
	require.NoError(t, err)
	assert.Equal(t, "ja", loaded.TargetLanguage)
	assert.Equal(t, cfg.TUI, loaded.TUI)
}
