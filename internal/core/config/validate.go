package config

import (
	"fmt"

	"github.com/aldersky/loom/internal/core/styles"
)

// Validate checks configuration values that would otherwise fail deep
// inside the TUI.
func (c *Config) Validate() error {
	if _, ok := styles.GetPalette(c.TUI.Theme); !ok {
		return fmt.Errorf("unknown theme %q (available: %v)", c.TUI.Theme, styles.ThemeNames())
	}

	if c.TUI.EditorMinWidth < 10 {
		return fmt.Errorf("tui.editor_min_width must be at least 10, got %d", c.TUI.EditorMinWidth)
	}
	if c.TUI.EditorMaxWidth < c.TUI.EditorMinWidth {
		return fmt.Errorf("tui.editor_max_width (%d) must not be below tui.editor_min_width (%d)",
			c.TUI.EditorMaxWidth, c.TUI.EditorMinWidth)
	}
	if c.TUI.ScrollSyncCooldownMS < 0 {
		return fmt.Errorf("tui.scroll_sync_cooldown_ms must not be negative")
	}
	if c.TUI.ReasoningPanelWidth < 20 {
		return fmt.Errorf("tui.reasoning_panel_width must be at least 20, got %d", c.TUI.ReasoningPanelWidth)
	}

	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("database.max_open_conns must be at least 1")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns must not be negative")
	}

	return nil
}
