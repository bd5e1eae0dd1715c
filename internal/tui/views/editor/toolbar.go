package editor

import (
	"github.com/aldersky/loom/internal/core/geometry"
	"github.com/aldersky/loom/internal/core/styles"
	"github.com/aldersky/loom/internal/tui/overlay"
)

// Toolbar is the one-line contextual action hint anchored below the active
// segment. It is display-only; the owning model handles the keys it
// advertises.
type Toolbar struct {
	Hidden bool
}

// NewToolbar creates a toolbar.
func NewToolbar() Toolbar {
	return Toolbar{}
}

// View renders the toolbar content.
func (t Toolbar) View() string {
	return styles.ToolbarStyle.Render(" e edit · r re-translate · i reasoning ")
}

// Overlay composites the toolbar onto bg directly below the anchor
// rectangle, clamped to the editor area height.
func (t Toolbar) Overlay(bg string, anchor geometry.Rect, areaHeight int) string {
	if t.Hidden {
		return bg
	}
	rect := geometry.AnchorBelow(anchor, 1, areaHeight)
	return overlay.Composite(t.View(), bg, rect.Row, rect.Col)
}
