// Package geometry computes container-relative placement for the edit
// overlay and the contextual toolbar. Querying rendered bounds is boundary
// work that belongs to the pane; the placement rules live here as pure
// functions so they stay testable without a rendering surface.
package geometry

// Rect is a container-relative rectangle in cells. Row and Col are relative
// to the scrollable container's content origin, not the terminal viewport.
type Rect struct {
	Row    int
	Col    int
	Width  int
	Height int
}

// Provider resolves a segment id to its on-screen bounding rectangle within
// a pane's scrollable container. The pane's renderer implements it from its
// span-to-line index; a zero Rect with ok=false means the segment is not in
// the currently rendered span set.
type Provider interface {
	SegmentBounds(segmentID int64) (Rect, bool)
}

// ClampWidth bounds a desired width to [minW, maxW] and additionally to the
// available container width. The overlay wants at least the anchor
// element's width but must stay readable on narrow and very wide panes.
func ClampWidth(desired, minW, maxW, available int) int {
	w := desired
	if w < minW {
		w = minW
	}
	if maxW > 0 && w > maxW {
		w = maxW
	}
	if available > 0 && w > available {
		w = available
	}
	if w < 1 {
		w = 1
	}
	return w
}

// AnchorAt places a box of the given height at the anchor's top-left,
// clamped so the box stays inside a container of containerHeight rows.
// Used by the edit overlay, which covers the segment it edits.
func AnchorAt(anchor Rect, boxHeight, containerHeight int) Rect {
	row := anchor.Row
	if containerHeight > 0 && row+boxHeight > containerHeight {
		row = containerHeight - boxHeight
	}
	if row < 0 {
		row = 0
	}
	return Rect{Row: row, Col: anchor.Col, Width: anchor.Width, Height: boxHeight}
}

// AnchorBelow places a one-line-tall box directly below the anchor,
// clamping to the container's last row when the anchor touches the bottom.
// Used by the contextual toolbar.
func AnchorBelow(anchor Rect, boxHeight, containerHeight int) Rect {
	row := anchor.Row + anchor.Height
	if containerHeight > 0 && row+boxHeight > containerHeight {
		row = containerHeight - boxHeight
	}
	if row < 0 {
		row = 0
	}
	return Rect{Row: row, Col: anchor.Col, Width: anchor.Width, Height: boxHeight}
}
