// Package scrollsync couples the vertical scroll positions of two panes of
// unrelated content length using proportional mapping.
//
// The mapping is a heuristic, not a per-segment anchor: source and
// translated texts differ in length and wrapping, so synchronized positions
// are approximate and may drift at high scroll velocity. That trade-off is
// intentional; an anchor-based sync would need per-segment geometry from
// both panes on every scroll.
package scrollsync

import "time"

// Pane identifies one side of the coupled pair.
type Pane int

const (
	PaneLeft Pane = iota
	PaneRight
)

// Other returns the opposite pane.
func (p Pane) Other() Pane {
	if p == PaneLeft {
		return PaneRight
	}
	return PaneLeft
}

// Metrics describes one pane's scroll state in lines. ContentLines is the
// total rendered line count, ViewLines the visible window height, and
// Offset the index of the first visible line.
type Metrics struct {
	ContentLines int
	ViewLines    int
	Offset       int
}

// maxOffset returns the largest valid offset, 0 when not scrollable.
func (m Metrics) maxOffset() int {
	if m.ContentLines <= m.ViewLines {
		return 0
	}
	return m.ContentLines - m.ViewLines
}

// Percent returns the pane's proportional scroll position in [0, 1],
// defined as 0 when the content is not scrollable.
func (m Metrics) Percent() float64 {
	denom := m.maxOffset()
	if denom <= 0 {
		return 0
	}
	p := float64(m.Offset) / float64(denom)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Target maps the source pane's proportional position onto the destination
// pane and returns the destination offset, rounded to the nearest line and
// clamped to the destination's scrollable range.
func Target(from, to Metrics) int {
	denom := to.maxOffset()
	if denom <= 0 {
		return 0
	}
	target := int(from.Percent()*float64(denom) + 0.5)
	if target < 0 {
		return 0
	}
	if target > denom {
		return denom
	}
	return target
}

// DefaultCooldown is how long a pane ignores its own scroll events after a
// programmatic scroll was applied to it.
const DefaultCooldown = 100 * time.Millisecond

// Guard suppresses synchronization feedback. Each pane is an independent
// two-state machine: idle, or suppressing until a deadline. While pane B is
// suppressing, scrolls observed on B do not propagate back into A; without
// this a bidirectional binding oscillates, since scroll events arrive
// asynchronously after the programmatic update that caused them.
type Guard struct {
	cooldown time.Duration
	until    [2]time.Time
}

// NewGuard returns a guard with the given cooldown. A non-positive cooldown
// falls back to DefaultCooldown.
func NewGuard(cooldown time.Duration) *Guard {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Guard{cooldown: cooldown}
}

// Suppress marks the pane as programmatically scrolled at now, starting its
// cooldown window.
func (g *Guard) Suppress(p Pane, now time.Time) {
	g.until[p] = now.Add(g.cooldown)
}

// Suppressed reports whether scroll events from the pane must be ignored at
// now. The guard is per direction: suppressing one pane never blocks the
// other from initiating synchronization.
func (g *Guard) Suppressed(p Pane, now time.Time) bool {
	return now.Before(g.until[p])
}
