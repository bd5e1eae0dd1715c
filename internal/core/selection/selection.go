// Package selection holds the shared active-segment state for the dual-pane
// editor. A single Controller is owned by the page-level model and passed to
// both panes, the contextual toolbar, and the reasoning panel, so selecting
// a segment in either pane highlights the same logical unit everywhere.
package selection

// Controller tracks the active segment id and the reasoning panel
// visibility toggle. All mutations happen on the UI thread; no locking is
// required beyond Bubble Tea's single-threaded Update loop.
type Controller struct {
	activeID  int64
	hasActive bool
	panelOpen bool
}

// New returns a Controller with no selection.
func New() *Controller {
	return &Controller{}
}

// Active returns the active segment id, if any.
func (c *Controller) Active() (int64, bool) {
	return c.activeID, c.hasActive
}

// SetActive marks the given segment id as selected. The id is not required
// to exist in the currently rendered span set: a stale id simply renders as
// no highlight until a matching span appears after a data refresh.
func (c *Controller) SetActive(id int64) {
	c.activeID = id
	c.hasActive = true
}

// Clear drops the selection. Callers must clear explicitly when navigating
// to a different chapter or language; selections never carry across
// chapters implicitly.
func (c *Controller) Clear() {
	c.activeID = 0
	c.hasActive = false
}

// Is reports whether the given segment id is the active one.
func (c *Controller) Is(id int64) bool {
	return c.hasActive && c.activeID == id
}

// PanelOpen reports whether the reasoning panel is expanded. Visibility is
// independent of reasoning data fetching.
func (c *Controller) PanelOpen() bool {
	return c.panelOpen
}

// TogglePanel flips the reasoning panel visibility.
func (c *Controller) TogglePanel() {
	c.panelOpen = !c.panelOpen
}
