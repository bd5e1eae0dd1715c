package editor

import (
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/aldersky/loom/internal/core/geometry"
	"github.com/aldersky/loom/internal/core/pipeline"
	"github.com/aldersky/loom/internal/core/scrollsync"
	"github.com/aldersky/loom/internal/core/segment"
	"github.com/aldersky/loom/internal/core/selection"
)

// View coordinates the two panes over one shared selection, keeps their
// scroll positions proportionally coupled, and renders the contextual
// toolbar and the reasoning panel.
type View struct {
	source     Pane
	translated Pane

	sel        *selection.Controller
	guard      *scrollsync.Guard
	panel      ReasoningPanel
	toolbar    Toolbar
	data       pipeline.EditorData
	panelWidth int

	width  int
	height int

	now func() time.Time
}

// New creates an editor view. The selection controller is shared with the
// owning model so modals observe the same active segment.
func New(sel *selection.Controller, cooldown time.Duration, panelWidth int) View {
	return View{
		source:     NewPane(segment.SideSource, "Source"),
		translated: NewPane(segment.SideTranslated, "Translation"),
		sel:        sel,
		guard:      scrollsync.NewGuard(cooldown),
		panel:      NewReasoningPanel(panelWidth),
		toolbar:    NewToolbar(),
		panelWidth: panelWidth,
		now:        time.Now,
	}
}

// SetSize resizes the editor area (both panes plus the panel when open).
func (v *View) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.layout()
}

func (v *View) layout() {
	contentWidth := v.width
	if v.sel.PanelOpen() {
		contentWidth -= v.panelWidth
	}
	if contentWidth < 2 {
		contentWidth = 2
	}

	sourceWidth := contentWidth / 2
	v.source.SetSize(sourceWidth, v.height)
	v.translated.SetSize(contentWidth-sourceWidth, v.height)
	v.panel.SetSize(v.panelWidth, v.height)
}

// SetData replaces the editor data after a load or refetch. The selection
// survives when its segment still exists; scroll offsets are preserved by
// the panes.
func (v *View) SetData(data pipeline.EditorData) error {
	v.data = data

	if id, ok := v.sel.Active(); ok {
		if _, exists := data.Map.Lookup(id); !exists {
			v.sel.Clear()
		}
	}

	activeID, _ := v.sel.Active()
	if err := v.source.SetContent(data.SourceText, data.Map, activeID); err != nil {
		return err
	}
	if err := v.translated.SetContent(data.TranslatedText, data.Map, activeID); err != nil {
		return err
	}

	if !v.source.Focused() && !v.translated.Focused() {
		v.translated.Focus(true)
	}
	return nil
}

// Data returns the currently rendered editor data.
func (v *View) Data() pipeline.EditorData {
	return v.data
}

// Active returns the map entry of the active segment.
func (v *View) Active() (segment.Entry, bool) {
	id, ok := v.sel.Active()
	if !ok {
		return segment.Entry{}, false
	}
	return v.data.Map.Lookup(id)
}

// ActiveSpan returns the active segment's span on the translated side.
func (v *View) ActiveSpan() (segment.Span, bool) {
	id, ok := v.sel.Active()
	if !ok {
		return segment.Span{}, false
	}
	for _, span := range v.translated.Spans() {
		if span.SegmentID == id {
			return span, true
		}
	}
	return segment.Span{}, false
}

// SourceSpan returns the active segment's span on the source side.
func (v *View) SourceSpan() (segment.Span, bool) {
	id, ok := v.sel.Active()
	if !ok {
		return segment.Span{}, false
	}
	for _, span := range v.source.Spans() {
		if span.SegmentID == id {
			return span, true
		}
	}
	return segment.Span{}, false
}

// SelectSegment makes the given segment active in both panes and scrolls
// each pane the minimum distance to show it.
func (v *View) SelectSegment(id int64) {
	if _, ok := v.data.Map.Lookup(id); !ok {
		return
	}
	v.sel.SetActive(id)
	v.source.SetActive(id)
	v.translated.SetActive(id)
	v.source.ScrollToSegment(id)
	v.translated.ScrollToSegment(id)
}

// NextSegment moves the selection forward in document order, or selects
// the first segment when nothing is active.
func (v *View) NextSegment() {
	v.step(1)
}

// PrevSegment moves the selection backward in document order.
func (v *View) PrevSegment() {
	v.step(-1)
}

func (v *View) step(delta int) {
	if len(v.data.Map) == 0 {
		return
	}

	id, ok := v.sel.Active()
	if !ok {
		v.SelectSegment(v.data.Map[0].SegmentID)
		return
	}

	idx := v.data.Map.IndexOf(id)
	if idx < 0 {
		v.SelectSegment(v.data.Map[0].SegmentID)
		return
	}

	idx += delta
	if idx < 0 || idx >= len(v.data.Map) {
		return
	}
	v.SelectSegment(v.data.Map[idx].SegmentID)
}

// SwitchFocus moves scroll focus to the other pane.
func (v *View) SwitchFocus() {
	v.source.Focus(!v.source.Focused())
	v.translated.Focus(!v.source.Focused())
}

// ScrollFocused scrolls the focused pane by delta lines and mirrors the
// movement proportionally onto the other pane.
func (v *View) ScrollFocused(delta int) {
	if v.source.Focused() {
		v.scroll(&v.source, scrollsync.PaneLeft, delta)
	} else {
		v.scroll(&v.translated, scrollsync.PaneRight, delta)
	}
}

func (v *View) scroll(p *Pane, side scrollsync.Pane, delta int) {
	p.ScrollBy(delta)

	// Suppression only blocks the mirror back into the other pane; the
	// user's own input always lands locally.
	if v.guard.Suppressed(side, v.now()) {
		return
	}

	other := &v.translated
	if side == scrollsync.PaneRight {
		other = &v.source
	}
	other.SetOffset(scrollsync.Target(p.Metrics(), other.Metrics()))
	v.guard.Suppress(side.Other(), v.now())
}

// HandleClick selects the segment rendered at an editor-area cell. Returns
// true when the click landed on a segment.
func (v *View) HandleClick(x, y int) bool {
	pane, paneX := v.paneAt(x)
	if pane == nil {
		return false
	}

	// border column and border+title rows
	row := y - 2
	if row < 0 || paneX < 1 {
		return false
	}

	id := pane.LineSegment(row)
	if id == 0 {
		return false
	}

	v.source.Focus(pane == &v.source)
	v.translated.Focus(pane == &v.translated)
	v.SelectSegment(id)
	return true
}

// paneAt resolves an editor-area column to the pane under it and the
// column relative to that pane's left edge.
func (v *View) paneAt(x int) (*Pane, int) {
	sourceWidth := v.source.width
	switch {
	case x < sourceWidth:
		return &v.source, x
	case x < sourceWidth+v.translated.width:
		return &v.translated, x - sourceWidth
	default:
		return nil, 0
	}
}

// ActiveBounds returns the active segment's rectangle in editor-area
// coordinates on the translated pane. ok is false when nothing is active
// or the segment is scrolled out of view.
func (v *View) ActiveBounds() (geometry.Rect, bool) {
	id, ok := v.sel.Active()
	if !ok {
		return geometry.Rect{}, false
	}

	rect, ok := v.translated.SegmentBounds(id)
	if !ok {
		return geometry.Rect{}, false
	}

	// translate from pane content coordinates to editor-area coordinates
	rect.Row += 2
	rect.Col += v.source.width + 1
	return rect, true
}

// ScrollPercent returns the focused pane's proportional scroll position
// in [0, 1].
func (v *View) ScrollPercent() float64 {
	if v.source.Focused() {
		return v.source.Metrics().Percent()
	}
	return v.translated.Metrics().Percent()
}

// SetReasoning hands fetched reasoning data to the panel.
func (v *View) SetReasoning(state PanelState) {
	v.panel.SetState(state)
}

// TogglePanel flips reasoning panel visibility and reflows the panes.
func (v *View) TogglePanel() {
	v.sel.TogglePanel()
	v.layout()
}

// PanelOpen reports reasoning panel visibility.
func (v *View) PanelOpen() bool {
	return v.sel.PanelOpen()
}

// SetToolbarHidden hides the contextual toolbar (used while a modal covers
// the active segment).
func (v *View) SetToolbarHidden(hidden bool) {
	v.toolbar.Hidden = hidden
}

// View renders the editor area.
func (v *View) View() string {
	panes := lipgloss.JoinHorizontal(lipgloss.Top, v.source.View(), v.translated.View())

	if v.sel.PanelOpen() {
		panes = lipgloss.JoinHorizontal(lipgloss.Top, panes, v.panel.View())
	}

	if bounds, ok := v.ActiveBounds(); ok && !v.toolbar.Hidden {
		panes = v.toolbar.Overlay(panes, bounds, v.height)
	}

	return panes
}
