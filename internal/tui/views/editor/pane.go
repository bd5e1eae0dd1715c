// Package editor implements the dual-pane segment review view: two
// synchronized panes over the same segment map, an inline edit overlay, a
// guided re-translation modal, and the batch reasoning panel.
package editor

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/aldersky/loom/internal/core/geometry"
	"github.com/aldersky/loom/internal/core/scrollsync"
	"github.com/aldersky/loom/internal/core/segment"
	"github.com/aldersky/loom/internal/core/styles"
)

const untranslatedPlaceholder = "(untranslated)"

// paneLine is one rendered content line. segID is 0 for separator lines
// that belong to no segment.
type paneLine struct {
	text  string
	segID int64
}

// Pane renders one side of the editor: the flat text split back into
// styled, wrapped segment spans. It owns a viewport and the span-to-line
// index geometry queries run against.
type Pane struct {
	side    segment.Side
	title   string
	vp      viewport.Model
	focused bool

	lines    []paneLine
	segFirst map[int64]int
	segLast  map[int64]int

	flat     string
	spans    []segment.Span
	activeID int64

	width  int // outer width including border
	height int // outer height including border
}

// NewPane creates a pane for one side.
func NewPane(side segment.Side, title string) Pane {
	return Pane{
		side:     side,
		title:    title,
		vp:       viewport.New(0, 0),
		segFirst: map[int64]int{},
		segLast:  map[int64]int{},
	}
}

// SetSize resizes the pane's outer box.
func (p *Pane) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.vp.Width = p.contentWidth()
	p.vp.Height = height - 3 // border rows and title row
	if p.vp.Height < 1 {
		p.vp.Height = 1
	}
	p.rebuild()
}

// Focus marks the pane as the one receiving scroll keys.
func (p *Pane) Focus(focused bool) {
	p.focused = focused
}

// Focused reports whether the pane has focus.
func (p *Pane) Focused() bool {
	return p.focused
}

func (p *Pane) contentWidth() int {
	w := p.width - 2 // border columns
	if w < 1 {
		w = 1
	}
	return w
}

// SetContent derives the pane's spans from the flat text and segment map
// and re-renders. The scroll offset is preserved so a data refetch after a
// save does not jump the view.
func (p *Pane) SetContent(flat string, m segment.Map, activeID int64) error {
	spans, err := segment.BuildSpans(flat, m, p.side)
	if err != nil {
		return err
	}

	p.flat = flat
	p.spans = spans
	p.activeID = activeID
	p.rebuild()
	return nil
}

// SetActive re-renders with a new active segment.
func (p *Pane) SetActive(segmentID int64) {
	if p.activeID == segmentID {
		return
	}
	p.activeID = segmentID
	p.rebuild()
}

// rebuild renders spans into wrapped, styled lines and refreshes the
// span-to-line index.
func (p *Pane) rebuild() {
	p.lines = p.lines[:0]
	p.segFirst = map[int64]int{}
	p.segLast = map[int64]int{}

	flatRunes := []rune(p.flat)
	width := p.contentWidth()

	for i, span := range p.spans {
		br := segment.BreakBefore(flatRunes, p.spans, i)
		if br == segment.BreakParagraph {
			p.lines = append(p.lines, paneLine{})
		}

		rendered := p.renderSpan(span, width)

		// No gap between spans: the span continues the previous span's
		// last line. That line indexes to the later segment for clicks.
		// Empty spans stay on their own line; the placeholder is
		// synthetic, not part of the flat text.
		if br == segment.BreakNone && i > 0 && len(p.lines) > 0 &&
			!span.Empty() && !p.spans[i-1].Empty() {
			last := len(p.lines) - 1
			p.lines[last].text += rendered[0]
			p.lines[last].segID = span.SegmentID
			p.segFirst[span.SegmentID] = last
			rendered = rendered[1:]
		} else {
			p.segFirst[span.SegmentID] = len(p.lines)
		}

		for _, line := range rendered {
			p.lines = append(p.lines, paneLine{text: line, segID: span.SegmentID})
		}
		p.segLast[span.SegmentID] = len(p.lines) - 1
	}

	var b strings.Builder
	for i, line := range p.lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line.text)
	}
	p.vp.SetContent(b.String())
}

// renderSpan wraps and styles one span's text. Empty spans render a muted
// placeholder so untranslated segments stay visible and targetable.
func (p *Pane) renderSpan(span segment.Span, width int) []string {
	style := styles.SpanNarrationStyle
	if span.Type == segment.TypeDialogue {
		style = styles.SpanDialogueStyle
	}
	if span.SegmentID == p.activeID {
		style = styles.SpanActiveStyle
	}

	if span.Empty() {
		empty := styles.SpanEmptyStyle
		if span.SegmentID == p.activeID {
			empty = styles.SpanActiveStyle.Italic(true)
		}
		return []string{empty.Render(untranslatedPlaceholder)}
	}

	var out []string
	for li, raw := range segment.SpanLines(span) {
		text := raw
		if li == 0 && span.Speaker != "" {
			text = span.Speaker + " " + text
		}
		for _, wrapped := range strings.Split(wordwrap.String(text, width), "\n") {
			line := wrapped
			if li == 0 && span.Speaker != "" && len(out) == 0 {
				// restyle the speaker label on the first rendered line
				if rest, ok := strings.CutPrefix(line, span.Speaker); ok {
					out = append(out, styles.SpeakerStyle.Render(span.Speaker)+style.Render(rest))
					continue
				}
			}
			out = append(out, style.Render(line))
		}
	}
	if len(out) == 0 {
		out = []string{""}
	}
	return out
}

// SegmentBounds implements geometry.Provider against the viewport's
// current scroll window. Coordinates are relative to the pane's content
// origin; ok is false when the segment is fully scrolled out of view.
func (p *Pane) SegmentBounds(segmentID int64) (geometry.Rect, bool) {
	first, ok := p.segFirst[segmentID]
	if !ok {
		return geometry.Rect{}, false
	}
	last := p.segLast[segmentID]

	top := first - p.vp.YOffset
	bottom := last - p.vp.YOffset
	if bottom < 0 || top >= p.vp.Height {
		return geometry.Rect{}, false
	}
	if top < 0 {
		top = 0
	}
	if bottom >= p.vp.Height {
		bottom = p.vp.Height - 1
	}

	return geometry.Rect{
		Row:    top,
		Col:    0,
		Width:  p.contentWidth(),
		Height: bottom - top + 1,
	}, true
}

// LineSegment maps a content row (relative to the visible window) to the
// segment rendered there, 0 when the row is a separator or out of range.
func (p *Pane) LineSegment(row int) int64 {
	idx := p.vp.YOffset + row
	if idx < 0 || idx >= len(p.lines) {
		return 0
	}
	return p.lines[idx].segID
}

// ScrollToSegment scrolls the minimum distance that makes the segment's
// first line visible.
func (p *Pane) ScrollToSegment(segmentID int64) {
	first, ok := p.segFirst[segmentID]
	if !ok {
		return
	}
	last := p.segLast[segmentID]

	switch {
	case first < p.vp.YOffset:
		p.vp.SetYOffset(first)
	case last >= p.vp.YOffset+p.vp.Height:
		target := last - p.vp.Height + 1
		if target > first {
			target = first
		}
		p.vp.SetYOffset(target)
	}
}

// ScrollBy moves the viewport by delta lines (negative scrolls up).
func (p *Pane) ScrollBy(delta int) {
	p.vp.SetYOffset(p.vp.YOffset + delta)
}

// SetOffset positions the viewport at an absolute line offset.
func (p *Pane) SetOffset(offset int) {
	p.vp.SetYOffset(offset)
}

// Metrics returns the pane's scroll state for proportional sync.
func (p *Pane) Metrics() scrollsync.Metrics {
	return scrollsync.Metrics{
		ContentLines: len(p.lines),
		ViewLines:    p.vp.Height,
		Offset:       p.vp.YOffset,
	}
}

// Spans returns the pane's current spans in document order.
func (p *Pane) Spans() []segment.Span {
	return p.spans
}

// View renders the pane with its border and title.
func (p *Pane) View() string {
	border := styles.PaneBorderStyle
	if p.focused {
		border = styles.PaneBorderFocusedStyle
	}

	title := styles.PaneTitleStyle.Render(p.title)
	body := lipgloss.JoinVertical(lipgloss.Left, title, p.vp.View())

	return border.Width(p.contentWidth()).Height(p.height - 2).Render(body)
}
