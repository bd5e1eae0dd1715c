package editor

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aldersky/loom/internal/core/styles"
)

// EditResult is the outcome of feeding a message to the edit modal.
type EditResult int

const (
	EditPending EditResult = iota
	EditCommitted
	EditCancelled
)

// EditModal is the inline edit overlay for one segment's translation. At
// most one instance exists at a time; the owning model refuses to open a
// second while one is live. While a save is in flight the input is locked;
// on failure the modal reopens for input with the draft intact.
type EditModal struct {
	SegmentID int64

	ta        textarea.Model
	spin      spinner.Model
	sourceRef string
	saving    bool
	errText   string
	width     int
}

// NewEditModal creates an overlay prefilled with the segment's current
// translated text. sourceRef is the corresponding source text, shown
// read-only above the input.
func NewEditModal(segmentID int64, current, sourceRef string, width int) EditModal {
	ta := textarea.New()
	ta.SetValue(current)
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := EditModal{
		SegmentID: segmentID,
		ta:        ta,
		spin:      sp,
		sourceRef: sourceRef,
	}
	m.SetWidth(width)
	return m
}

// SetWidth resizes the overlay.
func (m *EditModal) SetWidth(width int) {
	m.width = width
	inner := width - 4 // border and padding columns
	if inner < 10 {
		inner = 10
	}
	m.ta.SetWidth(inner)

	lines := m.ta.LineCount()
	if lines < 3 {
		lines = 3
	}
	if lines > 10 {
		lines = 10
	}
	m.ta.SetHeight(lines)
}

// Saving reports whether a save is in flight.
func (m EditModal) Saving() bool {
	return m.saving
}

// BeginSave locks the input and starts the spinner. The owning model issues
// the actual write command.
func (m EditModal) BeginSave() (EditModal, tea.Cmd) {
	m.saving = true
	m.errText = ""
	m.ta.Blur()
	return m, m.spin.Tick
}

// Fail reopens the modal for input after a failed save. The draft stays in
// the textarea; the user retries or discards it themselves.
func (m EditModal) Fail(err error) EditModal {
	m.saving = false
	m.errText = err.Error()
	m.ta.Focus()
	return m
}

// Update feeds a message to the modal. Commit is alt+enter or ctrl+s;
// escape discards. Terminals report a plain enter for ctrl+enter, so enter
// inserts the newline and a modifier commits.
func (m EditModal) Update(msg tea.Msg) (EditModal, tea.Cmd, EditResult) {
	if m.saving {
		if tick, ok := msg.(spinner.TickMsg); ok {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(tick)
			return m, cmd, EditPending
		}
		return m, nil, EditPending
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return m, nil, EditCancelled
		case "alt+enter", "ctrl+s":
			return m, nil, EditCommitted
		}
	}

	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd, EditPending
}

// Value returns the current text in the input.
func (m EditModal) Value() string {
	return m.ta.Value()
}

// View renders the overlay box.
func (m EditModal) View() string {
	var b strings.Builder

	b.WriteString(styles.OverlayTitleStyle.Render("Edit translation"))
	b.WriteString("\n")

	if m.sourceRef != "" {
		ref := m.sourceRef
		b.WriteString(styles.SourceRefStyle.Width(m.ta.Width()).Render(ref))
		b.WriteString("\n")
	}

	b.WriteString(m.ta.View())
	b.WriteString("\n")

	switch {
	case m.saving:
		b.WriteString(m.spin.View() + styles.TextMutedStyle.Render(" saving…"))
	case m.errText != "":
		b.WriteString(styles.ErrorStyle.Render(m.errText))
	default:
		b.WriteString(styles.OverlayHelpStyle.Render("alt+enter/ctrl+s save · esc discard · enter newline"))
	}

	return styles.OverlayStyle.Width(m.width - 2).Render(b.String())
}

// Height returns the rendered overlay height in rows.
func (m EditModal) Height() int {
	return lipgloss.Height(m.View())
}
