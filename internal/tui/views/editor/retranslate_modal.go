package editor

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aldersky/loom/internal/core/styles"
)

// RetranslateResult is the outcome of feeding a message to the modal.
type RetranslateResult int

const (
	RetranslatePending RetranslateResult = iota
	RetranslateSubmitted
	RetranslateCancelled
)

// RetranslateModal collects guidance for a re-translation request. While a
// submission is in flight the input is locked; on failure the modal
// reopens for input with the guidance text intact.
type RetranslateModal struct {
	SegmentIDs []int64

	ta         textarea.Model
	spin       spinner.Model
	sourceRef  string
	currentRef string
	submitting bool
	errText    string
	width      int
}

// NewRetranslateModal creates a modal for the given segments. sourceRef and
// currentRef are the triggering segment's source text and current
// translation, shown read-only above the guidance input.
func NewRetranslateModal(segmentIDs []int64, sourceRef, currentRef string, width int) RetranslateModal {
	ta := textarea.New()
	ta.Placeholder = "What should change? e.g. keep the register formal, she addresses him with..."
	ta.Focus()
	ta.ShowLineNumbers = false

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := RetranslateModal{
		SegmentIDs: segmentIDs,
		ta:         ta,
		spin:       sp,
		sourceRef:  sourceRef,
		currentRef: currentRef,
	}
	m.SetWidth(width)
	return m
}

// SetWidth resizes the modal.
func (m *RetranslateModal) SetWidth(width int) {
	m.width = width
	inner := width - 4
	if inner < 10 {
		inner = 10
	}
	m.ta.SetWidth(inner)
	m.ta.SetHeight(4)
}

// Guidance returns the entered guidance text.
func (m RetranslateModal) Guidance() string {
	return m.ta.Value()
}

// Submitting reports whether a request is in flight.
func (m RetranslateModal) Submitting() bool {
	return m.submitting
}

// BeginSubmit locks the input and starts the spinner. The owning model
// issues the actual request command.
func (m RetranslateModal) BeginSubmit() (RetranslateModal, tea.Cmd) {
	m.submitting = true
	m.errText = ""
	m.ta.Blur()
	return m, m.spin.Tick
}

// Fail reopens the modal for input after a failed submission, preserving
// the guidance text.
func (m RetranslateModal) Fail(err error) RetranslateModal {
	m.submitting = false
	m.errText = err.Error()
	m.ta.Focus()
	return m
}

// Update feeds a message to the modal. Submit is alt+enter or ctrl+s;
// escape cancels (ignored while submitting: the request is already out).
func (m RetranslateModal) Update(msg tea.Msg) (RetranslateModal, tea.Cmd, RetranslateResult) {
	if m.submitting {
		if tick, ok := msg.(spinner.TickMsg); ok {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(tick)
			return m, cmd, RetranslatePending
		}
		return m, nil, RetranslatePending
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return m, nil, RetranslateCancelled
		case "alt+enter", "ctrl+s":
			if strings.TrimSpace(m.ta.Value()) == "" {
				m.errText = "guidance must not be empty"
				return m, nil, RetranslatePending
			}
			return m, nil, RetranslateSubmitted
		}
	}

	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd, RetranslatePending
}

// View renders the modal box.
func (m RetranslateModal) View() string {
	var b strings.Builder

	title := "Re-translate segment"
	if len(m.SegmentIDs) > 1 {
		title = "Re-translate segments"
	}
	b.WriteString(styles.OverlayTitleStyle.Render(title))
	b.WriteString("\n")

	if m.sourceRef != "" {
		b.WriteString(styles.SourceRefStyle.Width(m.ta.Width()).Render(m.sourceRef))
		b.WriteString("\n")
	}
	if m.currentRef != "" {
		b.WriteString(styles.TextMutedStyle.Width(m.ta.Width()).Render(m.currentRef))
		b.WriteString("\n")
	}

	b.WriteString(m.ta.View())
	b.WriteString("\n")

	switch {
	case m.submitting:
		b.WriteString(m.spin.View() + styles.TextMutedStyle.Render(" submitting…"))
	case m.errText != "":
		b.WriteString(styles.ErrorStyle.Render(m.errText))
	default:
		b.WriteString(styles.OverlayHelpStyle.Render("alt+enter/ctrl+s submit · esc cancel"))
	}

	return styles.OverlayStyle.Width(m.width - 2).Render(b.String())
}
