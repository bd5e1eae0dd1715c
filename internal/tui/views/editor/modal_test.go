package editor

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func modalKey(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "alt+enter":
		return tea.KeyMsg{Type: tea.KeyEnter, Alt: true}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestEditModal_PrefillAndTyping(t *testing.T) {
	m := NewEditModal(7, "Old text.", "Alter Text.", 60)
	assert.Equal(t, int64(7), m.SegmentID)
	assert.Equal(t, "Old text.", m.Value())

	m, _, res := m.Update(modalKey("!"))
	assert.Equal(t, EditPending, res)
	assert.Equal(t, "Old text.!", m.Value())
}

func TestEditModal_Commit(t *testing.T) {
	m := NewEditModal(7, "Old text.", "", 60)

	for _, key := range []string{"alt+enter", "ctrl+s"} {
		_, _, res := m.Update(modalKey(key))
		assert.Equal(t, EditCommitted, res, key)
	}
}

func TestEditModal_Escape(t *testing.T) {
	m := NewEditModal(7, "Old text.", "", 60)
	m, _, _ = m.Update(modalKey("x"))

	_, _, res := m.Update(modalKey("esc"))
	assert.Equal(t, EditCancelled, res)
}

func TestEditModal_ViewShowsSourceRef(t *testing.T) {
	m := NewEditModal(7, "Old text.", "Alter Text.", 60)
	assert.Contains(t, m.View(), "Alter Text.")
	assert.Greater(t, m.Height(), 3)
}

func TestRetranslateModal_RejectsEmptyGuidance(t *testing.T) {
	m := NewRetranslateModal([]int64{3}, "", "", 60)

	m, _, res := m.Update(modalKey("alt+enter"))
	assert.Equal(t, RetranslatePending, res)
	assert.Contains(t, m.View(), "guidance must not be empty")
	assert.False(t, m.Submitting())
}

func TestRetranslateModal_SubmitLocksInput(t *testing.T) {
	m := NewRetranslateModal([]int64{3}, "", "", 60)
	for _, r := range "more formal" {
		m, _, _ = m.Update(modalKey(string(r)))
	}

	_, _, res := m.Update(modalKey("ctrl+s"))
	require.Equal(t, RetranslateSubmitted, res)

	m, cmd := m.BeginSubmit()
	require.NotNil(t, cmd)
	assert.True(t, m.Submitting())

	// input and escape are dead while the request is in flight
	m, _, res = m.Update(modalKey("x"))
	assert.Equal(t, RetranslatePending, res)
	m, _, res = m.Update(modalKey("esc"))
	assert.Equal(t, RetranslatePending, res)
	assert.Equal(t, "more formal", m.Guidance())
}

func TestRetranslateModal_FailKeepsGuidance(t *testing.T) {
	m := NewRetranslateModal([]int64{3}, "", "", 60)
	for _, r := range "keep names" {
		m, _, _ = m.Update(modalKey(string(r)))
	}
	m, _ = m.BeginSubmit()

	m = m.Fail(errors.New("pipeline unavailable"))
	assert.False(t, m.Submitting())
	assert.Equal(t, "keep names", m.Guidance())
	assert.Contains(t, m.View(), "pipeline unavailable")

	// editable again
	m, _, _ = m.Update(modalKey("!"))
	assert.Equal(t, "keep names!", m.Guidance())
}

func TestRetranslateModal_ViewShowsReferenceTexts(t *testing.T) {
	m := NewRetranslateModal([]int64{3}, "Der Regen fiel.", "The rain fell.", 60)

	view := m.View()
	assert.Contains(t, view, "Der Regen fiel.")
	assert.Contains(t, view, "The rain fell.")
}

func TestRetranslateModal_Escape(t *testing.T) {
	m := NewRetranslateModal([]int64{3, 4}, "", "", 60)
	_, _, res := m.Update(modalKey("esc"))
	assert.Equal(t, RetranslateCancelled, res)
}
