package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aldersky/loom/internal/core/geometry"
	"github.com/aldersky/loom/internal/core/styles"
	"github.com/aldersky/loom/internal/tui/overlay"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	switch m.state {
	case stateLoading:
		return fmt.Sprintf("\n %s Loading chapter…\n", m.spin.View())
	case stateError:
		return "\n " + styles.ErrorStyle.Render("Error: "+m.errText) + "\n\n " +
			styles.TextMutedStyle.Render("press q to quit") + "\n"
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		m.view.View(),
		m.statusView(),
	)

	switch m.state {
	case stateEditing:
		body = m.overlayAtActive(m.editModal.View(), m.editModal.Height(), body)
	case stateRetranslating:
		body = m.overlayAtActive(m.retransModal.View(), lipgloss.Height(m.retransModal.View()), body)
	case stateShowingHelp:
		body = m.centerOverlay(m.helpView(), body)
	}

	return m.toastView.Overlay(body, m.width, m.height)
}

func (m Model) headerView() string {
	data := m.view.Data()
	title := styles.TitleStyle.Render("loom")
	chapter := styles.TextMutedStyle.Render(
		fmt.Sprintf(" %s → %s", data.ChapterTitle, data.TargetLanguage))
	return title + chapter
}

func (m Model) statusView() string {
	var parts []string

	if entry, ok := m.view.Active(); ok {
		seg := fmt.Sprintf("segment %d/%d %s",
			m.view.Data().Map.IndexOf(entry.SegmentID)+1, len(m.view.Data().Map), entry.Type)
		if entry.Speaker != "" {
			seg += " · " + entry.Speaker
		}
		parts = append(parts, seg)
	} else {
		parts = append(parts, "no selection")
	}

	parts = append(parts, fmt.Sprintf("%.0f%%", m.view.ScrollPercent()*100))

	if m.saving {
		parts = append(parts, m.spin.View()+"saving")
	}

	parts = append(parts, m.help.ShortHelpView(m.keys.ShortHelp()))

	return styles.StatusBarStyle.Render(" " + strings.Join(parts, "  ·  "))
}

// overlayAtActive composites a modal at the active segment's position,
// covering the segment it acts on. Falls back to centered placement when
// the segment is scrolled out of view.
func (m Model) overlayAtActive(content string, contentHeight int, bg string) string {
	bounds, ok := m.view.ActiveBounds()
	if !ok {
		return m.centerOverlay(content, bg)
	}

	// editor area starts below the header row
	bounds.Row++
	rect := geometry.AnchorAt(bounds, contentHeight, m.height-1)
	return overlay.Composite(content, bg, rect.Row, rect.Col)
}

func (m Model) centerOverlay(content string, bg string) string {
	row := (m.height - lipgloss.Height(content)) / 2
	col := (m.width - lipgloss.Width(content)) / 2
	return overlay.Composite(content, bg, row, col)
}

func (m Model) helpView() string {
	return styles.OverlayStyle.Render(
		styles.OverlayTitleStyle.Render("Keys") + "\n\n" +
			m.help.FullHelpView(m.keys.FullHelp()))
}
