package editor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/aldersky/loom/internal/core/reasoning"
	"github.com/aldersky/loom/internal/core/styles"
)

// PanelPhase describes what the reasoning panel shows.
type PanelPhase int

const (
	// PanelIdle: no active segment, or the active segment has no batch.
	PanelIdle PanelPhase = iota
	// PanelLoading: a fetch for the active segment's batch is in flight.
	PanelLoading
	// PanelLoaded: reasoning data (possibly Found=false) is available.
	PanelLoaded
	// PanelFailed: the fetch errored; the next selection retries.
	PanelFailed
)

// PanelState is the input the owning model pushes into the panel.
type PanelState struct {
	Phase PanelPhase
	Batch reasoning.Batch
	Err   error
}

// ReasoningPanel renders batch chain-of-thought artifacts as markdown in a
// fixed-width side panel. Sections with no content are omitted entirely.
type ReasoningPanel struct {
	width  int
	height int
	state  PanelState
	body   string
}

// NewReasoningPanel creates a panel with the configured column width.
func NewReasoningPanel(width int) ReasoningPanel {
	return ReasoningPanel{width: width}
}

// SetSize resizes the panel and re-renders the current state.
func (p *ReasoningPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.render()
}

// SetState replaces the panel content.
func (p *ReasoningPanel) SetState(state PanelState) {
	p.state = state
	p.render()
}

func (p *ReasoningPanel) render() {
	switch p.state.Phase {
	case PanelIdle:
		p.body = styles.TextMutedStyle.Render("No reasoning recorded for this segment.")
	case PanelLoading:
		p.body = styles.TextMutedStyle.Render("Loading reasoning…")
	case PanelFailed:
		p.body = styles.ErrorStyle.Render(fmt.Sprintf("Could not load reasoning: %v", p.state.Err))
	case PanelLoaded:
		p.body = p.renderBatch(p.state.Batch)
	}
}

func (p *ReasoningPanel) renderBatch(b reasoning.Batch) string {
	if !b.HasContent() {
		return styles.TextMutedStyle.Render("No reasoning recorded for this segment.")
	}

	var md strings.Builder
	if b.Summary != "" {
		md.WriteString("## Situation\n\n")
		md.WriteString(b.Summary)
		md.WriteString("\n")
	}
	if len(b.CharacterEvents) > 0 {
		md.WriteString("\n## Characters\n\n")
		for _, name := range sortedKeys(b.CharacterEvents) {
			fmt.Fprintf(&md, "- **%s**: %s\n", name, b.CharacterEvents[name])
		}
	}
	if len(b.ReviewFeedback) > 0 {
		md.WriteString("\n## Review notes\n\n")
		for _, key := range sortedKeys(b.ReviewFeedback) {
			fmt.Fprintf(&md, "- **%s**: %s\n", key, b.ReviewFeedback[key])
		}
	}

	wrap := p.width - 4
	if wrap < 10 {
		wrap = 10
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return md.String()
	}
	out, err := renderer.Render(md.String())
	if err != nil {
		return md.String()
	}
	return strings.TrimRight(out, "\n")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// View renders the panel box.
func (p *ReasoningPanel) View() string {
	header := styles.PanelHeaderStyle.Render("Reasoning")
	content := header + "\n\n" + p.body

	return styles.PanelStyle.
		Width(p.width - 2).
		Height(p.height - 2).
		MaxHeight(p.height).
		Render(content)
}
