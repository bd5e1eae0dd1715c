// Package styles provides shared lipgloss styles and theme palettes for the
// TUI.
package styles

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Palette defines a minimal semantic theme palette.
type Palette struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Surface    lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
}

// DefaultTheme is the name of the default theme.
const DefaultTheme = "tokyo-night"

// themes holds the built-in named palettes.
var themes = map[string]Palette{
	"tokyo-night": {
		Primary:    lipgloss.Color("#7aa2f7"),
		Secondary:  lipgloss.Color("#7dcfff"),
		Foreground: lipgloss.Color("#c0caf5"),
		Muted:      lipgloss.Color("#565f89"),
		Surface:    lipgloss.Color("#3b4261"),
		Success:    lipgloss.Color("#9ece6a"),
		Warning:    lipgloss.Color("#e0af68"),
		Error:      lipgloss.Color("#f7768e"),
	},
	"gruvbox": {
		Primary:    lipgloss.Color("#83a598"),
		Secondary:  lipgloss.Color("#8ec07c"),
		Foreground: lipgloss.Color("#ebdbb2"),
		Muted:      lipgloss.Color("#665c54"),
		Surface:    lipgloss.Color("#3c3836"),
		Success:    lipgloss.Color("#b8bb26"),
		Warning:    lipgloss.Color("#fabd2f"),
		Error:      lipgloss.Color("#fb4934"),
	},
}

// ThemeNames returns sorted names of all built-in themes.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetPalette returns the palette for a theme name.
func GetPalette(name string) (Palette, bool) {
	p, ok := themes[name]
	return p, ok
}

// Shared styles, rebuilt by SetTheme. Defaults use the default theme so
// tests render deterministically without explicit setup.
var (
	TitleStyle     lipgloss.Style
	TextMutedStyle lipgloss.Style
	ErrorStyle     lipgloss.Style

	// Pane styles.
	PaneBorderStyle        lipgloss.Style
	PaneBorderFocusedStyle lipgloss.Style
	PaneTitleStyle         lipgloss.Style

	// Span styles by segment type and state.
	SpanNarrationStyle lipgloss.Style
	SpanDialogueStyle  lipgloss.Style
	SpanActiveStyle    lipgloss.Style
	SpanEmptyStyle     lipgloss.Style
	SpeakerStyle       lipgloss.Style

	// Overlay and toolbar styles.
	OverlayStyle      lipgloss.Style
	OverlayTitleStyle lipgloss.Style
	OverlayHelpStyle  lipgloss.Style
	SourceRefStyle    lipgloss.Style
	ToolbarStyle      lipgloss.Style

	// Status bar and toasts.
	StatusBarStyle   lipgloss.Style
	ToastInfoStyle   lipgloss.Style
	ToastErrorStyle  lipgloss.Style
	PanelStyle       lipgloss.Style
	PanelHeaderStyle lipgloss.Style
)

func init() {
	SetTheme(themes[DefaultTheme])
}

// SetTheme rebuilds the shared styles from a palette.
func SetTheme(p Palette) {
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Primary)
	TextMutedStyle = lipgloss.NewStyle().Foreground(p.Muted)
	ErrorStyle = lipgloss.NewStyle().Foreground(p.Error)

	PaneBorderStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Muted)
	PaneBorderFocusedStyle = PaneBorderStyle.
		BorderForeground(p.Primary)
	PaneTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Secondary)

	SpanNarrationStyle = lipgloss.NewStyle().Foreground(p.Foreground)
	SpanDialogueStyle = lipgloss.NewStyle().Foreground(p.Secondary)
	SpanActiveStyle = lipgloss.NewStyle().Foreground(p.Foreground).Background(p.Surface)
	SpanEmptyStyle = lipgloss.NewStyle().Foreground(p.Muted).Italic(true)
	SpeakerStyle = lipgloss.NewStyle().Foreground(p.Warning).Bold(true)

	OverlayStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Primary).
		Padding(0, 1)
	OverlayTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Foreground)
	OverlayHelpStyle = lipgloss.NewStyle().Foreground(p.Muted)
	SourceRefStyle = lipgloss.NewStyle().Foreground(p.Muted).Italic(true)
	ToolbarStyle = lipgloss.NewStyle().
		Foreground(p.Foreground).
		Background(p.Surface).
		Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().Foreground(p.Muted)
	ToastInfoStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Success).
		Padding(0, 1)
	ToastErrorStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Error).
		Padding(0, 1)
	PanelStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(p.Muted).
		Padding(0, 1)
	PanelHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Primary)
}
