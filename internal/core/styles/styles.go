// Package styles provides shared lipgloss styles for CLI and TUI output.
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

// GetPalette returns the palette for the given theme name.
func GetPalette(name string) (Palette, bool) {
	p, ok := themes[name]
	return p, ok
}

// Shared styles, rebuilt by SetTheme.
var (
	Title      lipgloss.Style
	SlotHeader lipgloss.Style
	Selected   lipgloss.Style
	Text       lipgloss.Style
	TextMuted  lipgloss.Style
	Success    lipgloss.Style
	Warning    lipgloss.Style
	Dropped    lipgloss.Style
	Help       lipgloss.Style
	Column     lipgloss.Style
)

func init() {
	SetTheme(themes[DefaultTheme])
}

// SetTheme rebuilds the shared styles from the given palette.
func SetTheme(p Palette) {
	Title = lipgloss.NewStyle().Bold(true).Foreground(p.Primary)
	SlotHeader = lipgloss.NewStyle().Bold(true).Foreground(p.Secondary)
	Selected = lipgloss.NewStyle().Bold(true).Foreground(p.Primary)
	Text = lipgloss.NewStyle().Foreground(p.Foreground)
	TextMuted = lipgloss.NewStyle().Foreground(p.Muted)
	Success = lipgloss.NewStyle().Foreground(p.Success)
	Warning = lipgloss.NewStyle().Foreground(p.Warning)
	Dropped = lipgloss.NewStyle().Strikethrough(true).Foreground(p.Muted)
	Help = lipgloss.NewStyle().Foreground(p.Muted)
	Column = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Surface).
		Padding(0, 1)
}
