// Package styles provides colour themes and styling for the TUI
// and for page regions printed by the CLI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette and page borders.
type Theme struct {
	Accent    lipgloss.Color // titles, selection
	Highlight lipgloss.Color // chips, page labels
	Paper     lipgloss.Color
	Ink       lipgloss.Color
	Faint     lipgloss.Color
	Good      lipgloss.Color
	Caution   lipgloss.Color
	Bad       lipgloss.Color
	Rule      lipgloss.Color

	// PageBorder frames each printable page region.
	PageBorder lipgloss.Border
}

// DefaultTheme returns the colour theme used on terminals.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:     lipgloss.Color("#2563EB"),
		Highlight:  lipgloss.Color("#D97706"),
		Paper:      lipgloss.Color("#1C1917"),
		Ink:        lipgloss.Color("#E7E5E4"),
		Faint:      lipgloss.Color("#78716C"),
		Good:       lipgloss.Color("#65A30D"),
		Caution:    lipgloss.Color("#EAB308"),
		Bad:        lipgloss.Color("#DC2626"),
		Rule:       lipgloss.Color("#57534E"),
		PageBorder: lipgloss.NormalBorder(),
	}
}

// PrintTheme returns a colourless theme with ASCII borders, for page
// output written to files or pipes.
func PrintTheme() *Theme {
	return &Theme{PageBorder: lipgloss.ASCIIBorder()}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Help     lipgloss.Style

	// InputField frames a form field.
	InputField lipgloss.Style

	StatusBar lipgloss.Style
	Border    lipgloss.Style

	// Chip shows one selected file name.
	Chip lipgloss.Style

	// Page is one printable page region, PageTitle its label.
	Page      lipgloss.Style
	PageTitle lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	fg := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}

	return &Styles{
		theme: theme,

		Title:    fg(theme.Accent).Bold(true),
		Subtitle: fg(theme.Highlight).Bold(true),
		Normal:   fg(theme.Ink),
		Muted:    fg(theme.Faint),
		Selected: fg(theme.Paper).Background(theme.Accent).Bold(true),
		Error:    fg(theme.Bad),
		Success:  fg(theme.Good),
		Warning:  fg(theme.Caution),
		Help:     fg(theme.Faint).Italic(true),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Rule).
			Padding(0, 1),

		StatusBar: fg(theme.Faint).
			Background(theme.Paper).
			Padding(0, 1),

		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Rule),

		Chip: fg(theme.Paper).
			Background(theme.Highlight).
			Padding(0, 1).
			MarginRight(1),

		Page: lipgloss.NewStyle().
			BorderStyle(theme.PageBorder).
			BorderForeground(theme.Rule).
			Padding(0, 1),

		PageTitle: fg(theme.Highlight).Bold(true),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// PrintStyles returns styles with the print theme.
func PrintStyles() *Styles {
	return NewStyles(PrintTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
