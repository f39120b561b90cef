package ui

import "github.com/charmbracelet/lipgloss"

// Theme holds the styles used for console output.
type Theme struct {
	Path    lipgloss.Style
	LineNum lipgloss.Style
	Count   lipgloss.Style
	Info    lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Dim     lipgloss.Style

	enabled bool
}

// DefaultTheme colors paths red, line numbers purple and counts blue.
func DefaultTheme() Theme {
	return Theme{
		Path:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		LineNum: lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
		Count:   lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		enabled: true,
	}
}

// PlainTheme renders text unchanged.
func PlainTheme() Theme {
	return Theme{}
}

// NewTheme returns DefaultTheme when colors are enabled, PlainTheme otherwise.
func NewTheme(colors bool) Theme {
	if colors {
		return DefaultTheme()
	}
	return PlainTheme()
}

// Paint renders s with style, or returns s as is for a plain theme.
func (t Theme) Paint(style lipgloss.Style, s string) string {
	if !t.enabled {
		return s
	}
	return style.Render(s)
}
