package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette for the chat TUI.
type Theme struct {
	Primary    lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Error      lipgloss.Color
	Border     lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() Theme {
	return Theme{
		Primary:    lipgloss.Color("#7C3AED"),
		Foreground: lipgloss.Color("#CDD6F4"),
		Muted:      lipgloss.Color("#6C7086"),
		Success:    lipgloss.Color("#A6E3A1"),
		Error:      lipgloss.Color("#F38BA8"),
		Border:     lipgloss.Color("#45475A"),
	}
}

// Styles contains pre-configured lipgloss styles derived from a theme.
type Styles struct {
	Title      lipgloss.Style
	Question   lipgloss.Style
	AnswerBox  lipgloss.Style
	InputBox   lipgloss.Style
	Source     lipgloss.Style
	StatusOK   lipgloss.Style
	StatusErr  lipgloss.Style
	StatusBusy lipgloss.Style
}

// NewStyles builds the style set for a theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(theme.Primary),
		Question:   lipgloss.NewStyle().Bold(true).Foreground(theme.Foreground),
		AnswerBox:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(theme.Border).Padding(0, 1),
		InputBox:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(theme.Border).Padding(0, 1),
		Source:     lipgloss.NewStyle().Foreground(theme.Muted),
		StatusOK:   lipgloss.NewStyle().Foreground(theme.Success),
		StatusErr:  lipgloss.NewStyle().Foreground(theme.Error),
		StatusBusy: lipgloss.NewStyle().Foreground(theme.Muted).Italic(true),
	}
}
