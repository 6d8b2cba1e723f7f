package tui

import "github.com/charmbracelet/lipgloss"

var (
	ColorBlue   = lipgloss.Color("39")
	ColorGray   = lipgloss.Color("244")
	ColorGreen  = lipgloss.Color("42")
	ColorYellow = lipgloss.Color("214")
	ColorRed    = lipgloss.Color("196")
	ColorWhite  = lipgloss.Color("255")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Background(ColorBlue).
			Bold(true).
			Padding(0, 1)

	crumbStyle   = lipgloss.NewStyle().Foreground(ColorGray)
	headingStyle = lipgloss.NewStyle().Foreground(ColorBlue).Bold(true)
	linkStyle    = lipgloss.NewStyle().Foreground(ColorYellow)
	errorStyle   = lipgloss.NewStyle().Foreground(ColorRed).Bold(true)
	barStyle     = lipgloss.NewStyle().Foreground(ColorGreen)
	helpStyle    = lipgloss.NewStyle().Foreground(ColorGray)
	statusStyle  = lipgloss.NewStyle().Foreground(ColorGray).Italic(true)

	sectionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorGray)

	activeSectionStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBlue)

	cursorStyle = lipgloss.NewStyle().Foreground(ColorBlue).Bold(true)
)
