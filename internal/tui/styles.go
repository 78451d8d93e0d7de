package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	primaryColor = lipgloss.Color("39")  // Blue
	mutedColor   = lipgloss.Color("241") // Gray
	errorColor   = lipgloss.Color("196") // Red

	// Base styles
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	subtitleStyle = lipgloss.NewStyle().Foreground(mutedColor)
	errorStyle    = lipgloss.NewStyle().Foreground(errorColor)

	// Tabs
	activeTabStyle   = lipgloss.NewStyle().Bold(true).Background(primaryColor).Foreground(lipgloss.Color("0")).Padding(0, 1)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(mutedColor).Padding(0, 1)

	// Layout
	borderColor    = lipgloss.Color("63") // Soft purple
	appBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)
)
