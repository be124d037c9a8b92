package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#E50914")
	muted  = lipgloss.Color("#6C7086")
	gold   = lipgloss.Color("#F9E2AF")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(accent)
	headingStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(muted)
	ratingStyle   = lipgloss.NewStyle().Foreground(gold)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8"))
	statusStyle   = lipgloss.NewStyle().Foreground(muted).Italic(true)
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(muted).Padding(0, 1)
)
