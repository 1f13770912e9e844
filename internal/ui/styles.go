package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Color palette
	colorPrimary = lipgloss.Color("#00BFFF") // Deep sky blue
	colorAccent  = lipgloss.Color("#2EC4B6") // Tide pool teal
	colorDanger  = lipgloss.Color("#FF6B6B") // Red for errors
	colorWarning = lipgloss.Color("#FFD93D") // Yellow for the threshold dot
	colorSuccess = lipgloss.Color("#6BCF7F") // Green
	colorMuted   = lipgloss.Color("#6C757D") // Gray
	colorBorder  = lipgloss.Color("#4A90E2") // Border blue

	// Title styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	// Content styles
	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	errorStyle = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true)

	// Help text style
	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(1, 0)

	// Utility styles
	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	// Section header styles
	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true).
				MarginTop(1)

	sectionBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2).
			MarginBottom(1)

	// Calendar cell styles
	weekdayStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Bold(true)

	goodDayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#000000")).
			Background(colorAccent).
			Bold(true)

	noDataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3A3F44"))

	todayStyle = lipgloss.NewStyle().
			Underline(true)

	cursorStyle = lipgloss.NewStyle().
			Reverse(true)

	thresholdDotStyle = lipgloss.NewStyle().
				Foreground(colorWarning)

	// Detail panel styles
	detailBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(colorAccent).
			Padding(1, 2)

	goodTideStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)
)
