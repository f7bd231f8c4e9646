package tui

import "github.com/charmbracelet/lipgloss"

// Colors used throughout the TUI.
var (
	colorRed     = lipgloss.Color("#FF0000")
	colorGreen   = lipgloss.Color("#00FF00")
	colorYellow  = lipgloss.Color("#FFFF00")
	colorCyan    = lipgloss.Color("#00FFFF")
	colorGray    = lipgloss.Color("#666666")
	colorDimGray = lipgloss.Color("#444444")
	colorWhite   = lipgloss.Color("#FFFFFF")
)

// Base styles reused by the renderers.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	playingDotStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)

	pausedDotStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	successStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	activeSegmentStyle = lipgloss.NewStyle().
				Foreground(colorWhite).
				Background(colorDimGray).
				Bold(true)

	timestampStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	excludedStyle = lipgloss.NewStyle().
			Foreground(colorDimGray).
			Strikethrough(true)

	searchPromptStyle = lipgloss.NewStyle().
				Foreground(colorYellow).
				Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	footerKeyStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Bold(true)

	footerDescStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	dividerStyle = lipgloss.NewStyle().
			Foreground(colorDimGray)
)

func toastStyle(level string) lipgloss.Style {
	switch level {
	case "error":
		return errorStyle
	case "warning":
		return warningStyle
	case "success":
		return successStyle
	default:
		return statusStyle
	}
}
