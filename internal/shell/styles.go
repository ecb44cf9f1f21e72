package shell

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorMuted   = lipgloss.Color("#6B7280")
	colorFg      = lipgloss.Color("#F9FAFB")
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	PromptStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(colorFg).
			Padding(0, 1)

	HelpStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)
