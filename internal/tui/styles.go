// Package tui provides the terminal user interface for feedtime.
package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette for the TUI dashboard.
var (
	ColorPrimary   = lipgloss.Color("#7C3AED") // Purple
	ColorSecondary = lipgloss.Color("#10B981") // Green
	ColorMuted     = lipgloss.Color("#6B7280") // Gray
	ColorWarning   = lipgloss.Color("#F59E0B") // Yellow
	ColorError     = lipgloss.Color("#EF4444") // Red
	ColorSuccess   = lipgloss.Color("#10B981") // Green
	ColorActive    = lipgloss.Color("#3B82F6") // Blue
	ColorBorder    = lipgloss.Color("#4B5563") // Dark gray
)

// Base styles for the TUI.
var (
	// StyleTitle is used for section titles.
	StyleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	// StyleSubtitle is used for subtitles and secondary information.
	StyleSubtitle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// StyleDate is used for schedule dates.
	StyleDate = lipgloss.NewStyle().
			Foreground(ColorSecondary)

	// StyleTime is used for schedule times.
	StyleTime = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorActive)

	// StyleCursor marks the selected schedule row.
	StyleCursor = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// StylePlaceholder is used for unset form fields.
	StylePlaceholder = lipgloss.NewStyle().
				Italic(true).
				Foreground(ColorMuted)

	// StyleFeeding is shown while a feed request is in flight.
	StyleFeeding = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWarning)

	// StyleMuted is used for empty states.
	StyleMuted = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// StyleWarning is used for warning messages.
	StyleWarning = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// StyleError is used for error messages.
	StyleError = lipgloss.NewStyle().
			Foreground(ColorError)

	// StyleSuccess is used for success messages.
	StyleSuccess = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// StyleHelp is used for help text at the bottom.
	StyleHelp = lipgloss.NewStyle().
			Foreground(ColorMuted).
			MarginTop(1)

	// StyleHelpKey is used for keyboard shortcut keys.
	StyleHelpKey = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary)

	// StyleHelpDesc is used for keyboard shortcut descriptions.
	StyleHelpDesc = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

// Box styles for different sections.
var (
	// StyleListBox is used for the schedule list.
	StyleListBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2).
			MarginBottom(1)

	// StyleFormBox is used for the add-schedule form.
	StyleFormBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(1, 2).
			MarginBottom(1)

	// StyleAlertBox is used for blocking alerts.
	StyleAlertBox = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorWarning).
			Padding(1, 2)
)

// boxWidth returns the inner width for a bordered box on a screen of width w.
func boxWidth(w int) int {
	if w-4 < 20 {
		return 20
	}
	return w - 4
}
