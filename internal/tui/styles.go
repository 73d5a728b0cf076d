// Package tui provides the terminal browser for anewcommit projects.
package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/poikilos/anewcommit/internal/model"
)

// Color palette for the browser.
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
	// StyleTitle is used for the browser title.
	StyleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// StyleSubtitle is used for the project path.
	StyleSubtitle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// StyleRangeHeader is used for the version heading each range.
	StyleRangeHeader = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPrimary)

	// StyleVersion is used for version kinds.
	StyleVersion = lipgloss.NewStyle().
			Foreground(ColorActive)

	// StyleTransition is used for transition kinds.
	StyleTransition = lipgloss.NewStyle().
			Foreground(ColorSecondary)

	// StyleCursor is used for the selected row.
	StyleCursor = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWarning)

	// StyleWarning is used for status messages.
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

// StyleListBox frames the action list.
var StyleListBox = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder).
	Padding(0, 1)

// FormatKind renders an action kind padded to a fixed width.
func FormatKind(k model.Kind) string {
	label := fmt.Sprintf("%-16s", k)
	if k == model.KindVersion {
		return StyleVersion.Render(label)
	}
	return StyleTransition.Render(label)
}
