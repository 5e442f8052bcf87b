package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// ------- styling (Lip Gloss) -------
var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
	focusedPaneStyle = paneStyle.BorderForeground(lipgloss.Color("12"))

	boxChecked   = "☑"
	boxUnchecked = "☐"
	sessionMark  = "★"
)

// plainStyles drops colors for the mono theme.
func plainStyles() {
	for _, s := range []*lipgloss.Style{
		&titleStyle, &successStyle, &pendingStyle, &accentStyle,
		&mutedStyle, &errorStyle, &doneStyle, &helpStyle,
	} {
		*s = lipgloss.NewStyle()
	}
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	focusedPaneStyle = paneStyle.BorderForeground(lipgloss.Color("15"))
	boxChecked, boxUnchecked, sessionMark = "[x]", "[ ]", "*"
}
