package cli

import "github.com/charmbracelet/lipgloss"

var (
	questionStyle = lipgloss.NewStyle().Bold(true)
	faintStyle    = lipgloss.NewStyle().Faint(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	checkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	nameStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFBA08"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	spinnerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("202"))
)
