package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Styled output for the ask and health commands.
var (
	answerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CDD6F4"))

	sourceHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#06B6D4"))

	sourceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086"))

	degradedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F9E2AF"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#A6E3A1"))

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F38BA8"))
)

// statusLabel renders an up/down marker.
func statusLabel(up bool) string {
	if up {
		return okStyle.Render("ok")
	}
	return failStyle.Render("down")
}
