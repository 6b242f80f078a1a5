package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	HeadingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#6F2CAC"))
	PassStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#2E7D32"))
	FailStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C62828"))
	MutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#757575"))
	BoxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#6F2CAC")).
			Padding(0, 1)
)

// Pass renders a passing line with a check mark
func Pass(text string) string {
	return PassStyle.Render("✔ " + text)
}

// Fail renders a failing line with a cross
func Fail(text string) string {
	return FailStyle.Render("✘ " + text)
}
