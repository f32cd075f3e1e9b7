package status

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	header    lipgloss.Style
	slotID    lipgloss.Style
	account   lipgloss.Style
	detail    lipgloss.Style
	empty     lipgloss.Style
	section   lipgloss.Style
	warning   lipgloss.Style
	pending   lipgloss.Style
	running   lipgloss.Style
	completed lipgloss.Style
	failed    lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true),
		header:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		slotID:    lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		account:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		empty:     lipgloss.NewStyle().Faint(true),
		section:   lipgloss.NewStyle().MarginTop(1),
		warning:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		pending:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		running:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		completed: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		failed:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
	}
}
