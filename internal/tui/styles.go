package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	status        lipgloss.Style
	hint          lipgloss.Style
	filterLabel   lipgloss.Style
	filterFocused lipgloss.Style
}

func newStyles() styles {
	return styles{
		status:        lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")).Padding(0, 1),
		hint:          lipgloss.NewStyle().Faint(true),
		filterLabel:   lipgloss.NewStyle().Bold(true),
		filterFocused: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("57")),
	}
}
