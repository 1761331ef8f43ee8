package output

import "github.com/charmbracelet/lipgloss"

// Styles is the text-mode style set. The zero value renders everything
// unstyled, which is what non-TTY renderers carry.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Key     lipgloss.Style
	Path    lipgloss.Style
}

func newStyles(isTTY bool) Styles {
	if !isTTY {
		return Styles{}
	}
	return Styles{
		Header1: lipgloss.NewStyle().Bold(true).Underline(true),
		Header2: lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Faint(true),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Key:     lipgloss.NewStyle().Bold(true),
		Path:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	}
}
