package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#7D56F4")
	muted  = lipgloss.Color("#626262")
	bad    = lipgloss.Color("#E06C75")
)

type styles struct {
	Header   lipgloss.Style
	Card     lipgloss.Style
	Selected lipgloss.Style
	Missing  lipgloss.Style
	Status   lipgloss.Style
	Error    lipgloss.Style
	Help     lipgloss.Style
}

func newStyles() styles {
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(muted).
		Padding(0, 1).
		MarginRight(1)
	return styles{
		Header: lipgloss.NewStyle().
			Background(accent).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),
		Card:     card,
		Selected: card.BorderForeground(accent),
		Missing:  lipgloss.NewStyle().Foreground(bad).Italic(true),
		Status:   lipgloss.NewStyle().Foreground(muted),
		Error:    lipgloss.NewStyle().Foreground(bad).Bold(true),
		Help:     lipgloss.NewStyle().Foreground(muted).Padding(0, 1),
	}
}
