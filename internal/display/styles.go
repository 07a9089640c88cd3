package display

import "github.com/charmbracelet/lipgloss"

type styles struct {
	header      lipgloss.Style
	id          lipgloss.Style
	present     lipgloss.Style
	absent      lipgloss.Style
	unspecified lipgloss.Style
	warn        lipgloss.Style
}

func newStyles(colored bool) styles {
	if !colored {
		plain := lipgloss.NewStyle()
		return styles{
			header:      plain,
			id:          plain,
			present:     plain,
			absent:      plain,
			unspecified: plain,
			warn:        plain,
		}
	}
	return styles{
		header:      lipgloss.NewStyle().Bold(true),
		id:          lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		present:     lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		absent:      lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		unspecified: lipgloss.NewStyle().Faint(true),
		warn:        lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	}
}
