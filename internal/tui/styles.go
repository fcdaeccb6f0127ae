package tui

import "github.com/charmbracelet/lipgloss"

var (
	// HeaderStyle styles the column header row.
	HeaderStyle = lipgloss.NewStyle().Bold(true)
	// TitleStyle styles a task title.
	TitleStyle = lipgloss.NewStyle().Bold(true)
	// FaintStyle styles streamed log lines.
	FaintStyle = lipgloss.NewStyle().Faint(true)

	OKStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	WarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	ErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))

	statusStyles = map[string]lipgloss.Style{
		"installed": OKStyle,
		"done":      OKStyle,
		"ok":        OKStyle,

		"probing":    lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		"installing": lipgloss.NewStyle().Foreground(lipgloss.Color("4")),

		"available": WarnStyle,
		"missing":   WarnStyle,
		"warning":   WarnStyle,

		"error":  ErrorStyle,
		"failed": ErrorStyle,

		"pending": FaintStyle,
	}
)

// StatusStyle returns the lipgloss style for the given status string.
func StatusStyle(status string) lipgloss.Style {
	if s, ok := statusStyles[status]; ok {
		return s
	}
	return lipgloss.NewStyle()
}
