package lipgloss

import "github.com/charmbracelet/lipgloss"

var (
	Red     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	Green   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	Yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	BlueSky = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	Info    = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	Muted   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	BoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(0, 1)
)

// Diff line styles.
var (
	AddedLine   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	RemovedLine = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	ChangedLine = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	AddedWord   = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("10"))
	RemovedWord = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("9")).Strikethrough(true)

	Gutter = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Chrome styles for the player.
var (
	Header      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	TabActive   = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("15")).Padding(0, 1)
	TabInactive = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
	StatusBar   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)
