package ui

import "github.com/charmbracelet/lipgloss"

var (
	TitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	DimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	ErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	ReplyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	ExitStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
)
