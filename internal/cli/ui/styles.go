package ui

import "github.com/charmbracelet/lipgloss"

// Palette shared by the renderers and the chat TUI
var (
	Cyan   = lipgloss.Color("86")
	Gray   = lipgloss.Color("245")
	Yellow = lipgloss.Color("229")
	Pink   = lipgloss.Color("212")
	Red    = lipgloss.Color("196")
)

// Styles holds the styles used outside the renderers
var Styles = struct {
	Bold    lipgloss.Style
	Heading lipgloss.Style
	Muted   lipgloss.Style
	Alert   lipgloss.Style
}{
	Bold:    lipgloss.NewStyle().Bold(true),
	Heading: lipgloss.NewStyle().Foreground(Cyan).Bold(true),
	Muted:   lipgloss.NewStyle().Foreground(Gray),
	Alert:   lipgloss.NewStyle().Foreground(Red).Bold(true),
}
