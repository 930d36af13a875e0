package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
)

// status line prefixes
var (
	successLine = statusLine{"✓", color.New(color.FgGreen, color.Bold)}
	errorLine   = statusLine{"✗", color.New(color.FgRed, color.Bold)}
	warningLine = statusLine{"⚠", color.New(color.FgYellow, color.Bold)}
	infoLine    = statusLine{"ℹ", color.New(color.FgCyan)}
	boldText    = color.New(color.Bold)
)

type statusLine struct {
	icon string
	c    *color.Color
}

func (s statusLine) sprintf(format string, args ...any) string {
	return s.c.Sprintf("%s %s", s.icon, fmt.Sprintf(format, args...))
}

func (s statusLine) printf(format string, args ...any) {
	fmt.Fprintln(color.Output, s.sprintf(format, args...))
}

func PrintSuccess(format string, args ...any) { successLine.printf(format, args...) }

func PrintError(format string, args ...any) { errorLine.printf(format, args...) }

func PrintWarning(format string, args ...any) { warningLine.printf(format, args...) }

func PrintInfo(format string, args ...any) { infoLine.printf(format, args...) }

func PrintBold(format string, args ...any) {
	fmt.Fprintln(color.Output, boldText.Sprintf(format, args...))
}

// ClearScreen moves the cursor home and clears the terminal
func ClearScreen() {
	fmt.Fprint(color.Output, "\033[H\033[2J")
}

var (
	bannerTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Cyan).
			Align(lipgloss.Center).
			Width(60)
	bannerBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Cyan).
			Padding(1, 2).
			MarginTop(1)
)

// Banner renders the boxed title of an interactive command
func Banner(subtitle string) string {
	return bannerBox.Render(bannerTitle.Render("🤝  Sahaaya · " + subtitle))
}

func PrintWelcomeBanner(subtitle string) {
	fmt.Fprintln(color.Output, Banner(subtitle))
}
