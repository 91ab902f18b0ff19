package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/arnavsurve/minic/internal/compiler/diag"
)

// Colors
var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorOK      = lipgloss.Color("#10B981")
	colorWarn    = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	okStyle = lipgloss.NewStyle().
		Foreground(colorOK).
		Bold(true)

	failStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	lineStyle = lipgloss.NewStyle().
			Foreground(colorWarn)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	summaryStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)
)

// printDiagnostics writes one styled "Line n: message" row per diagnostic.
func printDiagnostics(w io.Writer, ds []diag.Diagnostic) {
	for _, d := range ds {
		fmt.Fprintf(w, "  %s %s\n", lineStyle.Render(fmt.Sprintf("Line %d:", d.Line)), d.Message)
	}
}
