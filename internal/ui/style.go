// Package ui holds the terminal output helpers shared by the mono commands:
// aligned tables, a parallel-run progress printer, and the lipgloss styles
// that color them. Styling degrades to plain text on non-TTY output.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	styleOK     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleFail   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	styleDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleHeader = lipgloss.NewStyle().Bold(true)
)

// IsTerminal reports whether stdout is an interactive terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// OK formats s as a success marker.
func OK(s string) string { return styleOK.Render(s) }

// Fail formats s as a failure marker.
func Fail(s string) string { return styleFail.Render(s) }

// Dim formats s as secondary detail.
func Dim(s string) string { return styleDim.Render(s) }

// Header formats s as a section or column header.
func Header(s string) string { return styleHeader.Render(s) }
