// Package term prints styled status lines for the cmm commands.
package term

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	finishedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	commandStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Finished prints "Finished <msg>".
func Finished(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", finishedStyle.Render("Finished"), fmt.Sprintf(format, args...))
}

// Success prints "Successfully <msg>".
func Success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", successStyle.Render("Successfully"), fmt.Sprintf(format, args...))
}

// Step prints a highlighted progress heading.
func Step(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, successStyle.Render(fmt.Sprintf(format, args...)))
}

// Warn prints "warning: <msg>".
func Warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", warnStyle.Render("warning:"), fmt.Sprintf(format, args...))
}

// Error prints "error: <err>".
func Error(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %s\n", errorStyle.Render("error:"), err)
}

// Command renders a command or subcommand name.
func Command(name string) string { return commandStyle.Render(name) }

// Label renders an interactive prompt label.
func Label(text string) string { return labelStyle.Render(text) }

// Hint renders secondary help text.
func Hint(text string) string { return hintStyle.Render(text) }
