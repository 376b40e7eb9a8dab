// Package output provides terminal output formatting utilities for the
// autobump CLI.
// This package is designed to have minimal dependencies to avoid import cycles.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// GetTerminalWidth returns the terminal width, defaulting to 80 if unavailable.
func GetTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// PrintSeparator prints a dim rule with a centered label, used to set the
// release notes apart from log lines.
func PrintSeparator(out io.Writer, label string, width int) {
	magenta := color.New(color.FgMagenta, color.Faint).SprintFunc()

	label = " " + label + " "
	lineLen := (width - len(label)) / 2
	if lineLen < 3 {
		lineLen = 3
	}

	line := strings.Repeat("─", lineLen)
	fmt.Fprintf(out, "\n%s%s%s\n", magenta(line), magenta(label), magenta(line))
}

// PrintNewVersion prints the computed version transition.
func PrintNewVersion(out io.Writer, previous, next string) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	fmt.Fprintf(out, "%s %s %s\n", green("New version:"), green(next), dim("(from "+previous+")"))
}

// PrintNoRelease prints the notice for a run without a version change.
func PrintNoRelease(out io.Writer, version string) {
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", yellow("No new release:"), "version stays at "+version)
}

// PrintKeyValue prints an aligned, coloured key and plain value.
func PrintKeyValue(out io.Writer, key string, width int, value string) {
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", cyan(fmt.Sprintf("%-*s", width, key)), value)
}
