package changelog

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/ariel-frischer/autobump/internal/output"
)

// CategoryStyle defines the color and icon for a release note category.
type CategoryStyle struct {
	Color *color.Color
	Icon  string
}

// categoryStyles maps categories to their terminal styling.
var categoryStyles = map[Category]CategoryStyle{
	CategoryBreaking: {Color: color.New(color.FgRed, color.Bold), Icon: "⚠"},
	CategoryFeatures: {Color: color.New(color.FgGreen), Icon: "✓"},
	CategoryFixes:    {Color: color.New(color.FgYellow), Icon: "⚡"},
	CategoryOther:    {Color: color.New(color.FgBlue), Icon: "~"},
}

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain    bool // Disable colors and icons
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

// FormatTerminal writes a version header followed by the notes, grouped by
// category with color-coded headers.
func FormatTerminal(version string, n Notes, w io.Writer, opts FormatOptions) error {
	if err := writeVersionHeader(version, w, opts); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	if n.IsEmpty() {
		_, err := fmt.Fprintln(w, "\n  (no changes)")
		return err
	}

	width := resolveWidth(opts.MaxWidth)
	for _, c := range Categories() {
		entries := n.Entries(c)
		if len(entries) == 0 {
			continue
		}
		if err := writeCategorySection(c, entries, w, opts, width); err != nil {
			return fmt.Errorf("formatting %s: %w", c, err)
		}
	}

	return nil
}

// writeVersionHeader writes the version header line.
func writeVersionHeader(version string, w io.Writer, opts FormatOptions) error {
	header := "v" + version
	if opts.Plain {
		_, err := fmt.Fprintf(w, "## %s\n", header)
		return err
	}

	bold := color.New(color.Bold).SprintFunc()
	_, err := fmt.Fprintf(w, "## %s\n", bold(header))
	return err
}

// writeCategorySection writes a single category with its entries.
func writeCategorySection(c Category, entries []string, w io.Writer, opts FormatOptions, width int) error {
	style := categoryStyles[c]

	if err := writeCategoryHeader(c, style, w, opts); err != nil {
		return err
	}

	for _, entry := range entries {
		if err := writeEntry(entry, style, w, opts, width); err != nil {
			return err
		}
	}

	return nil
}

// writeCategoryHeader writes the category header line.
func writeCategoryHeader(c Category, style CategoryStyle, w io.Writer, opts FormatOptions) error {
	if opts.Plain {
		_, err := fmt.Fprintf(w, "\n### %s\n", c.Title())
		return err
	}

	colored := style.Color.SprintFunc()
	_, err := fmt.Fprintf(w, "\n%s %s\n", colored(style.Icon), colored(c.Title()))
	return err
}

// writeEntry writes a single entry, wrapping long lines when colored.
func writeEntry(entry string, style CategoryStyle, w io.Writer, opts FormatOptions, width int) error {
	prefix := "  - "

	if opts.Plain {
		_, err := fmt.Fprintf(w, "%s%s\n", prefix, entry)
		return err
	}

	wrapped := wrapText(entry, width-len(prefix), "    ")

	colored := style.Color.SprintFunc()
	_, err := fmt.Fprintf(w, "%s%s\n", prefix, colored(wrapped))
	return err
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	return output.GetTerminalWidth()
}

// wrapText wraps text to fit within maxWidth, using indent for continuation lines.
func wrapText(text string, maxWidth int, indent string) string {
	if maxWidth <= 0 || len(text) <= maxWidth {
		return text
	}

	var lines []string
	remaining := text

	for len(remaining) > maxWidth {
		breakPoint := maxWidth
		for i := maxWidth - 1; i > 0; i-- {
			if remaining[i] == ' ' {
				breakPoint = i
				break
			}
		}

		lines = append(lines, remaining[:breakPoint])
		remaining = strings.TrimLeft(remaining[breakPoint:], " ")
	}

	if len(remaining) > 0 {
		lines = append(lines, remaining)
	}

	return strings.Join(lines, "\n"+indent)
}
