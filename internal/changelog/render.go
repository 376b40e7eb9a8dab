package changelog

import (
	"io"
	"strings"
)

// RenderMarkdown writes the release notes as Markdown. Non-empty categories
// are emitted in the fixed order Breaking Changes, Features, Fixes, Other,
// each as a "## " heading, one "* " bullet per entry and a trailing blank
// line. Empty categories produce no heading; empty notes produce no output.
func RenderMarkdown(n Notes, w io.Writer) error {
	for _, c := range Categories() {
		entries := n.Entries(c)
		if len(entries) == 0 {
			continue
		}
		if err := renderCategory(c.Title(), entries, w); err != nil {
			return err
		}
	}
	return nil
}

// RenderMarkdownString is a convenience function that renders to a string.
func RenderMarkdownString(n Notes) string {
	var b strings.Builder
	// strings.Builder never fails to write
	_ = RenderMarkdown(n, &b)
	return b.String()
}

// renderCategory writes a single section with its entries.
func renderCategory(title string, entries []string, w io.Writer) error {
	if _, err := io.WriteString(w, "## "+title+"\n"); err != nil {
		return err
	}
	for _, entry := range entries {
		if _, err := io.WriteString(w, "* "+entry+"\n"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n")
	return err
}
