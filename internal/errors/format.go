package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// palette holds the decorations applied to each part of an error report.
// The plain palette leaves every part untouched.
type palette struct {
	label    func(a ...interface{}) string
	message  func(a ...interface{}) string
	category func(a ...interface{}) string
	usage    func(a ...interface{}) string
	fix      func(a ...interface{}) string
	bullet   func(a ...interface{}) string
}

var (
	colored = palette{
		label:    color.New(color.FgRed, color.Bold).SprintFunc(),
		message:  color.New(color.FgRed).SprintFunc(),
		category: color.New(color.FgYellow).SprintFunc(),
		usage:    color.New(color.FgCyan).SprintFunc(),
		fix:      color.New(color.FgGreen, color.Bold).SprintFunc(),
		bullet:   color.New(color.FgGreen).SprintFunc(),
	}
	plain = palette{
		label:    fmt.Sprint,
		message:  fmt.Sprint,
		category: fmt.Sprint,
		usage:    fmt.Sprint,
		fix:      fmt.Sprint,
		bullet:   fmt.Sprint,
	}
)

// FormatError renders a CLIError for the terminal. Colors follow
// fatih/color detection, so NO_COLOR and non-TTY writers get plain text.
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}
	return colored.render(err)
}

// FormatErrorPlain renders a CLIError without colors.
func FormatErrorPlain(err *CLIError) string {
	if err == nil {
		return ""
	}
	return plain.render(err)
}

// render lays out a report as
//
//	Error [Category]: message
//
//	Usage: syntax
//
//	To fix this:
//	  • step
func (p palette) render(err *CLIError) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s [%s]: %s\n",
		p.label("Error"), p.category(err.Category.String()), p.message(err.Message))

	if err.Usage != "" {
		fmt.Fprintf(&sb, "\n%s%s\n", p.usage("Usage: "), p.usage(err.Usage))
	}

	if len(err.Remediation) > 0 {
		fmt.Fprintf(&sb, "\n%s\n", p.fix("To fix this:"))
		for _, step := range err.Remediation {
			fmt.Fprintf(&sb, "  %s %s\n", p.bullet("•"), step)
		}
	}

	return sb.String()
}

// FprintError writes a formatted CLIError to w.
func FprintError(w io.Writer, err *CLIError) {
	if err == nil {
		return
	}
	fmt.Fprint(w, FormatError(err))
}
