// Package progress renders fetch progress for interactive runs: a spinner
// on terminals and plain status lines everywhere else.
package progress

import (
	"io"
	"os"

	"golang.org/x/term"
)

// asciiEnv forces ASCII symbols even on a Unicode-capable terminal.
const asciiEnv = "AUTOBUMP_ASCII"

// Capabilities describes the writer progress is rendered to.
type Capabilities struct {
	// IsTTY enables the spinner animation.
	IsTTY bool
	// Unicode selects ✓/✗ and the braille spinner over ASCII.
	Unicode bool
}

// Symbols is the glyph set used for status lines and the spinner.
type Symbols struct {
	Checkmark  string
	Failure    string
	SpinnerSet int // index into spinner.CharSets
}

var (
	unicodeSymbols = Symbols{Checkmark: "✓", Failure: "✗", SpinnerSet: 14}
	asciiSymbols   = Symbols{Checkmark: "[OK]", Failure: "[FAIL]", SpinnerSet: 9}
)

// Detect inspects w, the writer progress will be drawn on. Only writers
// backed by a terminal file descriptor count as a TTY; buffers, pipes and
// regular files do not.
func Detect(w io.Writer) Capabilities {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return Capabilities{}
	}
	return Capabilities{
		IsTTY:   true,
		Unicode: os.Getenv(asciiEnv) != "1",
	}
}

// SelectSymbols returns the glyphs for caps.
func SelectSymbols(caps Capabilities) Symbols {
	if caps.Unicode {
		return unicodeSymbols
	}
	return asciiSymbols
}
