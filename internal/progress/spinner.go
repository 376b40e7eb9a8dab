package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
)

const spinnerInterval = 100 * time.Millisecond

// Spinner shows an animated status while a step runs. On non-terminals it
// stays silent until the step finishes and then prints one status line.
type Spinner struct {
	out     io.Writer
	symbols Symbols
	spin    *spinner.Spinner
}

// NewSpinner creates a spinner writing to out. The animation is only used
// when caps reports a TTY; see Detect.
func NewSpinner(out io.Writer, caps Capabilities, message string) *Spinner {
	s := &Spinner{out: out, symbols: SelectSymbols(caps)}
	if caps.IsTTY {
		s.spin = spinner.New(spinner.CharSets[s.symbols.SpinnerSet], spinnerInterval, spinner.WithWriter(out))
		s.spin.Suffix = " " + message
	}
	return s
}

// Start begins the animation.
func (s *Spinner) Start() {
	if s.spin != nil {
		s.spin.Start()
	}
}

// Success stops the spinner and prints a success line.
func (s *Spinner) Success(message string) {
	s.finish(s.symbols.Checkmark, message)
}

// Fail stops the spinner and prints a failure line.
func (s *Spinner) Fail(message string) {
	s.finish(s.symbols.Failure, message)
}

func (s *Spinner) finish(symbol, message string) {
	if s.spin != nil {
		s.spin.Stop()
	}
	fmt.Fprintf(s.out, "%s %s\n", symbol, message)
}
