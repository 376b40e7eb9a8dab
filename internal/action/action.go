// Package action is the GitHub Actions plumbing around a run: reading
// inputs, publishing step outputs and reporting failures as workflow
// commands. All of it hangs off an explicit Env instead of process globals.
package action

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/ariel-frischer/autobump/internal/bump"
)

// Output names set by Publish.
const (
	OutputMajor        = "major"
	OutputMinor        = "minor"
	OutputPatch        = "patch"
	OutputVersion      = "version"
	OutputReleaseNotes = "release-notes"
)

// Inputs are the action inputs declared for the step.
type Inputs struct {
	LastVersion string `koanf:"last_version"`
	LastHash    string `koanf:"last_hash"`
	GithubToken string `koanf:"github_token"`
}

// Request converts the inputs into a run request.
func (in Inputs) Request() bump.Request {
	return bump.Request{LastHash: in.LastHash, LastVersion: in.LastVersion}
}

// OutputSink receives step outputs.
type OutputSink interface {
	Set(name, value string) error
}

// Env is the context a run executes in.
type Env struct {
	Inputs  Inputs
	Outputs OutputSink
	Stdout  io.Writer
	Stderr  io.Writer
}

// Infof writes an informational line to Stdout.
func (e *Env) Infof(format string, args ...any) {
	if e.Stdout == nil {
		return
	}
	fmt.Fprintf(e.Stdout, format+"\n", args...)
}

// FileSink appends outputs to the file named by $GITHUB_OUTPUT.
type FileSink struct {
	Path string

	// newDelimiter is replaced in tests.
	newDelimiter func() string
	mu           sync.Mutex
}

// NewFileSink creates a sink appending to path.
func NewFileSink(path string) *FileSink {
	return &FileSink{Path: path}
}

// Set appends name and value using the multi-line form
//
//	name<<DELIMITER
//	value
//	DELIMITER
//
// with a fresh delimiter per output. Values containing the delimiter are
// rejected rather than silently truncated.
func (s *FileSink) Set(name, value string) error {
	if name == "" {
		return errors.New("output name must not be empty")
	}

	delimiter := s.delimiter()
	if strings.Contains(name, delimiter) || strings.Contains(value, delimiter) {
		return fmt.Errorf("output %q contains the delimiter %q", name, delimiter)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening output file: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s<<%s\n%s\n%s\n", name, delimiter, value, delimiter); err != nil {
		return fmt.Errorf("writing output %q: %w", name, err)
	}
	return nil
}

func (s *FileSink) delimiter() string {
	if s.newDelimiter != nil {
		return s.newDelimiter()
	}
	return "ghadelimiter_" + uuid.NewString()
}

// WriterSink writes outputs as name=value lines. Multi-line values are
// written as-is, which keeps local output readable.
type WriterSink struct {
	W io.Writer
}

// Set writes a single output.
func (s WriterSink) Set(name, value string) error {
	if name == "" {
		return errors.New("output name must not be empty")
	}
	if _, err := fmt.Fprintf(s.W, "%s=%s\n", name, value); err != nil {
		return fmt.Errorf("writing output %q: %w", name, err)
	}
	return nil
}

// Publish sets the version outputs. Nothing is set when the run did not
// produce a new version.
func Publish(sink OutputSink, res *bump.Result) error {
	if res == nil || !res.Released() {
		return nil
	}

	outputs := []struct{ name, value string }{
		{OutputMajor, fmt.Sprint(res.Next.Major)},
		{OutputMinor, fmt.Sprint(res.Next.Minor)},
		{OutputPatch, fmt.Sprint(res.Next.Patch)},
		{OutputVersion, res.Next.String()},
		{OutputReleaseNotes, res.ReleaseNotes},
	}
	for _, o := range outputs {
		if err := sink.Set(o.name, o.value); err != nil {
			return err
		}
	}
	return nil
}

// Fail reports err as an ::error:: workflow command so it is surfaced as an
// annotation on the run.
func Fail(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "::error::%s\n", escapeData(err.Error()))
}

// escapeData encodes a workflow command message.
func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	return strings.ReplaceAll(s, "\n", "%0A")
}
