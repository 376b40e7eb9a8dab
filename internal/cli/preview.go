package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/autobump/internal/bump"
	"github.com/ariel-frischer/autobump/internal/changelog"
	clierrors "github.com/ariel-frischer/autobump/internal/errors"
	"github.com/ariel-frischer/autobump/internal/output"
	"github.com/ariel-frischer/autobump/internal/progress"
)

// Preview output formats.
const (
	FormatTerminal = "terminal"
	FormatMarkdown = "markdown"
	FormatYAML     = "yaml"
	FormatJSON     = "json"
)

func newPreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show the next version and release notes without publishing",
		Long: `Compute the next version and release notes and print them.

Nothing is written to $GITHUB_OUTPUT. The terminal format groups the notes by
category with colours; markdown prints exactly the release-notes output; yaml
and json print the full result for scripting.`,
		Example: `  autobump preview --source local
  autobump preview --format markdown > NOTES.md
  autobump preview --format json | jq -r .version`,
		GroupID: GroupRelease,
		Args:    cobra.NoArgs,
		RunE:    runPreview,
	}
	addComputeFlags(cmd)
	cmd.Flags().StringP("format", "f", FormatTerminal, "Output format: terminal, markdown, yaml or json")
	cmd.Flags().Bool("plain", false, "Plain terminal output (no colors/icons)")
	return cmd
}

func runPreview(cmd *cobra.Command, _ []string) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	format, _ := cmd.Flags().GetString("format")
	if !validFormat(format) {
		return report(stderr, clierrors.InvalidFormat(format), false)
	}
	plain, _ := cmd.Flags().GetBool("plain")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return report(stderr, err, false)
	}
	configureDebug(cfg, stderr)

	// Progress lines only matter when debugging; the spinner covers the rest.
	var logf logFunc
	if cfg.Debug {
		logf = func(format string, args ...any) { fmt.Fprintf(stderr, format+"\n", args...) }
	}

	host, err := newHost(cmd.Context(), cfg, logf)
	if err != nil {
		return report(stderr, err, false)
	}

	spin := progress.NewSpinner(stderr, progress.Detect(stderr), "Reading history from "+cfg.Source)
	spin.Start()
	res, err := newRunner(cfg, host, logf).Run(cmd.Context(), bump.Request{LastHash: cfg.LastHash, LastVersion: cfg.LastVersion})
	if err != nil {
		spin.Fail("Reading history failed")
		return report(stderr, classifyRunError(err), false)
	}
	spin.Success(fmt.Sprintf("Classified %d commits since %s", res.Commits, describeReference(res)))

	if err := writePreview(stdout, res, format, plain); err != nil {
		return report(stderr, err, false)
	}
	return nil
}

func validFormat(format string) bool {
	switch format {
	case FormatTerminal, FormatMarkdown, FormatYAML, FormatJSON:
		return true
	}
	return false
}

func describeReference(res *bump.Result) string {
	switch {
	case res.Reference.Tag != "":
		return res.Reference.Tag
	case res.Reference.Hash != "":
		return res.Previous.String()
	default:
		return "the beginning of history"
	}
}

// previewDocument is the yaml/json rendering of a result.
type previewDocument struct {
	Outcome      bump.Outcome    `json:"outcome" yaml:"outcome"`
	Previous     string          `json:"previous" yaml:"previous"`
	Version      string          `json:"version" yaml:"version"`
	Reference    string          `json:"reference,omitempty" yaml:"reference,omitempty"`
	Tag          string          `json:"tag,omitempty" yaml:"tag,omitempty"`
	Commits      int             `json:"commits" yaml:"commits"`
	Notes        changelog.Notes `json:"notes" yaml:"notes"`
	ReleaseNotes string          `json:"release_notes" yaml:"release_notes"`
}

func newPreviewDocument(res *bump.Result) previewDocument {
	return previewDocument{
		Outcome:      res.Outcome,
		Previous:     res.Previous.String(),
		Version:      res.Next.String(),
		Reference:    res.Reference.Hash,
		Tag:          res.Reference.Tag,
		Commits:      res.Commits,
		Notes:        res.Notes,
		ReleaseNotes: res.ReleaseNotes,
	}
}

func writePreview(w io.Writer, res *bump.Result, format string, plain bool) error {
	switch format {
	case FormatMarkdown:
		_, err := io.WriteString(w, res.ReleaseNotes)
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(newPreviewDocument(res)); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(newPreviewDocument(res)); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	}

	if res.Released() {
		output.PrintNewVersion(w, res.Previous.String(), res.Next.String())
	} else {
		output.PrintNoRelease(w, res.Next.String())
	}
	output.PrintSeparator(w, "release notes", output.GetTerminalWidth())
	return changelog.FormatTerminal(res.Next.String(), res.Notes, w, changelog.FormatOptions{Plain: plain})
}
