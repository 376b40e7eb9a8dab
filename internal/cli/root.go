// Package cli implements the autobump command tree.
package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/autobump/internal/build"
	clierrors "github.com/ariel-frischer/autobump/internal/errors"
)

// Command group IDs for organizing help output
const (
	GroupRelease       = "release"
	GroupConfiguration = "configuration"
)

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "autobump",
		Short: "Compute the next semantic version and release notes from commits",
		Long: `autobump reads the commits made since the last release, classifies their
conventional-commit prefixes and computes the next semantic version together
with Markdown release notes.

It runs as a GitHub Action (inputs from INPUT_*, outputs to $GITHUB_OUTPUT)
or locally against a working copy with --source local.

Classification (first match wins):
  feat! / fix!   Breaking Changes   major bump
  fix:           Fixes              patch bump
  feat:          Features           minor bump
  chore:         Other              no bump
  anything else  Other              no bump`,
		Example: `  # Inside a GitHub Actions step
  autobump run

  # Preview the next release of the local working copy
  autobump preview --source local

  # Start from an explicit reference point
  autobump preview --last-version 1.4.0 --last-hash 3f2c1ab

  # Show the classification rules
  autobump rules`,
		Version:       build.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddGroup(
		&cobra.Group{ID: GroupRelease, Title: "Release Commands:"},
		&cobra.Group{ID: GroupConfiguration, Title: "Configuration Commands:"},
	)

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "Path to config file (default: .autobump.yml)")
	flags.Bool("debug", false, "Enable debug logging")
	flags.String("source", "", "Where to read history from: github or local")
	flags.String("repo-path", "", "Working copy for --source local (default: current directory)")

	rootCmd.AddCommand(
		newRunCmd(),
		newPreviewCmd(),
		newRulesCmd(),
		newConfigCmd(),
		newDoctorCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

// Execute runs the root command and returns the error, if any. Errors have
// already been reported to the user; callers map them to an exit status
// with ExitCode.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return executeRoot(ctx, NewRootCmd())
}

// executeRoot runs cmd and reports usage errors, which cobra returns
// before any command had a chance to print them.
func executeRoot(ctx context.Context, cmd *cobra.Command) error {
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	clierrors.FprintError(cmd.ErrOrStderr(), clierrors.New(clierrors.Argument, err.Error(),
		"Run 'autobump --help' for usage"))
	return NewExitError(ExitInvalidArguments)
}
