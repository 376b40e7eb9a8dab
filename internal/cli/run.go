package cli

import (
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/autobump/internal/action"
	clierrors "github.com/ariel-frischer/autobump/internal/errors"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compute the next version and publish step outputs",
		Long: `Compute the next version and release notes and publish them as step outputs.

This is the GitHub Action entry point. Inputs are read from INPUT_LAST-VERSION,
INPUT_LAST-HASH and INPUT_GITHUB-TOKEN; outputs (major, minor, patch, version,
release-notes) are appended to $GITHUB_OUTPUT, or printed as name=value lines
when it is not set.

Outputs are only set when the version changes. A run without a new release
succeeds and sets nothing.`,
		Example: `  # In a workflow step
  - uses: ariel-frischer/autobump@v1
    with:
      github-token: ${{ secrets.GITHUB_TOKEN }}

  # Locally, against the working copy
  autobump run --source local`,
		GroupID: GroupRelease,
		Args:    cobra.NoArgs,
		RunE:    runRelease,
	}
	addComputeFlags(cmd)
	return cmd
}

func runRelease(cmd *cobra.Command, _ []string) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return report(stderr, err, true)
	}
	configureDebug(cfg, stderr)

	env := newActionEnv(cfg, stdout, stderr)
	host, err := newHost(cmd.Context(), cfg, env.Infof)
	if err != nil {
		return report(stderr, err, true)
	}

	res, err := newRunner(cfg, host, env.Infof).Run(cmd.Context(), env.Inputs.Request())
	if err != nil {
		return report(stderr, classifyRunError(err), true)
	}

	if err := action.Publish(env.Outputs, res); err != nil {
		return report(stderr, clierrors.OutputFailure(err), true)
	}

	if !res.Released() {
		env.Infof("No new release (version stays at %s)", res.Next)
		return nil
	}
	env.Infof("New version: %s", res.Next)
	env.Infof("Release notes:\n%s", res.ReleaseNotes)
	return nil
}
