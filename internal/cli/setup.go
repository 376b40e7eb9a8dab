package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/autobump/internal/action"
	"github.com/ariel-frischer/autobump/internal/bump"
	"github.com/ariel-frischer/autobump/internal/config"
	clierrors "github.com/ariel-frischer/autobump/internal/errors"
	"github.com/ariel-frischer/autobump/internal/git"
	"github.com/ariel-frischer/autobump/internal/github"
	"github.com/ariel-frischer/autobump/internal/history"
	"github.com/ariel-frischer/autobump/internal/reference"
	"github.com/ariel-frischer/autobump/internal/source"
)

// logFunc is the printf-style logger threaded through the pipeline.
type logFunc = func(format string, args ...any)

// stringOverrides maps string flags onto configuration fields.
func stringOverrides(cfg *config.Configuration) map[string]*string {
	return map[string]*string{
		"source":       &cfg.Source,
		"repo-path":    &cfg.RepoPath,
		"last-version": &cfg.LastVersion,
		"last-hash":    &cfg.LastHash,
		"tag-order":    &cfg.TagOrder,
		"message-mode": &cfg.MessageMode,
	}
}

// addComputeFlags registers the flags shared by run and preview.
func addComputeFlags(cmd *cobra.Command) {
	cmd.Flags().String("last-version", "", "Version of the previous release (requires --last-hash)")
	cmd.Flags().String("last-hash", "", "Commit hash of the previous release (requires --last-version)")
	cmd.Flags().String("tag-order", "", "Which version tag wins: host or semver")
	cmd.Flags().String("message-mode", "", "Classify the full message or only the subject line")
	cmd.Flags().Bool("fetch-tags", false, "Fetch remote tags before resolving (local source)")
}

// loadConfig loads configuration and applies any flags the user set.
func loadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ProjectConfigPath: configPath,
		WarningWriter:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, clierrors.InvalidConfig(err)
	}

	for name, field := range stringOverrides(cfg) {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			*field = f.Value.String()
		}
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug, _ = cmd.Flags().GetBool("debug")
	}
	if f := cmd.Flags().Lookup("fetch-tags"); f != nil && f.Changed {
		cfg.FetchTags, _ = cmd.Flags().GetBool("fetch-tags")
	}

	if err := cfg.Validate(); err != nil {
		return nil, clierrors.InvalidConfig(err)
	}
	return cfg, nil
}

// configureDebug routes the adapters' debug hooks to w when debug is on.
func configureDebug(cfg *config.Configuration, w io.Writer) {
	if !cfg.Debug {
		git.SetDebugLogger(nil)
		github.SetDebugLogger(nil)
		return
	}
	logger := log.New(w, "[debug] ", 0)
	git.SetDebugLogger(logger.Printf)
	github.SetDebugLogger(logger.Printf)
}

// newHost builds the commit and tag source selected by the configuration.
func newHost(ctx context.Context, cfg *config.Configuration, logf logFunc) (source.Host, error) {
	if cfg.Source == config.SourceLocal {
		repo, err := git.Open(cfg.RepoPath)
		if err != nil {
			return nil, clierrors.NotGitRepository(cfg.RepoPath, err)
		}
		if cfg.FetchTags {
			repo.Warnf = logf
			ok, err := repo.FetchTags(ctx)
			if err != nil {
				return nil, clierrors.TransportFailure(fmt.Errorf("fetching tags: %w", err))
			}
			if !ok && logf != nil {
				logf("Some remotes could not be fetched; resolving from local tags")
			}
		}
		return repo, nil
	}

	if cfg.GithubToken == "" {
		return nil, clierrors.MissingToken()
	}
	if cfg.Repository == "" {
		return nil, clierrors.MissingRepository()
	}
	client, err := github.NewClient(cfg.APIURL, cfg.Repository, cfg.GithubToken)
	if err != nil {
		return nil, clierrors.InvalidRepository(cfg.Repository)
	}
	return client, nil
}

// newRunner wires a bump.Runner for host from the configuration.
func newRunner(cfg *config.Configuration, host source.Host, logf logFunc) *bump.Runner {
	runner := bump.NewRunner(host, cfg.PageSize, cfg.TagPageSize, reference.TagOrder(cfg.TagOrder), logf)
	runner.MessageMode = history.MessageMode(cfg.MessageMode)
	return runner
}

// newActionEnv builds the action context for a run.
func newActionEnv(cfg *config.Configuration, stdout, stderr io.Writer) *action.Env {
	var sink action.OutputSink = action.WriterSink{W: stdout}
	if cfg.OutputFile != "" {
		sink = action.NewFileSink(cfg.OutputFile)
	}
	return &action.Env{
		Inputs: action.Inputs{
			LastVersion: cfg.LastVersion,
			LastHash:    cfg.LastHash,
			GithubToken: cfg.GithubToken,
		},
		Outputs: sink,
		Stdout:  stdout,
		Stderr:  stderr,
	}
}

// classifyRunError turns a pipeline failure into a CLIError.
func classifyRunError(err error) *clierrors.CLIError {
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		return cliErr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return clierrors.Wrap(err, clierrors.Runtime)
	}
	if github.IsAuthError(err) {
		return clierrors.AuthenticationFailed(err)
	}
	return clierrors.TransportFailure(err)
}

// report prints err and returns the matching exit error. In action mode the
// message is also emitted as an ::error:: workflow command.
func report(w io.Writer, err error, workflowCommand bool) error {
	cliErr := clierrors.AsCLIError(err)
	if cliErr == nil {
		cliErr = clierrors.Wrap(err, clierrors.Runtime)
	}

	if workflowCommand {
		action.Fail(w, cliErr)
	}
	clierrors.FprintError(w, cliErr)

	if cliErr.Category.IsUsage() {
		return NewExitError(ExitInvalidArguments)
	}
	return NewExitError(ExitFailure)
}
