package errors

import "fmt"

// Common error messages for the autobump CLI.
// These templates ensure consistent, actionable error messages.

// MissingToken creates an error for a missing GitHub token.
func MissingToken() *CLIError {
	return New(Prerequisite,
		"a GitHub token is required",
		"Pass the 'github-token' input: github-token: ${{ secrets.GITHUB_TOKEN }}",
		"Or set GITHUB_TOKEN / AUTOBUMP_GITHUB_TOKEN in the environment",
		"Or use --source local to read a working copy instead",
	)
}

// MissingRepository creates an error when the repository is unknown.
func MissingRepository() *CLIError {
	return New(Configuration,
		"repository is not set",
		"Set GITHUB_REPOSITORY or AUTOBUMP_REPOSITORY to owner/repo",
		"Or add 'repository: owner/repo' to .autobump.yml",
	)
}

// InvalidRepository creates an error for a malformed owner/repo value.
func InvalidRepository(repository string) *CLIError {
	return New(Configuration,
		fmt.Sprintf("invalid repository %q", repository),
		"Use the owner/repo form, e.g. octocat/hello-world",
	)
}

// InvalidConfig wraps a configuration loading or validation failure.
func InvalidConfig(err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		"invalid configuration",
		"Check .autobump.yml and AUTOBUMP_* environment variables",
		"List valid keys with: autobump config keys",
	)
}

// AuthenticationFailed creates an error for rejected credentials.
func AuthenticationFailed(err error) *CLIError {
	return WrapWithMessage(err, Transport,
		"GitHub rejected the token",
		"Check that the token has 'contents: read' permission",
		"For workflows, grant it with: permissions: { contents: read }",
	)
}

// TransportFailure creates an error for a failed host call.
func TransportFailure(err error) *CLIError {
	return WrapWithMessage(err, Transport,
		"listing repository history failed",
		"Check your network connection and api_url",
		"Run with --debug to see every request",
	)
}

// NotGitRepository creates an error when the local source has no repository.
func NotGitRepository(path string, err error) *CLIError {
	if path == "" {
		path = "."
	}
	return WrapWithMessage(err, Prerequisite,
		fmt.Sprintf("%s is not a git repository", path),
		"Run from inside a working copy or pass --repo-path",
		"In workflows, check out with fetch-depth: 0 so history and tags are present",
	)
}

// InvalidFormat creates an error for an unsupported output format.
func InvalidFormat(format string) *CLIError {
	return New(Argument, fmt.Sprintf("unsupported format %q", format)).
		WithUsage("autobump preview --format [terminal|markdown|yaml|json]")
}

// OutputFailure creates an error when step outputs cannot be written.
func OutputFailure(err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		"writing step outputs failed",
		"Check that $GITHUB_OUTPUT points to a writable file",
	)
}
