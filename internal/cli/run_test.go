package cli

import (
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/autobump/internal/testutil"
)

var releaseHistory = []testutil.Commit{
	{SHA: sha('c'), Message: "fix: crash on start"},
	{SHA: sha('b'), Message: "feat: add login"},
	{SHA: sha('a'), Message: "chore: release 0.1.0"},
}

var releaseTags = []testutil.Tag{{Name: "v0.1.0", SHA: sha('a')}}

// parseOutputFile decodes the heredoc blocks of a $GITHUB_OUTPUT file.
func parseOutputFile(t *testing.T, path string) map[string]string {
	t.Helper()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]string{}
	}
	require.NoError(t, err)

	block := regexp.MustCompile(`(?s)([a-z-]+)<<(ghadelimiter_[0-9a-f-]+)\n(.*?)\n(ghadelimiter_[0-9a-f-]+)\n`)
	values := map[string]string{}
	for _, m := range block.FindAllStringSubmatch(string(data), -1) {
		require.Equal(t, m[2], m[4], "delimiters of %s differ", m[1])
		values[m[1]] = m[3]
	}
	return values
}

func TestRun_PublishesOutputs(t *testing.T) {
	dir := isolate(t)
	gh := fakeGitHub(t, releaseHistory, releaseTags)
	outFile := filepath.Join(dir, "github_output")
	t.Setenv("GITHUB_OUTPUT", outFile)

	stdout, stderr, err := execute(t, "run")
	require.NoError(t, err, stderr)

	assert.Equal(t, map[string]string{
		"major":         "0",
		"minor":         "2",
		"patch":         "1",
		"version":       "0.2.1",
		"release-notes": "## Features\n* add login (bbbbbbb)\n\n## Fixes\n* crash on start (ccccccc)\n\n",
	}, parseOutputFile(t, outFile))
	assert.Contains(t, stdout, "New version: 0.2.1")
	assert.Contains(t, stdout, "Release notes:")
	assert.Equal(t, []string{"tags?page=1", "commits?page=1"}, gh.Endpoints())
}

func TestRun_PrintsOutputsWithoutOutputFile(t *testing.T) {
	isolate(t)
	fakeGitHub(t, releaseHistory, releaseTags)

	stdout, stderr, err := execute(t, "run")
	require.NoError(t, err, stderr)

	assert.Contains(t, stdout, "version=0.2.1\n")
	assert.Contains(t, stdout, "major=0\n")
	assert.Contains(t, stdout, "minor=2\n")
	assert.Contains(t, stdout, "patch=1\n")
}

func TestRun_ExplicitInputsSkipTags(t *testing.T) {
	dir := isolate(t)
	gh := fakeGitHub(t, releaseHistory, releaseTags)
	outFile := filepath.Join(dir, "github_output")
	t.Setenv("GITHUB_OUTPUT", outFile)
	t.Setenv("INPUT_LAST-VERSION", "1.0.0")
	t.Setenv("INPUT_LAST-HASH", sha('b'))

	_, stderr, err := execute(t, "run")
	require.NoError(t, err, stderr)

	outputs := parseOutputFile(t, outFile)
	assert.Equal(t, "1.0.1", outputs["version"])
	assert.Equal(t, "## Fixes\n* crash on start (ccccccc)\n\n", outputs["release-notes"])
	assert.Equal(t, []string{"commits?page=1"}, gh.Endpoints())
}

func TestRun_UnknownHashUsesWholeHistory(t *testing.T) {
	isolate(t)
	fakeGitHub(t, releaseHistory, nil)
	t.Setenv("INPUT_LAST-VERSION", "1.0.0")
	t.Setenv("INPUT_LAST-HASH", sha('f'))

	stdout, stderr, err := execute(t, "run")
	require.NoError(t, err, stderr)
	assert.Contains(t, stdout, "version=1.1.1\n")
}

func TestRun_PagesUntilReference(t *testing.T) {
	isolate(t)
	commits := make([]testutil.Commit, 0, 5)
	for _, c := range []byte("edcba") {
		commits = append(commits, testutil.Commit{SHA: sha(c), Message: "fix: " + string(c)})
	}
	gh := fakeGitHub(t, commits, []testutil.Tag{{Name: "v2.0.0", SHA: sha('b')}})
	t.Setenv("AUTOBUMP_PAGE_SIZE", "2")

	stdout, stderr, err := execute(t, "run")
	require.NoError(t, err, stderr)

	assert.Contains(t, stdout, "version=2.0.3\n")
	assert.Equal(t, []string{"tags?page=1", "commits?page=1", "commits?page=2"}, gh.Endpoints())
}

func TestRun_NoRelease(t *testing.T) {
	dir := isolate(t)
	fakeGitHub(t, []testutil.Commit{
		{SHA: sha('b'), Message: "chore: bump deps"},
		{SHA: sha('a'), Message: "chore: release 0.1.0"},
	}, releaseTags)
	outFile := filepath.Join(dir, "github_output")
	t.Setenv("GITHUB_OUTPUT", outFile)

	stdout, stderr, err := execute(t, "run")
	require.NoError(t, err, stderr)
	assert.Equal(t, ExitSuccess, ExitCode(err))

	assert.Empty(t, parseOutputFile(t, outFile))
	assert.Contains(t, stdout, "No new release (version stays at 0.1.0)")
}

func TestRun_Failures(t *testing.T) {
	tests := map[string]struct {
		setup      func(t *testing.T)
		args       []string
		wantCode   int
		wantStderr []string
	}{
		"missing token": {
			setup: func(t *testing.T) {
				t.Setenv("GITHUB_REPOSITORY", "octo/hello")
			},
			args:       []string{"run"},
			wantCode:   ExitFailure,
			wantStderr: []string{"::error::a GitHub token is required"},
		},
		"missing repository": {
			setup: func(t *testing.T) {
				t.Setenv("INPUT_GITHUB-TOKEN", "test-token")
			},
			args:       []string{"run"},
			wantCode:   ExitInvalidArguments,
			wantStderr: []string{"::error::repository is not set"},
		},
		"rejected token": {
			setup: func(t *testing.T) {
				fakeGitHub(t, nil, nil)
				t.Setenv("INPUT_GITHUB-TOKEN", "wrong-token")
			},
			args:       []string{"run"},
			wantCode:   ExitFailure,
			wantStderr: []string{"::error::GitHub rejected the token"},
		},
		"server error": {
			setup: func(t *testing.T) {
				fakeGitHub(t, nil, nil).FailWith(http.StatusInternalServerError)
			},
			args:       []string{"run"},
			wantCode:   ExitFailure,
			wantStderr: []string{"::error::listing repository history failed"},
		},
		"invalid source": {
			args:       []string{"run", "--source", "gitlab"},
			wantCode:   ExitInvalidArguments,
			wantStderr: []string{"::error::invalid configuration"},
		},
		"invalid page size": {
			setup: func(t *testing.T) {
				t.Setenv("AUTOBUMP_PAGE_SIZE", "500")
			},
			args:       []string{"run"},
			wantCode:   ExitInvalidArguments,
			wantStderr: []string{"invalid configuration", "page_size"},
		},
		"local source outside a repository": {
			args:       []string{"run", "--source", "local"},
			wantCode:   ExitFailure,
			wantStderr: []string{"::error::. is not a git repository"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			if tt.setup != nil {
				tt.setup(t)
			}

			_, stderr, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, ExitCode(err))
			for _, want := range tt.wantStderr {
				assert.Contains(t, stderr, want)
			}
		})
	}
}

func TestRun_LocalSource(t *testing.T) {
	dir := isolate(t)
	repo := testutil.NewGitRepo(t, dir)
	repo.Tag("v1.2.3", repo.Commit("chore: initial"))
	repo.Commit("feat: add login")
	repo.Commit("fix!: drop old flag")

	stdout, stderr, err := execute(t, "run", "--source", "local")
	require.NoError(t, err, stderr)

	assert.Contains(t, stdout, "version=2.0.0\n")
	assert.Contains(t, stdout, "## Breaking Changes\n* : drop old flag")
}

func TestRun_DebugLogging(t *testing.T) {
	isolate(t)
	fakeGitHub(t, releaseHistory, releaseTags)
	t.Setenv("RUNNER_DEBUG", "1")

	_, stderr, err := execute(t, "run")
	require.NoError(t, err)
	assert.Contains(t, stderr, "[debug] [github] GET ")
}
