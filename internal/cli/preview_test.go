package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/autobump/internal/bump"
	"github.com/ariel-frischer/autobump/internal/semver"
	"github.com/ariel-frischer/autobump/internal/testutil"
)

func TestPreview_Formats(t *testing.T) {
	tests := map[string]struct {
		args  []string
		check func(t *testing.T, stdout string)
	}{
		"markdown is the release-notes output": {
			args: []string{"preview", "--format", "markdown"},
			check: func(t *testing.T, stdout string) {
				assert.Equal(t, "## Features\n* add login (bbbbbbb)\n\n## Fixes\n* crash on start (ccccccc)\n\n", stdout)
			},
		},
		"json": {
			args: []string{"preview", "-f", "json"},
			check: func(t *testing.T, stdout string) {
				var doc previewDocument
				require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
				assert.Equal(t, bump.Release, doc.Outcome)
				assert.Equal(t, "0.1.0", doc.Previous)
				assert.Equal(t, "0.2.1", doc.Version)
				assert.Equal(t, "v0.1.0", doc.Tag)
				assert.Equal(t, sha('a'), doc.Reference)
				assert.Equal(t, 2, doc.Commits)
				assert.Equal(t, []string{"add login (bbbbbbb)"}, doc.Notes.Features)
				assert.Equal(t, []string{"crash on start (ccccccc)"}, doc.Notes.Fixes)
			},
		},
		"yaml": {
			args: []string{"preview", "--format", "yaml"},
			check: func(t *testing.T, stdout string) {
				var doc map[string]any
				require.NoError(t, yaml.Unmarshal([]byte(stdout), &doc))
				assert.Equal(t, "release", doc["outcome"])
				assert.Equal(t, "0.2.1", doc["version"])
				assert.Equal(t, "v0.1.0", doc["tag"])
			},
		},
		"terminal plain": {
			args: []string{"preview", "--plain"},
			check: func(t *testing.T, stdout string) {
				assert.Contains(t, stdout, "New version: 0.2.1 (from 0.1.0)")
				assert.Contains(t, stdout, "## v0.2.1")
				assert.Contains(t, stdout, "add login (bbbbbbb)")
				assert.Contains(t, stdout, "crash on start (ccccccc)")
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			fakeGitHub(t, releaseHistory, releaseTags)

			stdout, stderr, err := execute(t, tt.args...)
			require.NoError(t, err, stderr)
			tt.check(t, stdout)
			assert.Contains(t, stderr, "Classified 2 commits since v0.1.0")
		})
	}
}

func TestPreview_DoesNotWriteOutputs(t *testing.T) {
	dir := isolate(t)
	fakeGitHub(t, releaseHistory, releaseTags)
	t.Setenv("GITHUB_OUTPUT", dir+"/github_output")

	_, _, err := execute(t, "preview", "--format", "markdown")
	require.NoError(t, err)
	assert.NoFileExists(t, dir+"/github_output")
}

func TestPreview_NoRelease(t *testing.T) {
	isolate(t)
	fakeGitHub(t, []testutil.Commit{
		{SHA: sha('b'), Message: "docs: readme"},
		{SHA: sha('a'), Message: "chore: release"},
	}, releaseTags)

	stdout, stderr, err := execute(t, "preview", "--plain")
	require.NoError(t, err, stderr)
	assert.Contains(t, stdout, "No new release: version stays at 0.1.0")
	assert.Contains(t, stdout, "readme (bbbbbbb)")
}

func TestPreview_LocalSource(t *testing.T) {
	dir := isolate(t)
	repo := testutil.NewGitRepo(t, dir)
	initial := repo.Commit("chore: initial")
	repo.Tag("v0.3.0", initial)
	repo.Commit("fix: handle empty input")
	repo.Commit("feat: add --dry-run")

	stdout, stderr, err := execute(t, "preview", "--source", "local", "--format", "json")
	require.NoError(t, err, stderr)

	var doc previewDocument
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "0.3.0", doc.Previous)
	assert.Equal(t, "0.4.0", doc.Version)
	assert.Equal(t, "v0.3.0", doc.Tag)
	assert.Equal(t, initial.String(), doc.Reference)
	assert.Equal(t, 2, doc.Commits)
}

func TestPreview_ExplicitReference(t *testing.T) {
	dir := isolate(t)
	repo := testutil.NewGitRepo(t, dir)
	repo.Commit("chore: initial")
	reference := repo.Commit("feat: add export")
	repo.Commit("fix: export path")

	stdout, stderr, err := execute(t, "preview", "--source", "local", "--format", "json",
		"--last-version", "2.0.0", "--last-hash", reference.String())
	require.NoError(t, err, stderr)

	var doc previewDocument
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "2.0.1", doc.Version)
	assert.Empty(t, doc.Tag)
	assert.Equal(t, 1, doc.Commits)
}

func TestPreview_Errors(t *testing.T) {
	tests := map[string]struct {
		args       []string
		wantCode   int
		wantStderr string
	}{
		"invalid format": {
			args:       []string{"preview", "--format", "html"},
			wantCode:   ExitInvalidArguments,
			wantStderr: `unsupported format "html"`,
		},
		"invalid tag order": {
			args:       []string{"preview", "--tag-order", "newest"},
			wantCode:   ExitInvalidArguments,
			wantStderr: "invalid configuration",
		},
		"missing token": {
			args:       []string{"preview"},
			wantCode:   ExitFailure,
			wantStderr: "a GitHub token is required",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			isolate(t)

			_, stderr, err := execute(t, tt.args...)
			assert.Equal(t, tt.wantCode, ExitCode(err))
			assert.Contains(t, stderr, tt.wantStderr)
			assert.NotContains(t, stderr, "::error::")
		})
	}
}

func TestDescribeReference(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		res  *bump.Result
		want string
	}{
		"tag":       {res: resultWith("v1.0.0", sha('a'), "1.0.0"), want: "v1.0.0"},
		"hash only": {res: resultWith("", sha('a'), "1.0.0"), want: "1.0.0"},
		"nothing":   {res: resultWith("", "", "0.0.0"), want: "the beginning of history"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, describeReference(tt.res))
		})
	}
}

func resultWith(tag, hash, previous string) *bump.Result {
	res := &bump.Result{Previous: semver.Parse(previous)}
	res.Reference.Tag = tag
	res.Reference.Hash = hash
	return res
}
