package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/autobump/internal/testutil"
)

func init() {
	color.NoColor = true
}

// execute runs a fresh command tree and captures its output.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = executeRoot(context.Background(), cmd)
	return out.String(), errOut.String(), err
}

// isolate moves the test into an empty directory and clears every variable
// the config layer reads.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Cleanup(xdg.Reload)
	for _, name := range []string{
		"GITHUB_TOKEN", "GITHUB_REPOSITORY", "GITHUB_API_URL", "GITHUB_OUTPUT", "RUNNER_DEBUG",
		"INPUT_LAST-VERSION", "INPUT_LAST-HASH", "INPUT_GITHUB-TOKEN",
		"AUTOBUMP_SOURCE", "AUTOBUMP_API_URL", "AUTOBUMP_REPOSITORY", "AUTOBUMP_GITHUB_TOKEN",
		"AUTOBUMP_PAGE_SIZE", "AUTOBUMP_DEBUG", "AUTOBUMP_ASCII",
	} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	xdg.Reload()
	return dir
}

// fakeGitHub starts a fake API for octo/hello and points the config layer
// at it.
func fakeGitHub(t *testing.T, commits []testutil.Commit, tags []testutil.Tag) *testutil.FakeGitHub {
	t.Helper()
	f := testutil.NewFakeGitHub(t, "octo/hello", commits, tags)
	t.Setenv("AUTOBUMP_API_URL", f.URL())
	t.Setenv("GITHUB_REPOSITORY", f.Repository)
	t.Setenv("INPUT_GITHUB-TOKEN", f.Token)
	return f
}

var sha = testutil.SHA
