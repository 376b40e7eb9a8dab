package cli

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/autobump/internal/build"
	"github.com/ariel-frischer/autobump/internal/config"
	"github.com/ariel-frischer/autobump/internal/testutil"
)

func TestRootCmd_Structure(t *testing.T) {
	root := NewRootCmd()

	assert.Equal(t, "autobump", root.Use)
	assert.True(t, root.SilenceUsage)
	assert.True(t, root.SilenceErrors)

	groups := map[string]string{
		"run":     GroupRelease,
		"preview": GroupRelease,
		"rules":   GroupRelease,
		"config":  GroupConfiguration,
		"doctor":  GroupConfiguration,
		"version": GroupConfiguration,
	}
	for name, group := range groups {
		t.Run(name, func(t *testing.T) {
			cmd, _, err := root.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, cmd.Name())
			assert.Equal(t, group, cmd.GroupID)
		})
	}

	for _, flag := range []string{"config", "debug", "source", "repo-path"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
	for _, name := range []string{"run", "preview"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		for _, flag := range []string{"last-version", "last-hash", "tag-order", "message-mode", "fetch-tags"} {
			assert.NotNil(t, cmd.Flags().Lookup(flag), "%s --%s", name, flag)
		}
	}
}

func TestUsageErrors(t *testing.T) {
	tests := map[string][]string{
		"unknown flag":       {"run", "--bogus"},
		"unknown command":    {"publish"},
		"unexpected arg":     {"rules", "extra"},
		"bad bool flag":      {"preview", "--fetch-tags=maybe"},
		"config unknown sub": {"config", "show", "extra"},
	}

	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			isolate(t)

			_, stderr, err := execute(t, args...)
			require.Error(t, err)
			assert.Equal(t, ExitInvalidArguments, ExitCode(err))
			assert.Contains(t, stderr, "Run 'autobump --help' for usage")
		})
	}
}

func TestRulesCmd(t *testing.T) {
	isolate(t)

	stdout, _, err := execute(t, "rules")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "1. feat!/fix!")
	assert.Contains(t, lines[0], "Breaking Changes")
	assert.Contains(t, lines[0], "major bump")
	assert.Contains(t, lines[1], "2. fix:")
	assert.Contains(t, lines[1], "patch bump")
	assert.Contains(t, lines[2], "3. feat:")
	assert.Contains(t, lines[2], "minor bump")
	assert.Contains(t, lines[3], "4. chore:")
	assert.Contains(t, lines[4], "5. *")
	assert.Contains(t, lines[4], "none bump")
}

func TestVersionCmd(t *testing.T) {
	isolate(t)

	t.Run("short", func(t *testing.T) {
		stdout, _, err := execute(t, "version", "--short")
		require.NoError(t, err)
		assert.Equal(t, build.GetInfo().Version+"\n", stdout)
	})

	t.Run("json", func(t *testing.T) {
		stdout, _, err := execute(t, "version", "--json")
		require.NoError(t, err)

		var info build.Info
		require.NoError(t, json.Unmarshal([]byte(stdout), &info))
		assert.Equal(t, build.GetInfo().Version, info.Version)
		assert.NotEmpty(t, info.GoVersion)
	})

	t.Run("table", func(t *testing.T) {
		stdout, _, err := execute(t, "version")
		require.NoError(t, err)
		assert.Contains(t, stdout, "autobump")
		assert.Contains(t, stdout, SourceURL)
	})
}

func TestDescribeBuildDate(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := map[string]struct {
		date string
		want string
	}{
		"rfc3339":  {date: "2025-03-07T12:00:00Z", want: "2025-03-07T12:00:00Z (3 days ago)"},
		"unknown":  {date: "unknown", want: "unknown"},
		"freeform": {date: "last tuesday", want: "last tuesday"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, describeBuildDate(tt.date, now))
		})
	}
}

func TestConfigShow(t *testing.T) {
	tests := map[string]struct {
		args      []string
		wantToken string
	}{
		"masks secrets": {args: []string{"config", "show"}, wantToken: "****cdef"},
		"reveal":        {args: []string{"config", "show", "--reveal"}, wantToken: "ghp_0123456789abcdef"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			t.Setenv("GITHUB_TOKEN", "ghp_0123456789abcdef")
			t.Setenv("GITHUB_REPOSITORY", "octo/hello")

			stdout, stderr, err := execute(t, tt.args...)
			require.NoError(t, err, stderr)

			var values map[string]any
			require.NoError(t, yaml.Unmarshal([]byte(stdout), &values))
			assert.Equal(t, tt.wantToken, values["github_token"])
			assert.Equal(t, "octo/hello", values["repository"])
			assert.Equal(t, "github", values["source"])
		})
	}
}

func TestConfigShow_AppliesFlags(t *testing.T) {
	isolate(t)

	stdout, _, err := execute(t, "config", "show", "--source", "local", "--debug")
	require.NoError(t, err)

	var values map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &values))
	assert.Equal(t, "local", values["source"])
	assert.Equal(t, true, values["debug"])
}

func TestConfigKeys(t *testing.T) {
	isolate(t)

	stdout, _, err := execute(t, "config", "keys")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	assert.Len(t, lines, len(config.KnownKeys))
	for _, key := range config.SortedKeys() {
		assert.Contains(t, stdout, key)
	}
	assert.Contains(t, stdout, "[input: github-token]")
	assert.Contains(t, stdout, "host|semver")
}

func TestConfigInit(t *testing.T) {
	isolate(t)

	stdout, _, err := execute(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote .autobump.yml")
	data, err := os.ReadFile(".autobump.yml")
	require.NoError(t, err)
	assert.Equal(t, config.GetDefaultConfigTemplate(), string(data))

	_, stderr, err := execute(t, "config", "init")
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))
	assert.Contains(t, stderr, ".autobump.yml already exists")

	require.NoError(t, os.WriteFile(".autobump.yml", []byte("source: local\n"), 0o644))
	_, _, err = execute(t, "config", "init", "--force")
	require.NoError(t, err)
	data, err = os.ReadFile(".autobump.yml")
	require.NoError(t, err)
	assert.Equal(t, config.GetDefaultConfigTemplate(), string(data))
}

func TestConfigMigrate(t *testing.T) {
	t.Run("dry run leaves files alone", func(t *testing.T) {
		isolate(t)
		require.NoError(t, os.WriteFile(".autobump.json", []byte(`{"source":"local"}`), 0o644))

		stdout, _, err := execute(t, "config", "migrate", "--dry-run")
		require.NoError(t, err)
		assert.Contains(t, stdout, "Would migrate")
		assert.FileExists(t, ".autobump.json")
		assert.NoFileExists(t, ".autobump.yml")
	})

	t.Run("migrates and backs up", func(t *testing.T) {
		isolate(t)
		require.NoError(t, os.WriteFile(".autobump.json", []byte(`{"source":"local"}`), 0o644))

		stdout, _, err := execute(t, "config", "migrate")
		require.NoError(t, err)
		assert.Contains(t, stdout, "Backed up .autobump.json to .autobump.json.bak")
		assert.FileExists(t, ".autobump.yml")
		assert.FileExists(t, ".autobump.json.bak")
		assert.NoFileExists(t, ".autobump.json")
	})

	t.Run("unknown key", func(t *testing.T) {
		isolate(t)
		require.NoError(t, os.WriteFile(".autobump.json", []byte(`{"colour":"red"}`), 0o644))

		_, stderr, err := execute(t, "config", "migrate")
		assert.Equal(t, ExitInvalidArguments, ExitCode(err))
		assert.Contains(t, stderr, "colour")
	})

	t.Run("nothing to migrate", func(t *testing.T) {
		isolate(t)

		stdout, _, err := execute(t, "config", "migrate")
		require.NoError(t, err)
		assert.Contains(t, stdout, "No JSON config found")
	})
}

func TestConfigFlag(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile("custom.yml", []byte("source: local\ntag_order: semver\n"), 0o644))

	stdout, _, err := execute(t, "config", "show", "--config", "custom.yml")
	require.NoError(t, err)

	var values map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &values))
	assert.Equal(t, "local", values["source"])
	assert.Equal(t, "semver", values["tag_order"])

	_, stderr, err := execute(t, "config", "show", "-c", "missing.yml")
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))
	assert.Contains(t, stderr, "invalid configuration")
}

func TestDoctorCmd(t *testing.T) {
	t.Run("github source ready", func(t *testing.T) {
		isolate(t)
		t.Setenv("GITHUB_TOKEN", "ghp_0123456789abcdef")
		t.Setenv("GITHUB_REPOSITORY", "octo/hello")

		stdout, _, err := execute(t, "doctor")
		require.NoError(t, err)
		assert.Contains(t, stdout, "✓ GitHub token: configured")
		assert.Contains(t, stdout, "✓ Repository: octo/hello")
	})

	t.Run("missing token fails", func(t *testing.T) {
		isolate(t)

		stdout, _, err := execute(t, "doctor")
		assert.Equal(t, ExitFailure, ExitCode(err))
		assert.Contains(t, stdout, "✗ GitHub token")
	})

	t.Run("local source", func(t *testing.T) {
		dir := isolate(t)
		testutil.NewGitRepo(t, dir).Commit("chore: initial")

		stdout, _, err := execute(t, "doctor", "--source", "local")
		require.NoError(t, err)
		assert.Contains(t, stdout, "✓ Working copy: git repository found")
	})
}
