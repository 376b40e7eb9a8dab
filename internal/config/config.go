// Package config provides layered configuration for autobump using koanf.
// Values are loaded with priority: action inputs (INPUT_*) > environment
// (AUTOBUMP_*) > project config (.autobump.yml) > user config
// ($XDG_CONFIG_HOME/autobump/config.yml) > defaults. Well-known
// GitHub Actions variables fill whatever is still unset, and CLI flags are
// applied on top by the caller.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Source values.
const (
	SourceGitHub = "github"
	SourceLocal  = "local"
)

// Configuration is the effective autobump configuration.
type Configuration struct {
	// LastVersion and LastHash form the explicit reference point. Both must
	// be set to take effect.
	LastVersion string `koanf:"last_version"`
	LastHash    string `koanf:"last_hash"`

	// GithubToken authenticates API calls. Falls back to GITHUB_TOKEN.
	GithubToken string `koanf:"github_token"`
	// Repository is "owner/repo". Falls back to GITHUB_REPOSITORY.
	Repository string `koanf:"repository" validate:"omitempty,contains=/"`
	// APIURL is the REST API root. Falls back to GITHUB_API_URL.
	APIURL string `koanf:"api_url" validate:"required,url"`

	// Source selects where commits and tags come from: github or local.
	Source   string `koanf:"source" validate:"oneof=github local"`
	RepoPath string `koanf:"repo_path"`
	// FetchTags fetches tags from remotes before resolving (local source only).
	FetchTags bool `koanf:"fetch_tags"`

	PageSize    int    `koanf:"page_size" validate:"min=1,max=100"`
	TagPageSize int    `koanf:"tag_page_size" validate:"min=1,max=100"`
	TagOrder    string `koanf:"tag_order" validate:"oneof=host semver"`
	MessageMode string `koanf:"message_mode" validate:"oneof=full subject"`

	// OutputFile receives step outputs. Falls back to GITHUB_OUTPUT; empty
	// means outputs are written to stdout.
	OutputFile string `koanf:"output_file"`
	Debug      bool   `koanf:"debug"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path (default: .autobump.yml)
	ProjectConfigPath string
	// WarningWriter receives deprecation warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses deprecation warnings
	SkipWarnings bool
}

// Load loads configuration from the project file and the environment.
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	warningWriter := getWarningWriter(opts.WarningWriter)

	loadDefaults(k)

	if err := loadUserConfig(k); err != nil {
		return nil, err
	}

	if err := loadProjectConfig(k, opts.ProjectConfigPath, warningWriter, opts.SkipWarnings); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	if err := loadActionInputs(k); err != nil {
		return nil, err
	}

	applyRunnerFallbacks(k)

	return finalizeConfig(k)
}

// getWarningWriter returns the warning writer or defaults to stderr
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadUserConfig loads the user-level YAML config if present.
func loadUserConfig(k *koanf.Koanf) error {
	path := UserConfigPath()
	if !fileExists(path) {
		return nil
	}
	if err := loadYAMLConfig(k, path); err != nil {
		return fmt.Errorf("loading user YAML config: %w", err)
	}
	return nil
}

// loadProjectConfig loads the project config (YAML preferred, legacy JSON supported).
// Warns if both exist (YAML used, JSON ignored) or if only legacy JSON exists.
func loadProjectConfig(k *koanf.Koanf, customPath string, warningWriter io.Writer, skipWarnings bool) error {
	projectYAMLPath := ProjectConfigPath()
	if customPath != "" {
		projectYAMLPath = customPath
	}
	legacyProjectPath := LegacyProjectConfigPath()

	projectYAMLExists := fileExists(projectYAMLPath)
	legacyProjectExists := customPath == "" && fileExists(legacyProjectPath)

	if projectYAMLExists {
		if err := loadYAMLConfig(k, projectYAMLPath); err != nil {
			return fmt.Errorf("loading project YAML config: %w", err)
		}
		warnLegacyExists(warningWriter, legacyProjectPath, projectYAMLPath, legacyProjectExists, skipWarnings)
	} else if legacyProjectExists {
		if err := loadLegacyJSONConfig(k, legacyProjectPath, warningWriter, skipWarnings); err != nil {
			return fmt.Errorf("loading legacy project JSON config: %w", err)
		}
	} else if customPath != "" {
		return fmt.Errorf("config file %s not found", customPath)
	}
	return nil
}

// loadYAMLConfig validates and loads a YAML config file
func loadYAMLConfig(k *koanf.Koanf, path string) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax: %w", err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return nil
}

// loadLegacyJSONConfig loads legacy JSON and warns about migration
func loadLegacyJSONConfig(k *koanf.Koanf, path string, warningWriter io.Writer, skipWarnings bool) error {
	if err := k.Load(file.Provider(path), json.Parser()); err != nil {
		return fmt.Errorf("failed to load legacy config %s: %w", path, err)
	}
	if !skipWarnings {
		fmt.Fprintf(warningWriter, "Warning: Using deprecated JSON config at %s\n", path)
		fmt.Fprintf(warningWriter, "  Run 'autobump config migrate' to migrate to YAML format.\n\n")
	}
	return nil
}

// warnLegacyExists warns if legacy JSON exists alongside new YAML
func warnLegacyExists(warningWriter io.Writer, legacyPath, yamlPath string, legacyExists, skipWarnings bool) {
	if legacyExists && !skipWarnings {
		fmt.Fprintf(warningWriter, "Warning: Legacy JSON config found at %s (ignored, using %s)\n", legacyPath, yamlPath)
		fmt.Fprintf(warningWriter, "  Run 'autobump config migrate' to remove the legacy file.\n\n")
	}
}

// loadEnvironmentConfig loads AUTOBUMP_* environment variable overrides.
// Empty variables are ignored.
func loadEnvironmentConfig(k *koanf.Koanf) error {
	provider := env.ProviderWithValue("AUTOBUMP_", ".", func(key, value string) (string, any) {
		if value == "" {
			return "", nil
		}
		return envTransform(key), value
	})
	if err := k.Load(provider, nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// actionInputs maps the action's declared inputs to config keys.
var actionInputs = map[string]string{
	"last-version": "last_version",
	"last-hash":    "last_hash",
	"github-token": "github_token",
}

// loadActionInputs loads the step inputs GitHub exposes as INPUT_<NAME>
// with the name upper-cased and hyphens kept. Unset inputs arrive as empty
// strings and are skipped so they don't mask lower layers.
func loadActionInputs(k *koanf.Koanf) error {
	provider := env.ProviderWithValue("INPUT_", ".", func(key, value string) (string, any) {
		name := strings.ToLower(strings.TrimPrefix(key, "INPUT_"))
		name = strings.ReplaceAll(name, " ", "_")
		configKey, ok := actionInputs[name]
		if !ok || strings.TrimSpace(value) == "" {
			return "", nil
		}
		return configKey, strings.TrimSpace(value)
	})
	if err := k.Load(provider, nil); err != nil {
		return fmt.Errorf("failed to load action inputs: %w", err)
	}
	return nil
}

// runnerFallbacks are GitHub Actions runner variables consulted when the
// matching key is still at its zero value.
var runnerFallbacks = []struct {
	key string
	env string
}{
	{"github_token", "GITHUB_TOKEN"},
	{"repository", "GITHUB_REPOSITORY"},
	{"output_file", "GITHUB_OUTPUT"},
}

// applyRunnerFallbacks fills unset keys from the runner environment.
func applyRunnerFallbacks(k *koanf.Koanf) {
	for _, fb := range runnerFallbacks {
		if k.String(fb.key) != "" {
			continue
		}
		if v := os.Getenv(fb.env); v != "" {
			k.Set(fb.key, v)
		}
	}

	// api_url always has a default, so the runner value only replaces it
	// when nothing more specific was configured.
	if v := os.Getenv("GITHUB_API_URL"); v != "" && k.String("api_url") == GetDefaults()["api_url"] {
		k.Set("api_url", v)
	}

	if os.Getenv("RUNNER_DEBUG") == "1" {
		k.Set("debug", true)
	}
}

// finalizeConfig unmarshals and validates the merged values
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate re-checks the configuration after callers have applied flag
// overrides.
func (c *Configuration) Validate() error {
	return ValidateConfigValues(c, "flags")
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys
// Example: AUTOBUMP_PAGE_SIZE -> page_size
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, "AUTOBUMP_"))
}
