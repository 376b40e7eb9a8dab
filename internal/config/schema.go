package config

import "sort"

// ConfigValueType defines the expected type for a configuration value.
type ConfigValueType int

const (
	TypeBool ConfigValueType = iota
	TypeInt
	TypeString
	TypeEnum
)

// String returns the string representation of ConfigValueType.
func (t ConfigValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeString:
		return "string"
	case TypeEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// ConfigKeySchema describes a known configuration key.
type ConfigKeySchema struct {
	Path          string          // Key name (e.g., "page_size")
	Type          ConfigValueType // Expected value type
	AllowedValues []string        // Valid values for enum types (empty for non-enums)
	Description   string          // Human-readable description for help text
	Input         string          // Action input name, if the key is an input
	Secret        bool            // Masked when displayed
}

// KnownKeys is the registry of all known configuration keys.
var KnownKeys = map[string]ConfigKeySchema{
	"last_version": {
		Path:        "last_version",
		Type:        TypeString,
		Description: "Version of the previous release (used together with last_hash)",
		Input:       "last-version",
	},
	"last_hash": {
		Path:        "last_hash",
		Type:        TypeString,
		Description: "Commit hash of the previous release (used together with last_version)",
		Input:       "last-hash",
	},
	"github_token": {
		Path:        "github_token",
		Type:        TypeString,
		Description: "Token for the GitHub API (falls back to GITHUB_TOKEN)",
		Input:       "github-token",
		Secret:      true,
	},
	"repository": {
		Path:        "repository",
		Type:        TypeString,
		Description: "Repository as owner/repo (falls back to GITHUB_REPOSITORY)",
	},
	"api_url": {
		Path:        "api_url",
		Type:        TypeString,
		Description: "GitHub REST API root (falls back to GITHUB_API_URL)",
	},
	"source": {
		Path:          "source",
		Type:          TypeEnum,
		AllowedValues: []string{SourceGitHub, SourceLocal},
		Description:   "Where commits and tags are read from",
	},
	"repo_path": {
		Path:        "repo_path",
		Type:        TypeString,
		Description: "Working copy read by the local source (default: current directory)",
	},
	"fetch_tags": {
		Path:        "fetch_tags",
		Type:        TypeBool,
		Description: "Fetch tags from remotes before resolving (local source)",
	},
	"page_size": {
		Path:        "page_size",
		Type:        TypeInt,
		Description: "Commits requested per page (1-100)",
	},
	"tag_page_size": {
		Path:        "tag_page_size",
		Type:        TypeInt,
		Description: "Tags requested per page (1-100)",
	},
	"tag_order": {
		Path:          "tag_order",
		Type:          TypeEnum,
		AllowedValues: []string{"host", "semver"},
		Description:   "Which version tag wins: first listed or highest version",
	},
	"message_mode": {
		Path:          "message_mode",
		Type:          TypeEnum,
		AllowedValues: []string{"full", "subject"},
		Description:   "Classify the whole commit message or only its first line",
	},
	"output_file": {
		Path:        "output_file",
		Type:        TypeString,
		Description: "File receiving step outputs (falls back to GITHUB_OUTPUT)",
	},
	"debug": {
		Path:        "debug",
		Type:        TypeBool,
		Description: "Enable debug logging (also enabled by RUNNER_DEBUG=1)",
	},
}

// ErrUnknownKey is returned when trying to access an unknown configuration key.
type ErrUnknownKey struct {
	Key string
}

func (e ErrUnknownKey) Error() string {
	return "unknown configuration key: " + e.Key
}

// GetKeySchema returns the schema for a known configuration key.
// Returns ErrUnknownKey if the key is not in the registry.
func GetKeySchema(path string) (ConfigKeySchema, error) {
	schema, ok := KnownKeys[path]
	if !ok {
		return ConfigKeySchema{}, ErrUnknownKey{Key: path}
	}
	return schema, nil
}

// SortedKeys returns the registry keys in alphabetical order.
func SortedKeys() []string {
	keys := make([]string, 0, len(KnownKeys))
	for k := range KnownKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Values returns the configuration as a key/value map using config key
// names. Secrets are masked unless reveal is set.
func (c *Configuration) Values(reveal bool) map[string]any {
	values := map[string]any{
		"last_version":  c.LastVersion,
		"last_hash":     c.LastHash,
		"github_token":  c.GithubToken,
		"repository":    c.Repository,
		"api_url":       c.APIURL,
		"source":        c.Source,
		"repo_path":     c.RepoPath,
		"fetch_tags":    c.FetchTags,
		"page_size":     c.PageSize,
		"tag_page_size": c.TagPageSize,
		"tag_order":     c.TagOrder,
		"message_mode":  c.MessageMode,
		"output_file":   c.OutputFile,
		"debug":         c.Debug,
	}
	if !reveal {
		for key, schema := range KnownKeys {
			if s, ok := values[key].(string); schema.Secret && ok && s != "" {
				values[key] = maskSecret(s)
			}
		}
	}
	return values
}

// maskSecret keeps the last four characters of long secrets.
func maskSecret(s string) string {
	if len(s) <= 8 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}
