package config

// GetDefaultConfigTemplate returns the commented project config written by
// 'autobump config init'.
func GetDefaultConfigTemplate() string {
	return `# Autobump Configuration
# Values here are overridden by AUTOBUMP_* environment variables,
# GitHub Action inputs and command-line flags.

# Reference point. Leave both empty to resolve from the latest version tag.
last_version: ""
last_hash: ""

# Where commits and tags come from: github or local
source: github
# repository: owner/repo              # Defaults to $GITHUB_REPOSITORY
# api_url: https://api.github.com     # Defaults to $GITHUB_API_URL
# repo_path: "."                      # Working copy used when source is local
fetch_tags: false                     # Fetch remote tags before resolving (local source)

page_size: 100                        # Commits per API page (1-100)
tag_page_size: 100                    # Tags per API page (1-100)
tag_order: host                       # host: first match in listing order; semver: highest version
message_mode: full                    # full: whole message; subject: first line only

# output_file: ""                     # Defaults to $GITHUB_OUTPUT, stdout when unset
debug: false
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"last_version":  "",
		"last_hash":     "",
		"github_token":  "",
		"repository":    "",
		"api_url":       "https://api.github.com",
		"source":        SourceGitHub,
		"repo_path":     "",
		"fetch_tags":    false,
		"page_size":     100, // Largest page the GitHub API serves
		"tag_page_size": 100,
		"tag_order":     "host",
		"message_mode":  "full",
		"output_file":   "",
		"debug":         false,
	}
}
