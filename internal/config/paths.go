package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// UserConfigPath returns the path to the user-level config file, following
// the XDG Base Directory Specification:
// - Linux: ~/.config/autobump/config.yml
// - macOS: ~/Library/Application Support/autobump/config.yml
// - Windows: %LOCALAPPDATA%\autobump\config.yml
func UserConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "autobump", "config.yml")
}

// ProjectConfigPath returns the path to the project-level config file,
// relative to the current directory.
func ProjectConfigPath() string {
	return ".autobump.yml"
}

// LegacyProjectConfigPath returns the path to the legacy JSON config file.
func LegacyProjectConfigPath() string {
	return ".autobump.json"
}
