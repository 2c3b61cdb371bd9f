package file

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// AppName names the application's configuration and data directories.
const AppName = "sercha-gh"

// DefaultConfigPath returns the default configuration file location.
// On Linux: ~/.config/sercha-gh/config.toml
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.toml")
}

// DefaultDataDir returns the default directory for the document index and
// scheduler history.
// On Linux: ~/.local/share/sercha-gh
func DefaultDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}
