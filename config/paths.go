// Package config locates and loads graphina's on-disk configuration: the
// YAML panel registry and the optional TOML settings file.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	AppName       = "graphina"
	PanelsFile    = "panels.yml"
	SettingsFile  = "graphina.toml"
	LogFile       = "graphina.log"
	EnvPanelsPath = "GRAPHINA_PANELS_PATH"
)

// home returns the user's home directory, or the temp dir when unavailable
func home() string {
	h, err := os.UserHomeDir()
	if err != nil || h == "" {
		return os.TempDir()
	}
	return h
}

// ExpandHome replaces a leading ~ with the home directory
func ExpandHome(p string) string {
	if p == "~" {
		return home()
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(home(), p[2:])
	}
	return p
}

// ConfigHome is $XDG_CONFIG_HOME or ~/.config
func ConfigHome() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return ExpandHome(xdg)
	}
	return filepath.Join(home(), ".config")
}

// Dir is the graphina directory under ConfigHome
func Dir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// PanelsPath is the registry file, overridable with GRAPHINA_PANELS_PATH
func PanelsPath() string {
	if env := os.Getenv(EnvPanelsPath); env != "" {
		return ExpandHome(env)
	}
	return filepath.Join(Dir(), PanelsFile)
}

// SettingsPath is the optional settings file
func SettingsPath() string {
	return filepath.Join(Dir(), SettingsFile)
}

// StateDir is $XDG_STATE_HOME/graphina or ~/.local/state/graphina
func StateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(ExpandHome(xdg), AppName)
	}
	return filepath.Join(home(), ".local", "state", AppName)
}

// DefaultLogPath is where debug logs go when no log_file is set
func DefaultLogPath() string {
	return filepath.Join(StateDir(), LogFile)
}
