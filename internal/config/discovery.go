package config

import (
	"os"
	"path/filepath"
)

// DefaultConfigFileName is the project-local config file name.
const DefaultConfigFileName = ".cpscan.yaml"

// SearchPaths returns the config locations tried when no --config is given:
// the working directory, then $XDG_CONFIG_HOME/cpscan (or ~/.config/cpscan).
func SearchPaths() []string {
	paths := []string{DefaultConfigFileName}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		if home, err := os.UserHomeDir(); err == nil {
			configHome = filepath.Join(home, ".config")
		}
	}
	if configHome != "" {
		paths = append(paths, filepath.Join(configHome, "cpscan", "config.yaml"))
	}
	return paths
}

// FindConfigFile returns the first existing path from SearchPaths, or "".
func FindConfigFile() string {
	for _, path := range SearchPaths() {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// Resolve loads the named profile from configPath, or from the first file in
// SearchPaths when configPath is empty, falling back to DefaultConfig. CPSCAN_*
// environment variables are applied last.
func Resolve(configPath, profileName string) (Profile, string, error) {
	if configPath == "" {
		configPath = FindConfigFile()
	}

	cfg := DefaultConfig()
	if configPath != "" {
		loaded := LoadConfig(configPath)
		if loaded.IsErr() {
			return Profile{}, configPath, loaded.Error()
		}
		cfg = loaded.Unwrap()
	}

	profile := GetProfile(cfg, profileName)
	if profile.IsErr() {
		return Profile{}, configPath, profile.Error()
	}
	return ApplyEnv(profile.Unwrap()), configPath, nil
}
