// ABOUTME: Admin profile loading for inkwell-admin
// ABOUTME: Loads TOML profile from XDG path with environment variable expansion

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

// Profile points the admin CLI at an inkwell installation. It operates on
// the database directly, so the server does not need to be running.
type Profile struct {
	Database DatabaseProfile `toml:"database"`
	Auth     AuthProfile     `toml:"auth"`
}

type DatabaseProfile struct {
	Path string `toml:"path"`
}

type AuthProfile struct {
	// JWTSecret is only needed for "token create".
	JWTSecret string `toml:"jwt_secret"`
}

// getProfilePath returns the path to the admin profile.
// Priority: INKWELL_ADMIN_CONFIG env var > XDG_CONFIG_HOME/inkwell/admin.toml > ~/.config/inkwell/admin.toml
func getProfilePath() string {
	if envPath := os.Getenv("INKWELL_ADMIN_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "admin.toml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "inkwell", "admin.toml")
}

// loadProfile reads the profile from the given path, expanding environment
// variables.
func loadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}

	// Expand environment variables (${VAR} syntax)
	expanded := expandEnvVars(string(data))

	var p Profile
	if _, err := toml.Decode(expanded, &p); err != nil {
		return nil, fmt.Errorf("parsing profile: %w", err)
	}

	if p.Database.Path == "" {
		return nil, fmt.Errorf("database.path is required in %s", path)
	}

	return &p, nil
}

// expandEnvVars replaces ${VAR} with environment variable values.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		return os.Getenv(varName)
	})
}
