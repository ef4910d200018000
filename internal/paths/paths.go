// Package paths resolves the configuration and data directory locations.
package paths

import (
	"os"
	"path/filepath"
)

// CWD-relative default directory names.
const (
	DefaultConfigDirName = ".folio"
	DefaultDataDirName   = ".folio-db"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "FOLIO_CONFIG_DIR"
	EnvDataDir   = "FOLIO_DATA_DIR"
)

// getwd is replaced in tests.
var getwd = os.Getwd

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > FOLIO_CONFIG_DIR env > $(CWD)/.folio.
// The result is absolute.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return underCWD(DefaultConfigDirName)
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > configValue (data_dir in config.yaml) > FOLIO_DATA_DIR env >
// $(CWD)/.folio-db. The result is absolute.
func ResolveDataDir(flag, configValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	return underCWD(DefaultDataDirName)
}

func underCWD(name string) (string, error) {
	cwd, err := getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, name), nil
}
