// Package paths resolves the aiki configuration and data directories.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user platform directories.
const AppName = "aiki"

// CWD-relative directory names used when nothing else is set.
const (
	DefaultConfigDirName = ".aiki"
	DefaultDataDirName   = ".aiki-data"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "AIKI_CONFIG_DIR"
	EnvDataDir   = "AIKI_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
	getwd         func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
	getwd:         os.Getwd,
}

// DefaultConfigDir returns the per-user configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/aiki (fallback ~/.config/aiki)
// macOS:   ~/Library/Application Support/aiki
// Windows: %APPDATA%/aiki
func DefaultConfigDir() (string, error) {
	return platformDefault("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the per-user data directory.
//
// Linux:   $XDG_DATA_HOME/aiki (fallback ~/.local/share/aiki)
// macOS and Windows: same as DefaultConfigDir.
func DefaultDataDir() (string, error) {
	return platformDefault("XDG_DATA_HOME", ".local", "share")
}

func platformDefault(xdgEnv string, homeRel ...string) (string, error) {
	if runtime.GOOS != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	}
	if xdg := os.Getenv(xdgEnv); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append(append([]string{home}, homeRel...), AppName)...), nil
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > AIKI_CONFIG_DIR > $(CWD)/.aiki.
func ResolveConfigDir(flag string) (string, error) {
	return resolve(inWorkingDir(DefaultConfigDirName), flag, os.Getenv(EnvConfigDir))
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > configValue (data_dir in config.yaml) > AIKI_DATA_DIR >
// $(CWD)/.aiki-data.
func ResolveDataDir(flag, configValue string) (string, error) {
	return resolve(inWorkingDir(DefaultDataDirName), flag, configValue, os.Getenv(EnvDataDir))
}

// ResolveGlobalConfigDir is ResolveConfigDir with DefaultConfigDir in place
// of the working-directory fallback.
func ResolveGlobalConfigDir(flag string) (string, error) {
	return resolve(DefaultConfigDir, flag, os.Getenv(EnvConfigDir))
}

// ResolveGlobalDataDir is ResolveDataDir with DefaultDataDir in place of the
// working-directory fallback.
func ResolveGlobalDataDir(flag, configValue string) (string, error) {
	return resolve(DefaultDataDir, flag, configValue, os.Getenv(EnvDataDir))
}

func inWorkingDir(name string) func() (string, error) {
	return func() (string, error) {
		cwd, err := platformDir.getwd()
		if err != nil {
			return "", err
		}
		return filepath.Join(cwd, name), nil
	}
}

// resolve returns the first non-empty candidate as an absolute path, or the
// fallback directory.
func resolve(fallback func() (string, error), candidates ...string) (string, error) {
	for _, c := range candidates {
		if c != "" {
			return filepath.Abs(c)
		}
	}
	return fallback()
}
