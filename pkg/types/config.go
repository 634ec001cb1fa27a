package types

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Config holds backend selection and file locations for the repositories.
type Config struct {
	Backend          string `json:"backend" yaml:"backend" mapstructure:"backend"`
	DataDir          string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
	FeatureCachePath string `json:"feature_cache_path" yaml:"feature_cache_path" mapstructure:"feature_cache_path"`
	ErrorCachePath   string `json:"error_cache_path" yaml:"error_cache_path" mapstructure:"error_cache_path"`
}

// Supported backend flags. BackendYML is an alias of BackendYAML.
const (
	BackendYAML   = "yaml"
	BackendYML    = "yml"
	BackendSQLite = "sqlite"
)

// Default file names inside DataDir.
const (
	DefaultFeatureCacheFile = "features.yml"
	DefaultErrorCacheFile   = "errors.yml"
	DefaultDatabaseFile     = "aiki.db"
)

// Config validation errors. Both wrap ErrConfiguration.
var (
	ErrBackendEmpty   = fmt.Errorf("%w: backend must not be empty", ErrConfiguration)
	ErrBackendUnknown = fmt.Errorf("%w: unknown backend", ErrConfiguration)
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendYAML:   true,
	BackendYML:    true,
	BackendSQLite: true,
}

// NormalizeBackend lowercases flag and folds BackendYML into BackendYAML.
// Returns ErrBackendEmpty or ErrBackendUnknown for unusable flags.
func NormalizeBackend(flag string) (string, error) {
	b := strings.ToLower(strings.TrimSpace(flag))
	if b == "" {
		return "", ErrBackendEmpty
	}
	if !knownBackends[b] {
		return "", fmt.Errorf("%w %q", ErrBackendUnknown, flag)
	}
	if b == BackendYML {
		return BackendYAML, nil
	}
	return b, nil
}

// Validate checks that the Config is well-formed.
func (c Config) Validate() error {
	_, err := NormalizeBackend(c.Backend)
	return err
}

// WithDefaults fills empty cache paths from DataDir.
func (c Config) WithDefaults() Config {
	if c.FeatureCachePath == "" {
		c.FeatureCachePath = filepath.Join(c.DataDir, DefaultFeatureCacheFile)
	}
	if c.ErrorCachePath == "" {
		c.ErrorCachePath = filepath.Join(c.DataDir, DefaultErrorCacheFile)
	}
	return c
}

// DatabasePath returns the SQLite database location inside DataDir.
func (c Config) DatabasePath() string {
	return filepath.Join(c.DataDir, DefaultDatabaseFile)
}
