package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/aiki/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envPrefix      = "AIKI"

	cfgKeyBackend          = "backend"
	cfgKeyDataDir          = "data_dir"
	cfgKeyFeatureCachePath = "feature_cache_path"
	cfgKeyErrorCachePath   = "error_cache_path"
	cfgKeyContainerPath    = "container_path"
	cfgKeyLogLevel         = "log_level"
	cfgKeyLogFormat        = "log_format"

	defaultBackend   = types.BackendYAML
	defaultLogLevel  = "info"
	defaultLogFormat = "text"
)

// envKeys are overridable by AIKI_<KEY>. data_dir is left to
// paths.ResolveDataDir, which ranks the environment below config.yaml.
var envKeys = []string{
	cfgKeyBackend,
	cfgKeyFeatureCachePath,
	cfgKeyErrorCachePath,
	cfgKeyContainerPath,
	cfgKeyLogLevel,
	cfgKeyLogFormat,
}

// flagKeys maps config keys to the global flags that override them.
var flagKeys = map[string]string{
	cfgKeyBackend:   "backend",
	cfgKeyLogLevel:  "log-level",
	cfgKeyLogFormat: "log-format",
}

// settings is the decoded content of config.yaml after environment and flag
// overrides.
type settings struct {
	Backend          string `mapstructure:"backend"`
	DataDir          string `mapstructure:"data_dir"`
	FeatureCachePath string `mapstructure:"feature_cache_path"`
	ErrorCachePath   string `mapstructure:"error_cache_path"`
	ContainerPath    string `mapstructure:"container_path"`
	LogLevel         string `mapstructure:"log_level"`
	LogFormat        string `mapstructure:"log_format"`
}

// configFile is the body written to config.yaml on first run.
type configFile struct {
	Backend   string `yaml:"backend"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

const configHeader = `# aiki configuration
#
# Optional keys: data_dir, feature_cache_path, error_cache_path and
# container_path. AIKI_<KEY> environment variables override this file.
`

// loadConfig reads config.yaml from configDir using Viper, writing a default
// file first if none exists. Flags in fs take precedence over the
// environment, which takes precedence over the file.
func loadConfig(configDir string, fs *pflag.FlagSet) (settings, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return settings{}, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return settings{}, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeyLogFormat, defaultLogFormat)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(envPrefix)
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return settings{}, fmt.Errorf("bind env %s: %w", key, err)
		}
	}
	for key, name := range flagKeys {
		if f := fs.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return settings{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return settings{}, fmt.Errorf("%w: read config: %v", types.ErrConfiguration, err)
		}
	}

	var s settings
	if err := v.Unmarshal(&s); err != nil {
		return settings{}, fmt.Errorf("%w: decode config: %v", types.ErrConfiguration, err)
	}
	return s, nil
}

// ensureDefaultConfigFile creates config.yaml with default values if the
// file does not exist in configDir.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	body, err := yaml.Marshal(&configFile{
		Backend:   defaultBackend,
		LogLevel:  defaultLogLevel,
		LogFormat: defaultLogFormat,
	})
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, append([]byte(configHeader), body...), 0o644)
}
