package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ConfigFileName is the name of the configuration file in the current
// directory or the user's home directory.
const ConfigFileName = ".sitemirror.yaml"

// XDGConfigFileName is the name of the configuration file under the XDG
// config directory.
const XDGConfigFileName = "config.yaml"

// Load reads the configuration from a YAML file and SITEMIRROR_* environment
// variables on top of the defaults returned by NewConfig.
//
// When path is empty the file is searched for (see FindConfigFile) and a
// missing file is not an error. When path is set and does not exist,
// ErrConfigNotFound is returned.
//
// Precedence, lowest first: defaults, file, environment. Command-line flags
// are applied by the caller afterwards.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, NewConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	file, err := FindConfigFile(path)
	if err != nil {
		return nil, err
	}

	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	cfg := NewConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.ConfigFilePath = file

	return cfg, nil
}

// FindConfigFile returns the configuration file to load.
// An explicit path wins. Otherwise the search order is:
//  1. ./.sitemirror.yaml
//  2. $XDG_CONFIG_HOME/sitemirror/config.yaml
//  3. ~/.sitemirror.yaml
//
// It returns "" when no file is found.
func FindConfigFile(path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", fmt.Errorf("%w: %s", ErrConfigNotFound, path)
			}
			return "", fmt.Errorf("failed to stat config file %s: %w", path, err)
		}
		return path, nil
	}

	candidates := []string{
		ConfigFileName,
		filepath.Join(XDGConfigDir(), XDGConfigFileName),
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ConfigFileName))
	}

	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, nil
		}
	}

	return "", nil
}

// setDefaults registers every key with viper so that AutomaticEnv can
// resolve it during Unmarshal. Keys without a default are never looked up
// in the environment.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("start_url", d.StartURL)
	v.SetDefault("prefix", d.Prefix)
	v.SetDefault("boundary_match", d.BoundaryMatch)
	v.SetDefault("ignore_patterns", d.IgnorePatterns)
	v.SetDefault("variant", d.Variant)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("max_pages", d.MaxPages)
	v.SetDefault("max_depth", d.MaxDepth)
	v.SetDefault("user_agent", d.UserAgent)
	v.SetDefault("max_body_size", d.MaxBodySize)
	v.SetDefault("socks_proxy", d.SOCKSProxy)
	v.SetDefault("verbose", d.Verbose)
	v.SetDefault("log_format", d.LogFormat)
}
