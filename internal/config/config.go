// Package config loads and saves dermterm settings from
// ~/.dermterm/config.toml, with environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	configDir  = ".dermterm"
	configFile = "config.toml"

	fileMode = 0o600
	dirMode  = 0o700

	serverURLKey = "server_url"
	themeKey     = "theme"

	// DefaultServerURL targets a locally running Dermalyze service.
	DefaultServerURL = "http://localhost:5000"
)

// Config holds the user-tunable settings.
type Config struct {
	ServerURL string `toml:"server_url"`
	Theme     string `toml:"theme"` // "light" or "dark"

	path string
}

// Load reads the config file if one exists and applies env overrides
// (DERMTERM_SERVER_URL, DERMTERM_THEME). A missing file is not an error.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	return LoadFrom(filepath.Join(home, configDir))
}

// LoadFrom reads config from a specific directory.
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(dir)
	v.SetDefault(serverURLKey, DefaultServerURL)
	v.SetDefault(themeKey, "light")
	v.BindEnv(serverURLKey, "DERMTERM_SERVER_URL") //nolint:errcheck // key is non-empty
	v.BindEnv(themeKey, "DERMTERM_THEME")          //nolint:errcheck // key is non-empty

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{
		ServerURL: v.GetString(serverURLKey),
		Theme:     v.GetString(themeKey),
		path:      filepath.Join(dir, configFile),
	}
	if cfg.Theme != "light" && cfg.Theme != "dark" {
		cfg.Theme = "light"
	}
	if cfg.ServerURL == "" {
		cfg.ServerURL = DefaultServerURL
	}
	return cfg, nil
}

// Save writes the config atomically: marshal to a temp file in the target
// directory, then rename over the destination.
func (c *Config) Save() error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.toml.tmp")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // no-op after successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := tmp.Chmod(fileMode); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("chmod temp config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp config: %w", err)
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}

// Path returns the config file location this Config was loaded from.
func (c *Config) Path() string {
	return c.path
}
