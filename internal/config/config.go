// Package config resolves application settings from defaults, an optional
// YAML file and ASSETREG_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/gurisko/assetreg/internal/paths"
	"github.com/spf13/viper"
)

// Config holds all settings for the assetreg binary
type Config struct {
	Socket   string    `mapstructure:"socket"`
	PIDFile  string    `mapstructure:"pid_file"`
	Manifest string    `mapstructure:"manifest"` // Asset manifest the daemon starts from
	Log      LogConfig `mapstructure:"log"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // text, json
}

// New returns a viper instance carrying defaults and environment bindings.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("socket", paths.DefaultSocketPath())
	v.SetDefault("pid_file", paths.DefaultPIDPath())
	v.SetDefault("manifest", paths.DefaultManifestPath())
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetEnvPrefix("ASSETREG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads settings into a Config. An explicit file must exist; without
// one the default config path is tried and silently skipped when absent.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", file, err)
		}
	} else {
		v.SetConfigFile(paths.DefaultConfigPath())
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func isNotFound(err error) bool {
	var nf viper.ConfigFileNotFoundError
	if errors.As(err, &nf) {
		return true
	}
	// SetConfigFile surfaces a plain fs error instead of ConfigFileNotFoundError
	return errors.Is(err, fs.ErrNotExist)
}
