// Package config loads tierguard's runtime settings from flags, TIERGUARD_*
// environment variables and an optional config file, in that precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g.
// TIERGUARD_OUTPUT_FORMAT for output.format.
const EnvPrefix = "TIERGUARD"

// Config is the runtime configuration of one invocation. The posture itself
// (tiers, expectations) lives in a separate file referenced by Posture.
type Config struct {
	// Profile is the AWS profile name. Empty means the default chain.
	Profile string `mapstructure:"profile"`

	// Posture is the path of the posture YAML file. Empty means the
	// built-in reference posture.
	Posture string `mapstructure:"posture"`

	Output OutputConfig `mapstructure:"output"`
	Log    LogConfig    `mapstructure:"log"`
	Doctor DoctorConfig `mapstructure:"doctor"`
}

// OutputConfig controls report persistence and console rendering.
type OutputConfig struct {
	Path    string `mapstructure:"path"`
	Format  string `mapstructure:"format"`
	NoColor bool   `mapstructure:"no_color"`
	Verbose bool   `mapstructure:"verbose"`
}

// LogConfig controls the zerolog logger on stderr.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DoctorConfig controls how the doctor command presents its result.
type DoctorConfig struct {
	// Format is "table" or "json".
	Format string `mapstructure:"format"`
}

// NewViper returns a viper instance with defaults and environment binding
// set up. Callers bind their flags to it before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("profile", "")
	v.SetDefault("posture", "")
	v.SetDefault("output.path", "security-verification-report.json")
	v.SetDefault("output.format", "json")
	v.SetDefault("output.no_color", false)
	v.SetDefault("output.verbose", false)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("doctor.format", "table")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// DefaultConfigDir returns ~/.config/tierguard.
func DefaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "tierguard"), nil
}

// Load reads the config file and unmarshals the merged settings.
//
// When file is empty, config.{yaml,json,toml} is searched for in
// DefaultConfigDir and its absence is not an error. An explicit file must
// exist.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		dir, err := DefaultConfigDir()
		if err == nil {
			v.AddConfigPath(dir)
		}
		v.SetConfigName("config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be validated by type alone.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Output.Format) {
	case "json", "yaml", "yml":
	default:
		return fmt.Errorf("output.format: unsupported value %q (want json or yaml)", c.Output.Format)
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("log.format: unsupported value %q (want console or json)", c.Log.Format)
	}
	switch strings.ToLower(c.Doctor.Format) {
	case "table", "json":
	default:
		return fmt.Errorf("doctor.format: unsupported value %q (want table or json)", c.Doctor.Format)
	}
	if strings.TrimSpace(c.Output.Path) == "" {
		return errors.New("output.path: must not be empty")
	}
	return nil
}
