// Package config loads the converter settings. Sources, lowest precedence
// first: built-in defaults, an esqml.yaml file, ESQML_* environment
// variables (a .env file may provide them) and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/waozixyz/esqml/internal/logger"
)

// EnvPrefix prefixes every environment variable read by the converter.
const EnvPrefix = "ESQML"

// FileName is the config file name searched for, without extension.
const FileName = "esqml"

// Keys.
const (
	KeyLogLevel         = "log-level"
	KeyLogFile          = "log-file"
	KeyThemeFile        = "theme-file"
	KeyMaxFormatVersion = "max-format-version"
	KeyMaxIncludeDepth  = "max-include-depth"
	KeyResourcesDir     = "resources-dir"
	KeyFontWindowHeight = "font-window-height"
	KeyFontSizeMedium   = "font-size-medium"
	KeyGeneratorVersion = "generator-version"
)

// Config holds the resolved settings.
type Config struct {
	LogLevel         string  `mapstructure:"log-level"`
	LogFile          string  `mapstructure:"log-file"`
	ThemeFile        string  `mapstructure:"theme-file"`
	MaxFormatVersion int     `mapstructure:"max-format-version"`
	MaxIncludeDepth  int     `mapstructure:"max-include-depth"`
	ResourcesDir     string  `mapstructure:"resources-dir"`
	FontWindowHeight int     `mapstructure:"font-window-height"`
	FontSizeMedium   float64 `mapstructure:"font-size-medium"`
	GeneratorVersion string  `mapstructure:"generator-version"`
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyThemeFile, "theme.xml")
	v.SetDefault(KeyMaxFormatVersion, 6)
	v.SetDefault(KeyMaxIncludeDepth, 16)
	v.SetDefault(KeyResourcesDir, "")
	v.SetDefault(KeyFontWindowHeight, 720)
	v.SetDefault(KeyFontSizeMedium, 0.045)
	v.SetDefault(KeyGeneratorVersion, "0.1.0")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	return v
}

// BindFlags binds the flags named by keys to v. A flag only overrides the
// other sources when it is set on the command line.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet, keys ...string) error {
	for _, key := range keys {
		flag := flags.Lookup(key)
		if flag == nil {
			return fmt.Errorf("no flag for %s", key)
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind %s flag: %w", key, err)
		}
	}
	return nil
}

// LoadDotEnv loads variables from a .env file into the process
// environment. Variables already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Load reads the optional config file from the first of dirs that has one
// and returns the validated settings.
func Load(v *viper.Viper, dirs ...string) (*Config, error) {
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}
	if len(dirs) > 0 {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%s: %w", KeyLogLevel, err)
	}
	if c.ThemeFile == "" {
		return fmt.Errorf("%s must not be empty", KeyThemeFile)
	}
	if c.MaxFormatVersion < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", KeyMaxFormatVersion, c.MaxFormatVersion)
	}
	if c.MaxIncludeDepth < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", KeyMaxIncludeDepth, c.MaxIncludeDepth)
	}
	if c.FontWindowHeight < 1 {
		return fmt.Errorf("%s must be positive, got %d", KeyFontWindowHeight, c.FontWindowHeight)
	}
	if c.FontSizeMedium <= 0 || c.FontSizeMedium > 1 {
		return fmt.Errorf("%s must be in (0, 1], got %g", KeyFontSizeMedium, c.FontSizeMedium)
	}
	if _, err := semver.NewVersion(c.GeneratorVersion); err != nil {
		return fmt.Errorf("%s: invalid version %q: %w", KeyGeneratorVersion, c.GeneratorVersion, err)
	}
	return nil
}
