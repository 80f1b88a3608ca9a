// Package config loads eggshell settings from defaults, an optional YAML file,
// .env files, EGGSHELL_* environment variables and command line flags.
//
// Priority, highest first: flags bound with BindFlags, environment (including
// variables loaded from .env files), the config file, defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"eggshell/internal/help"
)

// EnvPrefix is the prefix of environment variables read by eggshell.
const EnvPrefix = "EGGSHELL"

// Config holds the decoded settings.
type Config struct {
	Prompt      string `mapstructure:"prompt"`
	Intro       string `mapstructure:"intro"`
	ConfirmExit bool   `mapstructure:"confirm_exit"`
	Suggest     bool   `mapstructure:"suggest"`
	LogLevel    string `mapstructure:"log_level"`
	LogFile     string `mapstructure:"log_file"`
	HelpFormat  string `mapstructure:"help_format"`
	Color       string `mapstructure:"color"`
	LineEditor  string `mapstructure:"line_editor"`
	HistoryFile string `mapstructure:"history_file"`
	TestMode    bool   `mapstructure:"test_mode"`
}

// Sources records where settings were loaded from.
type Sources struct {
	ConfigDir  string
	ConfigFile string
	EnvFiles   []string
}

// Options controls Load.
type Options struct {
	// ConfigFile is an explicit config file. It must exist.
	ConfigFile string
	// ConfigDir overrides the user config directory.
	ConfigDir string
	// WorkDir overrides the working directory searched for eggshell.yaml and .env.
	WorkDir string
	// SkipDotEnv disables .env loading.
	SkipDotEnv bool
}

var defaults = map[string]any{
	"prompt":       "~> ",
	"intro":        "",
	"confirm_exit": true,
	"suggest":      true,
	"log_level":    "",
	"log_file":     "",
	"help_format":  string(help.FormatMan),
	"color":        "auto",
	"line_editor":  "ishell",
	"history_file": "",
	"test_mode":    false,
}

// New returns a viper instance with eggshell defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags binds flags to config keys. Flag names use dashes, keys use underscores.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet, names ...string) error {
	for _, name := range names {
		f := flags.Lookup(name)
		if f == nil {
			return fmt.Errorf("flag %s not defined", name)
		}
		if err := v.BindPFlag(strings.ReplaceAll(name, "-", "_"), f); err != nil {
			return fmt.Errorf("error binding %s flag: %w", name, err)
		}
	}
	return nil
}

// Load reads .env files and the config file into v and decodes the result.
func Load(v *viper.Viper, opts Options) (*Config, *Sources, error) {
	src := &Sources{}

	workDir := opts.WorkDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		workDir = wd
	}
	configDir := opts.ConfigDir
	if configDir == "" {
		if dir, err := UserConfigDir(); err == nil {
			configDir = dir
		}
	}
	src.ConfigDir = configDir

	if !opts.SkipDotEnv {
		loaded, err := LoadDotEnv(filepath.Join(workDir, ".env"), filepath.Join(configDir, ".env"))
		if err != nil {
			return nil, nil, err
		}
		src.EnvFiles = loaded
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("eggshell")
		v.SetConfigType("yaml")
		v.AddConfigPath(workDir)
		if configDir != "" {
			v.AddConfigPath(configDir)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		src.ConfigFile = v.ConfigFileUsed()
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, src, nil
}

// LoadDotEnv loads the existing files among paths into the process environment,
// in order. Variables already set, including those set by an earlier file, are
// never overridden. It returns the files that were loaded.
func LoadDotEnv(paths ...string) ([]string, error) {
	var loaded []string
	for _, p := range paths {
		if p == "" {
			continue
		}
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return loaded, fmt.Errorf("failed to parse .env file %s: %w", p, err)
		}
		loaded = append(loaded, p)
	}
	return loaded, nil
}

// UserConfigDir returns $XDG_CONFIG_HOME/eggshell, or ~/.config/eggshell.
func UserConfigDir() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, "eggshell"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "eggshell"), nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if _, err := help.ParseFormat(c.HelpFormat); err != nil {
		return fmt.Errorf("invalid help_format: %w", err)
	}
	switch c.Color {
	case "auto", "always", "never", "json":
	default:
		return fmt.Errorf("invalid color %q (expected auto, always, never or json)", c.Color)
	}
	switch c.LineEditor {
	case "ishell", "readline", "plain":
	default:
		return fmt.Errorf("invalid line_editor %q (expected ishell, readline or plain)", c.LineEditor)
	}
	return nil
}
