// Package config loads the converter settings from an optional file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"

	"github.com/talifan/adv-reverse2seaf/internal/derived"
	"github.com/talifan/adv-reverse2seaf/internal/transform"
)

const (
	// DefaultConfigFile is read when no path is given.
	DefaultConfigFile = "converter_config.yaml"
	// EnvPrefix qualifies environment overrides, e.g. REVERSE2SEAF_ID_PREFIX.
	EnvPrefix = "REVERSE2SEAF"
)

// Config holds every converter setting.
type Config struct {
	InputDir          string            `json:"input_dir" mapstructure:"input_dir"`
	OutputDir         string            `json:"output_dir" mapstructure:"output_dir"`
	IDPrefix          string            `json:"id_prefix" mapstructure:"id_prefix"`
	EntitiesToConvert []string          `json:"entities_to_convert" mapstructure:"entities_to_convert"`
	BranchSegments    map[string]string `json:"branch_segments" mapstructure:"branch_segments"`
	LogLevel          string            `json:"log_level" mapstructure:"log_level"`
	ListenAddr        string            `json:"listen_addr" mapstructure:"listen_addr"`
	CORSAllowedOrigin string            `json:"cors_allowed_origin" mapstructure:"cors_allowed_origin"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() *Config {
	return &Config{
		InputDir:          "data/source",
		OutputDir:         "data/converted",
		EntitiesToConvert: []string{"__all__"},
		BranchSegments:    transform.DefaultBranchSegments(),
		LogLevel:          "warn",
		ListenAddr:        ":8080",
		CORSAllowedOrigin: "*",
	}
}

// Load reads path (DefaultConfigFile when empty) and applies environment
// overrides. A missing file yields the defaults plus environment.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFile
	}

	defaults := DefaultConfig()
	v := viper.New()
	v.SetDefault("input_dir", defaults.InputDir)
	v.SetDefault("output_dir", defaults.OutputDir)
	v.SetDefault("id_prefix", defaults.IDPrefix)
	v.SetDefault("entities_to_convert", defaults.EntitiesToConvert)
	v.SetDefault("branch_segments", defaults.BranchSegments)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("listen_addr", defaults.ListenAddr)
	v.SetDefault("cors_allowed_origin", defaults.CORSAllowedOrigin)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil && !missingFile(err) {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

func missingFile(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

// Validate checks the settings the converter cannot run without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ListenAddr) == "" {
		return &ConfigError{Field: "listen_addr", Message: "must not be empty"}
	}
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return &ConfigError{Field: "log_level", Message: fmt.Sprintf("unknown level %q", c.LogLevel)}
	}
	for branch, value := range c.BranchSegments {
		dc, segment, ok := cutLast(value)
		if !ok || dc == "" {
			return &ConfigError{Field: "branch_segments." + branch, Message: fmt.Sprintf("%q must be <dc>.<SEGMENT>", value)}
		}
		if !derived.IsPredefinedSegment(segment) {
			return &ConfigError{Field: "branch_segments." + branch, Message: fmt.Sprintf("unknown segment %q", segment)}
		}
	}
	return nil
}

func cutLast(value string) (before, after string, ok bool) {
	i := strings.LastIndex(value, ".")
	if i < 0 {
		return value, "", false
	}
	return value[:i], value[i+1:], true
}

// ConfigError represents an invalid configuration value.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
