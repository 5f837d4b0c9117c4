// Package config provides configuration management for tagforge using
// Viper for flexible loading from files, environment variables, and
// command-line flags.
//
// The configuration system supports YAML files and environment variable
// overrides with the TAGFORGE_ prefix. It manages scan paths for markup
// sources, watch-mode debouncing, preview server settings, and logging
// options.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/conneroisu/tagforge/internal/errors"
)

type Config struct {
	Server Server `yaml:"server"`
	Scan   Scan   `yaml:"scan"`
	Watch  Watch  `yaml:"watch"`
	Log    Log    `yaml:"log"`
}

// Server configures the preview server started by `tagforge serve`.
type Server struct {
	Port           int      `yaml:"port"`
	Host           string   `yaml:"host"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Scan configures which files the watch and check workflows consider
// markup sources.
type Scan struct {
	Paths           []string `yaml:"paths"`
	Extensions      []string `yaml:"extensions"`
	ExcludePatterns []string `yaml:"exclude_patterns"`
}

// Watch configures change detection for watch and serve modes.
type Watch struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Log configures the structured logger.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load builds the configuration from viper's current state, applying
// defaults for anything unset.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeConfigInvalid, "cannot decode configuration").
			WithContext("cause", err.Error())
	}

	// Viper key lookups for values the decoder misses when keys use
	// underscores.
	if viper.IsSet("server.port") {
		config.Server.Port = viper.GetInt("server.port")
	}
	if viper.IsSet("server.host") {
		config.Server.Host = viper.GetString("server.host")
	}
	if viper.IsSet("server.allowed_origins") {
		config.Server.AllowedOrigins = viper.GetStringSlice("server.allowed_origins")
	}
	if viper.IsSet("scan.paths") {
		config.Scan.Paths = viper.GetStringSlice("scan.paths")
	}
	if viper.IsSet("scan.extensions") {
		config.Scan.Extensions = viper.GetStringSlice("scan.extensions")
	}
	if viper.IsSet("scan.exclude_patterns") {
		config.Scan.ExcludePatterns = viper.GetStringSlice("scan.exclude_patterns")
	}
	if viper.IsSet("watch.debounce") {
		config.Watch.Debounce = viper.GetDuration("watch.debounce")
	}
	if viper.IsSet("log.level") {
		config.Log.Level = viper.GetString("log.level")
	}
	if viper.IsSet("log.format") {
		config.Log.Format = viper.GetString("log.format")
	}

	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func applyDefaults(config *Config) {
	if config.Server.Port == 0 {
		config.Server.Port = 8120
	}
	if config.Server.Host == "" {
		config.Server.Host = "localhost"
	}
	if len(config.Scan.Paths) == 0 {
		config.Scan.Paths = []string{"."}
	}
	if len(config.Scan.Extensions) == 0 {
		config.Scan.Extensions = []string{".html", ".xhtml", ".xml", ".svg"}
	}
	if config.Watch.Debounce == 0 {
		config.Watch.Debounce = 300 * time.Millisecond
	}
	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "text"
	}
}

// Validate checks the configuration for invalid or unsafe values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.NewConfigError(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("server port %d out of range", c.Server.Port))
	}

	for _, path := range c.Scan.Paths {
		if err := validateScanPath(path); err != nil {
			return err
		}
	}

	for _, ext := range c.Scan.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return errors.NewConfigError(errors.ErrCodeConfigInvalid,
				"scan extension must start with a dot: "+ext)
		}
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.NewConfigError(errors.ErrCodeConfigInvalid,
			"unknown log level: "+c.Log.Level)
	}

	return nil
}

// validateScanPath rejects empty and parent-escaping scan paths.
func validateScanPath(path string) error {
	if path == "" {
		return errors.ErrInvalidPath(path)
	}

	clean := filepath.Clean(path)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return errors.ErrPathTraversal(path)
	}

	return nil
}
