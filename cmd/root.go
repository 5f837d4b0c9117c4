// Package cmd provides the command-line interface for tagforge with
// configuration management supporting multiple configuration sources.
//
// Configuration System:
//
//	The CLI supports flexible configuration through multiple sources with clear precedence:
//	1. Command-line flags (--config, --port, etc.) - highest priority
//	2. TAGFORGE_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (TAGFORGE_SERVER_PORT, etc.)
//	4. Configuration files (.tagforge.yml) - lowest priority
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/tagforge/internal/config"
	"github.com/conneroisu/tagforge/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tagforge",
	Short: "A markup tag parsing and rewriting toolkit",
	Long: `Tagforge parses raw markup into a stream of tags and text segments,
validates open/close nesting, and re-serializes tags canonically.

Key Features:
  • Pull parser with exact source positions and byte-faithful round-trips
  • Open/close pairing and well-formedness checking
  • Canonical formatting of tags and attributes
  • Watch mode re-checking sources on change
  • Live-reload preview server

Quick Start:
  tagforge parse page.html        Dump the tag stream
  tagforge check page.html        Validate nesting
  tagforge format page.html       Canonicalize tags
  tagforge watch ./templates      Re-check on change
  tagforge serve page.html        Preview with live reload`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .tagforge.yml, can also use TAGFORGE_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig initializes the configuration system.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag: Explicitly specified config file path
//  2. TAGFORGE_CONFIG_FILE environment variable: Custom config file path
//  3. Default: .tagforge.yml in current directory
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("TAGFORGE_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".tagforge")
	}

	// Enable automatic environment variable binding with TAGFORGE_ prefix
	// Examples: TAGFORGE_SERVER_PORT, TAGFORGE_LOG_LEVEL
	viper.SetEnvPrefix("TAGFORGE")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// A missing or malformed config file is not fatal; defaults apply.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig loads and validates the effective configuration.
func loadConfig() (*config.Config, error) {
	return config.Load()
}

// newLogger builds the CLI logger from the effective configuration.
func newLogger(cfg *config.Config) logging.Logger {
	return logging.NewLogger(&logging.Config{
		Level:  logging.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
}

// readSource reads a markup source from a file path, or from stdin when
// the path is "-".
func readSource(path string) (name, contents string, err error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", err
		}
		return "stdin", string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}

	return path, string(data), nil
}
