// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the wordpack-audit CLI.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/wordpack-audit/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is configured by the root command before any subcommand runs.
var logger = slog.New(slog.DiscardHandler)

// configErr holds a config file read failure until a command can return it.
var configErr error

// rootCmd is the base command for the wordpack-audit CLI.
var rootCmd = &cobra.Command{
	Use:   "wordpack-audit",
	Short: "Find ambiguous terms in curated word packs",
	Long: `wordpack-audit checks curated word packs against a scored relations
database. A term listed under one base term is flagged when the database
also relates it to a different base term of the same section, with the
polarity of that section (synonyms or antonyms).

The detect subcommand writes a copy of the word pack with every ambiguous
term marked, and optionally a YAML, JSON or SQLite report of the findings.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configErr != nil {
			return configErr
		}
		if err := bindFlags(viper.GetViper(), cmd); err != nil {
			return err
		}
		logger = logging.New(loadLogConfig(viper.GetViper()))
		if f := viper.ConfigFileUsed(); f != "" {
			logger.Debug("using config file", "path", f)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./wordpack-audit.yaml or ~/.config/wordpack-audit/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "text", "log format: text, json")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("wordpack-audit")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "wordpack-audit"))
		}
	}

	configureEnv(viper.GetViper())

	configErr = nil
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			configErr = fmt.Errorf("reading config file: %w", err)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
