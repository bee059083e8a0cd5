package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/crimson-sun/pagepulse/internal/config"
	"github.com/crimson-sun/pagepulse/internal/logging"
)

// cfg is loaded once in the root pre-run and adjusted by command flags.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:           "pagepulse",
	Short:         "Highlight the emotional passages of a web page",
	Long:          "pagepulse extracts readable text from a page, asks a language model which passages carry emotion, and marks them in the HTML.",
	Version:       config.Version,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}

		cfg = config.Load()
		applyRootFlags(cmd)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration:\n%w", err)
		}

		jsonOut, _ := cmd.Flags().GetBool("json")
		logging.Init(jsonOut, logging.ParseLevel(cfg.LogLevel))
		slog.Debug("configuration loaded", "provider", cfg.Classifier.Provider, "id_mode", cfg.Extract.IDMode)
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("env-file", ".env", "Load environment variables from this file if it exists")
	pf.String("provider", "", "Classifier provider (gemini, openai)")
	pf.String("model", "", "Model name; defaults to the provider's default")
	pf.String("log-level", "", "Log level (debug, info, warn, error)")
	pf.String("verbosity", "", "Report verbosity (minimal, standard, full)")
}

// applyRootFlags lets explicitly set flags override the environment.
func applyRootFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("provider") {
		cfg.Classifier.Provider, _ = flags.GetString("provider")
	}
	if flags.Changed("model") {
		cfg.Classifier.Model, _ = flags.GetString("model")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("verbosity") {
		cfg.Output.Verbosity, _ = flags.GetString("verbosity")
	}
	if flags.Lookup("id-mode") != nil && flags.Changed("id-mode") {
		cfg.Extract.IDMode, _ = flags.GetBool("id-mode")
	}
	if flags.Lookup("max-markers") != nil && flags.Changed("max-markers") {
		cfg.Highlight.MaxMarkers, _ = flags.GetInt("max-markers")
	}
}
