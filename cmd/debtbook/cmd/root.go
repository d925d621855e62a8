package cmd

import (
	"fmt"
	"log/slog"

	"github.com/rustyeddy/debtbook/config"
	"github.com/rustyeddy/debtbook/internal/logger"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "debtbook",
	Short: "A personal ledger of who owes you what",
	Long: `Debtbook keeps a small ledger of debtors and the amount each one owes.

It provides tools for:
  - Adding debtors and adjusting what they owe
  - Searching the list by name
  - Importing and exporting JSON backups, and exporting CSV
  - Serving the ledger over HTTP with autosave

Data lives in a single SQLite file (see --db).`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var (
	cfgFile  string
	dbPath   string
	logLevel string

	cfg *config.Config
	log *slog.Logger
)

// skipSetup marks commands that must run without a valid configuration.
const skipSetup = "skip-setup"

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "path to the SQLite ledger (overrides storage.path)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides logging.level)")
}

func setup(cmd *cobra.Command, args []string) error {
	if cmd.Annotations[skipSetup] == "true" {
		cfg = config.Default()
		log = logger.Discard()
		return nil
	}

	c, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if dbPath != "" {
		c.Storage.Path = dbPath
	}
	if logLevel != "" {
		c.Logging.Level = logLevel
	}

	cfg = c
	log = logger.New(cfg.Logging)
	log.Debug("config loaded", "file", cfgFile, "db", cfg.Storage.Path)
	return nil
}
