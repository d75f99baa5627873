package cmd

import (
	"fmt"
	"os"

	"github.com/axellelanca/shortlinks/internal/config"
	"github.com/axellelanca/shortlinks/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Cfg holds the loaded configuration for every command.
var Cfg *config.Config

// Log is the application logger, built from Cfg.Log once configuration is loaded.
var Log zerolog.Logger

// RootCmd is the base command for the CLI application.
// Subcommands register themselves from their own init() functions, which
// keeps this package free of import cycles.
var RootCmd = &cobra.Command{
	Use:   "urlshortener",
	Short: "A URL shortener with owner-managed links",
	Long: `A URL shortener: owners create short links with custom aliases or
generated codes, toggle and edit them, and visitors are redirected while
every visit is counted.`,
	SilenceUsage: true,
}

// Execute is called from main.go.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	Cfg = cfg
	Log = logger.New(cfg.Log.Level, cfg.Log.Pretty)
}
