// Command coffee-finder runs the coffee shop finder web application and its
// maintenance tasks.
//
//	coffee-finder migrate                 create or upgrade the database
//	coffee-finder serve                   run the web server
//	coffee-finder user add --email ...    create an account
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/sakif/coffee-finder/internal/config"
)

var (
	configPath string

	// cfg and logger are set by rootCmd's PersistentPreRunE before any
	// subcommand runs.
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "coffee-finder",
	Short: "Browse, favorite and review coffee shops on a map",
	Long: `coffee-finder serves a map of coffee shops backed by one SQLite file.

Configuration is read from, in increasing precedence: built-in defaults,
the YAML file given with --config, COFFEE_* environment variables (a .env
file in the working directory is loaded first) and command-line flags.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().String("db", "data/coffee_finder.db", "SQLite database path (\":memory:\" for a throwaway database)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", "text", "log format: text or json")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(userCmd)
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	loaded, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return err
	}

	cfg = loaded
	logger = cfg.Log.NewLogger(cmd.ErrOrStderr())
	slog.SetDefault(logger)
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
