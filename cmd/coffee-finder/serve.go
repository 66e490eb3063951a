package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sakif/coffee-finder/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	Long: `Run the web server until SIGINT or SIGTERM, then shut down gracefully.

serve refuses to start while migrations are pending unless --auto-migrate
(or database.auto_migrate) is set.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8080, "HTTP port")
	serveCmd.Flags().Bool("auto-migrate", false, "apply pending migrations on startup")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer srv.Close()

	return srv.Run(ctx)
}
