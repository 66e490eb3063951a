package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sakif/coffee-finder/internal/auth"
	sqliteRepo "github.com/sakif/coffee-finder/internal/repository/sqlite"
	"github.com/sakif/coffee-finder/internal/server"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database or apply pending migrations",
	Long: `Apply every pending schema and seed migration in order.

The seed migrations insert the nine demo shops (unless seed.demo_shops is
false) and the demo administrator from seed.admin_email and
seed.admin_password. Running migrate on an up-to-date database does nothing.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	db, err := server.OpenDatabase(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	passwords := auth.NewPasswordService(cfg.Auth.BcryptCost)
	ran, err := db.Migrate(cmd.Context(), server.SeedOptions(cfg, passwords))
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s); schema version %d\n", ran, sqliteRepo.LatestVersion())
	return nil
}
