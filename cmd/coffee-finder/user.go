package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sakif/coffee-finder/internal/auth"
	"github.com/sakif/coffee-finder/internal/server"
	"github.com/sakif/coffee-finder/internal/service"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a user account",
	Example: `  coffee-finder user add --email barista@example.com --password 's3cret-beans'
  coffee-finder user add --email owner@example.com --password 'long-password' --admin`,
	Args: cobra.NoArgs,
	RunE: runUserAdd,
}

var (
	newUserEmail    string
	newUserPassword string
	newUserAdmin    bool
)

func init() {
	userAddCmd.Flags().StringVar(&newUserEmail, "email", "", "login email (required)")
	userAddCmd.Flags().StringVar(&newUserPassword, "password", "", "password, at least 8 characters (required)")
	userAddCmd.Flags().BoolVar(&newUserAdmin, "admin", false, "grant access to /admin")
	userAddCmd.MarkFlagRequired("email")
	userAddCmd.MarkFlagRequired("password")

	userCmd.AddCommand(userAddCmd)
}

func runUserAdd(cmd *cobra.Command, _ []string) error {
	db, err := server.OpenDatabase(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	pending, err := db.PendingMigrations(cmd.Context())
	if err != nil {
		return err
	}
	if pending > 0 {
		return fmt.Errorf("%w (%d pending)", server.ErrPendingMigrations, pending)
	}

	users := service.NewAuthService(db.Users(), nil, auth.NewPasswordService(cfg.Auth.BcryptCost), logger)
	user, err := users.CreateUser(cmd.Context(), newUserEmail, newUserPassword, newUserAdmin)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "created user %d (%s, admin=%t)\n", user.ID, user.Email, user.IsAdmin)
	return nil
}
