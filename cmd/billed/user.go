package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/billed/internal/auth"
	"github.com/mmynk/billed/internal/models"
	"github.com/mmynk/billed/internal/storage/sqlite"
	"github.com/mmynk/billed/pkg/logging"
)

var (
	userEmail    string
	userPassword string
	userType     string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an account (the only way to create admins)",
	RunE:  runUserCreate,
}

func init() {
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "account email")
	userCreateCmd.Flags().StringVar(&userPassword, "password", "", "account password, at least 8 characters")
	userCreateCmd.Flags().StringVar(&userType, "type", string(models.RoleEmployee), "Employee or Admin")
	userCreateCmd.Flags().String("db", "", "SQLite database path (default from DB_PATH)")
	_ = userCreateCmd.MarkFlagRequired("email")
	_ = userCreateCmd.MarkFlagRequired("password")

	userCmd.AddCommand(userCreateCmd)
	rootCmd.AddCommand(userCmd)
}

func runUserCreate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := logging.Setup(cfg.LogLevel)

	role, err := models.ParseRole(userType)
	if err != nil {
		return err
	}

	db, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer db.Close()

	user, err := auth.NewPasswordAuthenticator(db).Register(cmd.Context(), userEmail, role, userPassword)
	if err != nil {
		return fmt.Errorf("failed to create %s %s: %w", role, userEmail, err)
	}

	logger.Info("Account created", "user_id", user.ID, "email", user.Email, "type", user.Type)
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s created (%s)\n", user.Type, user.Email, user.ID)
	return nil
}
