package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/carelink/internal/config"
	dbpkg "github.com/BruksfildServices01/carelink/internal/db"
	"github.com/BruksfildServices01/carelink/internal/handlers"
	"github.com/BruksfildServices01/carelink/internal/httperr"
	"github.com/BruksfildServices01/carelink/internal/models"
)

func createAdminCmd() *cobra.Command {
	var email, password, name string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			email = strings.ToLower(strings.TrimSpace(email))
			if email == "" || len(password) < 8 {
				return fmt.Errorf("--email is required and --password must have at least 8 characters")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			db, err := dbpkg.NewDB(cfg)
			if err != nil {
				return err
			}
			if err := dbpkg.Migrate(db); err != nil {
				return err
			}

			hash, err := handlers.HashPassword(password)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}

			if name == "" {
				name = email
			}

			user := models.AdminUser{
				Name:         name,
				Email:        email,
				PasswordHash: hash,
				Role:         "admin",
			}
			if err := db.Create(&user).Error; err != nil {
				if httperr.IsUniqueViolation(err) {
					return fmt.Errorf("an admin with email %s already exists", email)
				}
				return fmt.Errorf("create admin: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "admin %s created (id %s)\n", user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
