package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pg-management/pg-server/internal/models"
	"github.com/pg-management/pg-server/internal/storage"
	"github.com/pg-management/pg-server/pkg/crypto"
)

func createAdminCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			generated := password == ""
			if generated {
				p, err := crypto.GeneratePassword(18)
				if err != nil {
					return err
				}
				password = p
			} else if len(password) < 8 {
				return errors.New("password must be at least 8 characters")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			hash, err := crypto.HashPassword(password)
			if err != nil {
				return err
			}

			user := &models.User{
				Email:        email,
				PasswordHash: hash,
				Role:         models.RoleAdmin,
			}
			if err := store.CreateUser(cmd.Context(), user); err != nil {
				if errors.Is(err, storage.ErrDuplicateKey) {
					return fmt.Errorf("user %s already exists", email)
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created admin %s (%s)\n", user.Email, user.ID)
			if generated {
				fmt.Fprintf(cmd.OutOrStdout(), "Generated password: %s\n", password)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Admin email")
	cmd.Flags().StringVar(&password, "password", "", "Admin password (generated and printed when empty)")
	cmd.MarkFlagRequired("email")
	return cmd
}
