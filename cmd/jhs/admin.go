package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"jhs/backend/internal/service"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage admin panel accounts",
}

var (
	adminEmail    string
	adminPassword string
	adminName     string
	adminRole     string
)

var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an admin panel account",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		users := service.NewUserService(a.repositories().users, a.cfg, a.log)
		input := service.UserInput{
			Email:    adminEmail,
			Password: adminPassword,
			Role:     adminRole,
			Name:     adminName,
		}
		user, err := users.Create(ctx, input)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s user %s (%s)\n", user.Role, user.Email, user.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(adminCmd)
	adminCmd.AddCommand(adminCreateCmd)

	adminCreateCmd.Flags().StringVar(&adminEmail, "email", "", "account email")
	adminCreateCmd.Flags().StringVar(&adminPassword, "password", "", "account password")
	adminCreateCmd.Flags().StringVar(&adminName, "name", "", "display name")
	adminCreateCmd.Flags().StringVar(&adminRole, "role", "admin", "admin or editor")
	_ = adminCreateCmd.MarkFlagRequired("email")
	_ = adminCreateCmd.MarkFlagRequired("password")
}
