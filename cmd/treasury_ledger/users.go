package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SscSPs/treasury_ledger/internal/dto"
)

var createUserCmd = &cobra.Command{
	Use:   "create-user <username> <password>",
	Short: "Create an operator who can log in to the API",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")

		a, err := newApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		user, err := a.services.User.CreateUser(cmd.Context(), dto.CreateUserRequest{
			Username: args[0],
			Name:     name,
			Password: args[1],
		}, systemUserID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (%s)\n", user.Username, user.UserID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createUserCmd)
	createUserCmd.Flags().String("name", "", "Display name")
}
