package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"docmanager-backend/internal/client"
)

func (a *cli) usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts (admin only)",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List users",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := a.client()
				if err != nil {
					return err
				}
				list, err := c.ListUsers(cmd.Context())
				if err != nil {
					return err
				}
				return printUsers(cmd.OutOrStdout(), list)
			},
		},
		&cobra.Command{
			Use:   "get ID",
			Short: "Show one user",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := a.client()
				if err != nil {
					return err
				}
				user, err := c.GetUser(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printUser(cmd.OutOrStdout(), user)
			},
		},
		a.userCreateCmd(),
		a.userEditCmd(),
		&cobra.Command{
			Use:   "delete ID",
			Short: "Delete a user",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := a.client()
				if err != nil {
					return err
				}
				if err := c.DeleteUser(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "User deleted successfully")
				return nil
			},
		},
	)
	return cmd
}

func (a *cli) userCreateCmd() *cobra.Command {
	var in client.NewUser
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			user, err := c.CreateUser(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "User created successfully")
			return printUser(cmd.OutOrStdout(), user)
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "display name")
	cmd.Flags().StringVar(&in.Email, "email", "", "account email")
	cmd.Flags().StringVar(&in.Password, "password", "", "initial password")
	cmd.Flags().StringVar(&in.Role, "role", "", "admin, editor or viewer (default viewer)")
	for _, name := range []string{"name", "email", "password"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func (a *cli) userEditCmd() *cobra.Command {
	var name, email, password, role string
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a user's name, email, password or role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			if _, err := c.GetUser(cmd.Context(), args[0]); err != nil {
				return err
			}
			var edit client.UserEdit
			flags := cmd.Flags()
			if flags.Changed("name") {
				edit.Name = &name
			}
			if flags.Changed("email") {
				edit.Email = &email
			}
			if flags.Changed("password") {
				edit.Password = &password
			}
			if flags.Changed("role") {
				edit.Role = &role
			}
			user, err := c.UpdateUser(cmd.Context(), args[0], edit)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "User updated successfully")
			return printUser(cmd.OutOrStdout(), user)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new display name")
	cmd.Flags().StringVar(&email, "email", "", "new email")
	cmd.Flags().StringVar(&password, "password", "", "new password")
	cmd.Flags().StringVar(&role, "role", "", "new role")
	return cmd
}
