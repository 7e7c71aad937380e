package main

import (
	"errors"
	"fmt"

	"github.com/prperemyshlev/storefront/pkg/client"
	"github.com/spf13/cobra"
)

func (a *cli) registerCmd() *cobra.Command {
	var in client.RegisterInput

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if in.Password == "" {
				in.Password = a.v.GetString("password")
			}
			result, err := a.client.Register(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.render(cmd, result.User, func(p *printer) {
				p.line("Registered and logged in as %s (%s)", result.User.UserName, result.User.Email)
			})
		},
	}

	cmd.Flags().StringVar(&in.UserName, "name", "", "display name")
	cmd.Flags().StringVar(&in.Email, "email", "", "email address")
	cmd.Flags().StringVar(&in.Password, "password", "", "password (or STOREFRONT_PASSWORD)")
	cmd.Flags().StringVar(&in.Telephone, "telephone", "", "telephone number")
	cmd.Flags().StringVar(&in.Address, "address", "", "delivery address")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (a *cli) loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = a.v.GetString("password")
			}
			if password == "" {
				return errors.New("password is required (--password or STOREFRONT_PASSWORD)")
			}
			result, err := a.client.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			return a.render(cmd, result.User, func(p *printer) {
				p.line("Logged in as %s (%s)", result.User.UserName, result.User.Email)
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password (or STOREFRONT_PASSWORD)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (a *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.session.RefreshToken() == "" && a.session.AccessToken() == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}
			if err := a.client.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("logged out locally, server reported: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func (a *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := a.client.Me(cmd.Context())
			if err != nil {
				return err
			}
			return a.render(cmd, user, func(p *printer) {
				p.line("%s <%s>", user.UserName, user.Email)
				p.line("id:     %s", user.ID)
				p.line("role:   %s", user.Role)
				p.line("status: %s", user.Status)
			})
		},
	}
}
