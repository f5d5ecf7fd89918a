package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/njprem/Desa_Wisata_APP_BackEnd/internal/console"
)

func newLoginCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			term := console.NewTerminal(cmd.InOrStdin(), cmd.OutOrStdout())
			var err error
			if strings.TrimSpace(email) == "" {
				if email, err = term.ReadLine("Email: "); err != nil {
					return err
				}
			}
			if password == "" {
				password = os.Getenv(envPrefix + "_PASSWORD")
			}
			if password == "" {
				if password, err = term.ReadLine("Password: "); err != nil {
					return err
				}
			}

			c, err := a.client()
			if err != nil {
				return err
			}
			session, err := c.SignIn(cmd.Context(), strings.TrimSpace(email), password)
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			if err := a.saveToken(session.Token); err != nil {
				return err
			}
			name := strings.TrimSpace(email)
			if session.User != nil && session.User.FullName != nil {
				name = *session.User.FullName
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s until %s\n", name, session.ExpiresAt.Local().Format("2006-01-02 15:04"))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password (or "+envPrefix+"_PASSWORD)")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			signOutErr := c.SignOut(cmd.Context())
			if err := a.saveToken(""); err != nil {
				return err
			}
			if signOutErr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", signOutErr)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}
