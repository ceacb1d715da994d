// ABOUTME: CLI commands for the backend session: login, logout and status.
// ABOUTME: Credentials are kept in the user's config directory, readable only by them.
package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/routines/internal/auth"
)

var (
	loginToken    string
	loginUsername string
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the backend session",
	Long: `Manage the session used to talk to the routine backend.

Submitting routines and adding exercises to the draft require a session.
The token is stored in ~/.config/routines/credentials.json. When the token
is a JWT with an expiry, the session ends at that time.`,
	Annotations: map[string]string{skipStorage: "true"},
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store a backend token",
	Long: `Store a backend bearer token and the username routines are created under.

EXAMPLES:

  routines auth login --token eyJhbGciOi... --username ana`,
	Annotations: map[string]string{skipStorage: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		token := strings.TrimSpace(loginToken)
		if token == "" {
			return errors.New("--token is required")
		}

		c := auth.Credentials{Token: token, Username: strings.TrimSpace(loginUsername)}
		if err := creds.Save(c); err != nil {
			return err
		}
		if creds.Current() == nil {
			return errors.New("token is already expired")
		}

		color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "✓ Signed in")
		if c.Username == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "Note: no --username given; submitting routines will fail until you sign in with one.")
		}
		return nil
	},
}

var authLogoutCmd = &cobra.Command{
	Use:         "logout",
	Short:       "Forget the stored token",
	Annotations: map[string]string{skipStorage: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := creds.Clear(); err != nil {
			return err
		}
		color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "✓ Signed out")
		return nil
	},
}

var authStatusCmd = &cobra.Command{
	Use:         "status",
	Short:       "Show the current session",
	Annotations: map[string]string{skipStorage: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		c := creds.Current()
		if c == nil {
			color.New(color.FgYellow).Fprintln(out, "Not signed in")
			fmt.Fprintln(out, "\nRun 'routines auth login' to sign in.")
			return nil
		}

		color.New(color.FgGreen).Fprintln(out, "✓ Signed in")
		fmt.Fprintf(out, "  Username: %s\n", orDash(c.Username))
		fmt.Fprintf(out, "  Backend:  %s\n", apiClient.BaseURL())
		if c.ExpiresAt != nil {
			fmt.Fprintf(out, "  Expires:  %s\n", c.ExpiresAt.Local().Format(time.RFC1123))
		}
		return nil
	},
}

func init() {
	authLoginCmd.Flags().StringVar(&loginToken, "token", "", "backend bearer token")
	authLoginCmd.Flags().StringVar(&loginUsername, "username", "", "username routines are created under")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}
