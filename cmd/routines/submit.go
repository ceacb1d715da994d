// ABOUTME: CLI command that submits the draft routine to the backend.
// ABOUTME: Clears the local draft on success; a rejected session asks for a new login.
package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/routines/internal/submit"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Save the draft routine to the backend",
	Long: `Save the draft routine to the routine backend.

Each exercise is looked up on the backend by name and created when it is
missing. The routine is then created and the exercises are linked to it in
draft order. On success the local draft is cleared.

The draft needs a name and at least one exercise, and you must be signed in.
If the backend rejects the session you are signed out and asked to log in
again; the draft is kept.

A failure part way through is not rolled back: exercises and the routine
created before the failure stay on the backend.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		state := drafts.Load(ctx)

		res, err := submitter.Submit(ctx, state.Draft(), nil)
		if err != nil {
			if errors.Is(err, submit.ErrSessionExpired) {
				color.New(color.FgYellow).Fprintln(cmd.OutOrStdout(), submit.MsgSessionExpired+" Run: routines auth login")
			}
			if errors.Is(err, submit.ErrNotAuthenticated) {
				color.New(color.FgYellow).Fprintln(cmd.OutOrStdout(), "Sign in with: routines auth login")
			}
			if errors.Is(err, submit.ErrNoUsername) {
				color.New(color.FgYellow).Fprintln(cmd.OutOrStdout(), "Sign in again with: routines auth login --token ... --username NAME")
			}
			return errors.New(res.Message)
		}

		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ %s\n", res.Message)
		fmt.Fprintf(cmd.OutOrStdout(), "  Routine ID: %d\n", res.RoutineID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(submitCmd)
}
