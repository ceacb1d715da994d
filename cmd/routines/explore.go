// ABOUTME: CLI command for browsing routines stored on the backend.
// ABOUTME: Filters by name or description and can list each routine's exercises.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/routines/internal/api"
)

var exploreVerbose bool

var exploreCmd = &cobra.Command{
	Use:   "explore [search]",
	Short: "Browse routines saved on the backend",
	Long: `Browse the routines saved on the routine backend.

An optional search term keeps routines whose name or description contains
it, ignoring case.

EXAMPLES:

  routines explore                 # All routines
  routines explore legs            # Routines mentioning "legs"
  routines explore push -v         # Include each routine's exercises`,
	Annotations: map[string]string{skipStorage: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := apiClient.ListWorkoutRoutines(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load routines: %w", err)
		}
		list = api.FilterRoutines(list, strings.Join(args, " "))

		out := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintln(out, "No routines found.")
			return nil
		}

		bold := color.New(color.Bold)
		faint := color.New(color.Faint)
		for _, r := range list {
			id := "-"
			if r.ID != nil {
				id = fmt.Sprintf("%d", *r.ID)
			}
			fmt.Fprintf(out, "%s %s  %s\n",
				faint.Sprintf("#%-4s", id),
				bold.Sprint(r.Name),
				faint.Sprintf("%d exercises, %s min", len(r.Exercises), orDash(r.Duration)))
			if r.Description != "" {
				fmt.Fprintf(out, "      %s\n", r.Description)
			}
			if !exploreVerbose {
				continue
			}
			for _, re := range r.Exercises {
				fmt.Fprintf(out, "      - %s %d x %d, rest %ds\n", re.Exercise.Name, re.Sets, re.Reps, re.RestTime)
			}
		}
		return nil
	},
}

func init() {
	exploreCmd.Flags().BoolVarP(&exploreVerbose, "verbose", "v", false, "list the exercises of each routine")
	rootCmd.AddCommand(exploreCmd)
}
