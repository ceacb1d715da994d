// ABOUTME: CLI commands for browsing the exercise catalog.
// ABOUTME: Supports list with filters, refresh and clear-cache.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/routines/internal/catalog"
	"github.com/harperreed/routines/internal/models"
)

var (
	exSearch string
	exMuscle string
	exType   string
	exLimit  int
	exFacets bool
)

var exercisesCmd = &cobra.Command{
	Use:     "exercises",
	Aliases: []string{"ex"},
	Short:   "Browse the exercise catalog",
	Long: `Browse the exercise catalog used to build routines.

The catalog is served from the local cache. On a cache miss it is fetched
from the exercise directory and cached; if the directory is unreachable or
returns nothing, a built-in list of five exercises is shown and nothing is
cached.

COMMANDS:

  list         List exercises, optionally filtered
  refresh      Drop the cache and fetch the catalog again
  clear-cache  Drop the cache`,
}

var exercisesListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List exercises",
	Long: `List exercises from the catalog.

FILTERING:

  --search, -s   Case-insensitive substring of the name
  --muscle, -m   Primary muscle (Chest, Legs, Back, ...)
  --type, -t     Exercise type (Bodyweight, Barbell, ...)
  --facets       Show the muscles and types present in the catalog

EXAMPLES:

  routines exercises list
  routines exercises list --muscle legs
  routines exercises list -s press -n 5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		all, source := loader.LoadFrom(cmd.Context())

		if exFacets {
			fmt.Fprintf(out, "Muscles: %s\n", strings.Join(catalog.UniqueMuscles(all), ", "))
			fmt.Fprintf(out, "Types:   %s\n", strings.Join(catalog.UniqueTypes(all), ", "))
			return nil
		}

		matched := catalog.Filter(all, catalog.Query{Search: exSearch, Muscle: exMuscle, Type: exType})
		if len(matched) == 0 {
			fmt.Fprintln(out, "No exercises found.")
			return nil
		}

		printExercises(cmd, matched, exLimit)
		if source == catalog.SourceDemo {
			color.New(color.FgYellow).Fprintln(out, "⚠ Showing built-in exercises; the exercise directory is unavailable.")
		}
		return nil
	},
}

var exercisesRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch the catalog again",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, source := loader.Refresh(cmd.Context())
		if source == catalog.SourceDemo {
			color.New(color.FgYellow).Fprintf(cmd.OutOrStdout(), "⚠ Exercise directory unavailable; %d built-in exercises shown, nothing cached\n", len(all))
			return nil
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Cached %d exercises\n", len(all))
		return nil
	},
}

var exercisesClearCmd = &cobra.Command{
	Use:   "clear-cache",
	Short: "Drop the cached catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := repo.ClearCache(cmd.Context()); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "✓ Exercise cache cleared")
		return nil
	},
}

func printExercises(cmd *cobra.Command, list []models.Exercise, limit int) {
	out := cmd.OutOrStdout()
	faint := color.New(color.Faint)

	shown := list
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	for _, e := range shown {
		fmt.Fprintf(out, "%s %s %s\n",
			padRight(e.Name, 28),
			padRight(e.Muscle, 12),
			faint.Sprintf("%s · %s", orDash(e.Type), orDash(e.Difficulty)))
	}
	if len(shown) < len(list) {
		faint.Fprintf(out, "... %d more (use --limit)\n", len(list)-len(shown))
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	exercisesListCmd.Flags().StringVarP(&exSearch, "search", "s", "", "filter by name")
	exercisesListCmd.Flags().StringVarP(&exMuscle, "muscle", "m", "", "filter by primary muscle")
	exercisesListCmd.Flags().StringVarP(&exType, "type", "t", "", "filter by exercise type")
	exercisesListCmd.Flags().IntVarP(&exLimit, "limit", "n", 20, "max number of results (0 for all)")
	exercisesListCmd.Flags().BoolVar(&exFacets, "facets", false, "show available muscles and types")

	exercisesCmd.AddCommand(exercisesListCmd)
	exercisesCmd.AddCommand(exercisesRefreshCmd)
	exercisesCmd.AddCommand(exercisesClearCmd)
	rootCmd.AddCommand(exercisesCmd)
}
