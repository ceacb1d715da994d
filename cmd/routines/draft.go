// ABOUTME: CLI commands for composing the draft routine.
// ABOUTME: Every edit is saved locally at once; show, set, add, remove, clear and watch.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/routines/internal/catalog"
	"github.com/harperreed/routines/internal/models"
)

var (
	draftName        string
	draftDescription string
	draftDuration    string
	draftSets        string
	draftReps        string
	draftRest        string
)

var draftCmd = &cobra.Command{
	Use:     "draft",
	Aliases: []string{"d"},
	Short:   "Compose the draft routine",
	Long: `Compose the routine you are about to submit.

There is exactly one draft. It is saved locally after every change and
restored on the next run, so you can build a routine over several sessions.

COMMANDS:

  show     Show the draft
  set      Set name, description or duration
  add      Add a catalog exercise with sets, reps and rest
  remove   Remove an exercise by position
  clear    Discard the draft
  watch    Print the draft whenever it changes

Adding exercises requires a signed-in session (routines auth login).`,
}

var draftShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the draft routine",
	RunE: func(cmd *cobra.Command, args []string) error {
		state := drafts.Load(cmd.Context())
		printDraft(cmd, state.Draft())
		return nil
	},
}

var draftSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set the routine name, description or duration",
	Long: `Set one or more draft fields.

EXAMPLES:

  routines draft set --name "Leg Day"
  routines draft set --description "Lower body" --duration 45`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		if !flags.Changed("name") && !flags.Changed("description") && !flags.Changed("duration") {
			return errors.New("nothing to set: use --name, --description or --duration")
		}

		drafts.Load(cmd.Context())
		if flags.Changed("name") {
			drafts.UpdateName(draftName)
		}
		if flags.Changed("description") {
			drafts.UpdateDescription(draftDescription)
		}
		if flags.Changed("duration") {
			drafts.UpdateDuration(draftDuration)
		}
		drafts.Flush()

		color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "✓ Draft updated")
		return nil
	},
}

var draftAddCmd = &cobra.Command{
	Use:   "add <exercise name>",
	Short: "Add an exercise to the draft",
	Long: `Add an exercise from the catalog to the draft.

The name is matched against the catalog ignoring case. Sets, reps and rest
that are missing or not positive numbers default to 3, 10 and 60 seconds.

EXAMPLES:

  routines draft add Squats
  routines draft add bench press --sets 5 --reps 5 --rest 120`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		name := strings.Join(args, " ")

		drafts.Load(ctx)
		if state := drafts.BeginSelection(); !state.ShowExerciseSelection {
			return errors.New(drafts.TakeMessage())
		}

		e, ok := catalog.Find(loader.Load(ctx), name)
		if !ok {
			drafts.CancelSelection()
			return fmt.Errorf("exercise not in catalog: %s (see 'routines exercises list')", name)
		}

		drafts.AddExercise(e, draftSets, draftReps, draftRest)
		drafts.FinishSelection()
		drafts.Flush()

		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ %s\n", drafts.TakeMessage())
		return nil
	},
}

var draftRemoveCmd = &cobra.Command{
	Use:     "remove <position>",
	Aliases: []string{"rm"},
	Short:   "Remove an exercise by position",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pos, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid position: %s", args[0])
		}

		state := drafts.Load(cmd.Context())
		if pos < 1 || pos > len(state.Exercises) {
			return fmt.Errorf("no exercise at position %d (draft has %d)", pos, len(state.Exercises))
		}
		name := state.Exercises[pos-1].Exercise.Name
		drafts.RemoveExercise(pos - 1)
		drafts.Flush()

		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Removed %s\n", name)
		return nil
	},
}

var draftClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Discard the draft routine",
	RunE: func(cmd *cobra.Command, args []string) error {
		drafts.Load(cmd.Context())
		if err := drafts.Clear(cmd.Context()); err != nil {
			return err
		}
		color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "✓ Draft cleared")
		return nil
	},
}

var draftWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the draft whenever it changes",
	Long: `Print the draft now and again each time it changes, including changes
made by other routines processes such as the MCP server. Stop with Ctrl-C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return watchDraft(ctx, cmd)
	},
}

func watchDraft(ctx context.Context, cmd *cobra.Command) error {
	updates, err := repo.WatchDraft(ctx)
	if err != nil {
		return fmt.Errorf("failed to watch draft: %w", err)
	}

	faint := color.New(color.Faint)
	for d := range updates {
		if d == nil {
			faint.Fprintln(cmd.OutOrStdout(), "(no draft)")
			continue
		}
		printDraft(cmd, *d)
		faint.Fprintln(cmd.OutOrStdout(), "---")
	}
	return nil
}

func printDraft(cmd *cobra.Command, d models.DraftRoutine) {
	out := cmd.OutOrStdout()
	faint := color.New(color.Faint)

	if d.IsEmpty() {
		fmt.Fprintln(out, "Draft is empty.")
		faint.Fprintln(out, "Start with: routines draft set --name \"Leg Day\"")
		return
	}

	color.New(color.Bold).Fprintln(out, orDash(d.Name))
	if d.Description != "" {
		fmt.Fprintln(out, d.Description)
	}
	if d.Duration != "" {
		fmt.Fprintf(out, "Duration: %s min\n", d.Duration)
	}
	if len(d.Exercises) == 0 {
		faint.Fprintln(out, "No exercises yet.")
		return
	}

	fmt.Fprintln(out)
	for i, re := range d.Exercises {
		fmt.Fprintf(out, "%2d. %s %d x %d  %s\n",
			i+1,
			padRight(truncate(re.Exercise.Name, 28), 28),
			re.Sets,
			re.Reps,
			faint.Sprintf("rest %ds", re.RestTime))
	}
}

func init() {
	draftSetCmd.Flags().StringVar(&draftName, "name", "", "routine name")
	draftSetCmd.Flags().StringVar(&draftDescription, "description", "", "routine description")
	draftSetCmd.Flags().StringVar(&draftDuration, "duration", "", "routine duration in minutes")

	draftAddCmd.Flags().StringVar(&draftSets, "sets", "", "number of sets (default 3)")
	draftAddCmd.Flags().StringVar(&draftReps, "reps", "", "reps per set (default 10)")
	draftAddCmd.Flags().StringVar(&draftRest, "rest", "", "rest between sets in seconds (default 60)")

	draftCmd.AddCommand(draftShowCmd)
	draftCmd.AddCommand(draftSetCmd)
	draftCmd.AddCommand(draftAddCmd)
	draftCmd.AddCommand(draftRemoveCmd)
	draftCmd.AddCommand(draftClearCmd)
	draftCmd.AddCommand(draftWatchCmd)
	rootCmd.AddCommand(draftCmd)
}
