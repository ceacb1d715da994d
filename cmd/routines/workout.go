// ABOUTME: CLI commands for tracking the active workout.
// ABOUTME: Only one workout runs at a time; start replaces any running one.
package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	workoutExercises int
	workoutDuration  int
)

var workoutCmd = &cobra.Command{
	Use:     "workout",
	Aliases: []string{"w"},
	Short:   "Track the active workout",
	Long: `Track the workout you are doing right now.

COMMANDS:

  start    Start a workout for a routine
  finish   Finish the active workout
  status   Show the active workout

EXAMPLES:

  routines workout start 12 "Leg Day" --exercises 5 --duration 45
  routines workout status
  routines workout finish`,
}

var workoutStartCmd = &cobra.Command{
	Use:   "start <routine-id> <routine name>",
	Short: "Start a workout",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !workouts.Start(cmd.Context(), args[0], args[1], workoutExercises, workoutDuration) {
			return fmt.Errorf("failed to start workout")
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Started %s\n", args[1])
		return nil
	},
}

var workoutFinishCmd = &cobra.Command{
	Use:   "finish",
	Short: "Finish the active workout",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		w := workouts.Active(ctx)
		if w == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No active workout.")
			return nil
		}
		if !workouts.Finish(ctx) {
			return fmt.Errorf("failed to finish workout")
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Finished %s after %s\n",
			w.RoutineName, w.Elapsed(time.Now()).Round(time.Second))
		return nil
	},
}

var workoutStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active workout",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		w := workouts.Active(cmd.Context())
		if w == nil {
			fmt.Fprintln(out, "No active workout.")
			return nil
		}

		color.New(color.Bold).Fprintln(out, w.RoutineName)
		fmt.Fprintf(out, "  Routine:   %s\n", w.RoutineID)
		fmt.Fprintf(out, "  Exercises: %d\n", w.ExerciseCount)
		if w.Duration > 0 {
			fmt.Fprintf(out, "  Planned:   %d min\n", w.Duration)
		}
		fmt.Fprintf(out, "  Started:   %s\n", w.StartedAt.Local().Format("2006-01-02 15:04"))
		fmt.Fprintf(out, "  Elapsed:   %s\n", w.Elapsed(time.Now()).Round(time.Second))
		return nil
	},
}

func init() {
	workoutStartCmd.Flags().IntVar(&workoutExercises, "exercises", 0, "number of exercises in the routine")
	workoutStartCmd.Flags().IntVar(&workoutDuration, "duration", 0, "planned duration in minutes")

	workoutCmd.AddCommand(workoutStartCmd)
	workoutCmd.AddCommand(workoutFinishCmd)
	workoutCmd.AddCommand(workoutStatusCmd)
	rootCmd.AddCommand(workoutCmd)
}
