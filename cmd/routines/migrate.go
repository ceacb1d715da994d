// ABOUTME: CLI command for migrating routine data between storage backends.
// ABOUTME: Copies the draft, exercise cache and active workout from the current backend to another.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/routines/internal/config"
	"github.com/harperreed/routines/internal/storage"
)

var (
	migrateTo     string
	migrateDryRun bool
	migrateForce  bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy local data to another storage backend",
	Long: `Copy the draft, the exercise cache and the active workout from the
configured backend to another one.

BACKENDS:

  sqlite   ~/.local/share/routines/routines.db (default)
  charm    Charm KV, synced across devices

The destination is refused when it already holds data, unless --force is
given. Afterwards set "backend" in ~/.config/routines/config.json (or
ROUTINES_BACKEND) to switch.

EXAMPLES:

  routines migrate --to charm --dry-run   # Preview what would be copied
  routines migrate --to charm             # Copy to Charm KV`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		to := strings.ToLower(strings.TrimSpace(migrateTo))
		if to != config.BackendSQLite && to != config.BackendCharm {
			return fmt.Errorf("unknown backend: %q (use sqlite or charm)", migrateTo)
		}
		if to == cfg.GetBackend() {
			return fmt.Errorf("already using the %s backend", to)
		}

		data, err := storage.GetAllData(ctx, repo)
		if err != nil {
			return fmt.Errorf("failed to read source: %w", err)
		}

		if migrateDryRun {
			color.New(color.FgYellow).Fprintln(out, "Dry run mode - no changes will be made")
			fmt.Fprintf(out, "\nWould copy from %s to %s:\n", cfg.GetBackend(), to)
			printMigrateCounts(cmd, data.Draft != nil, len(data.Exercises), data.ActiveWorkout != nil)
			return nil
		}

		dstCfg := *cfg
		dstCfg.Backend = to
		dst, err := dstCfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", to, err)
		}
		defer dst.Close()

		if !migrateForce {
			existing, err := storage.GetAllData(ctx, dst)
			if err != nil {
				return fmt.Errorf("failed to read destination: %w", err)
			}
			if existing.Draft != nil || len(existing.Exercises) > 0 || existing.ActiveWorkout != nil {
				return fmt.Errorf("destination %s already has data (use --force to overwrite)", to)
			}
		}

		summary, err := storage.MigrateData(ctx, repo, dst)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		color.New(color.FgGreen).Fprintf(out, "✓ Migrated from %s to %s\n", cfg.GetBackend(), to)
		printMigrateCounts(cmd, summary.Draft, summary.Exercises, summary.ActiveWorkout)
		fmt.Fprintf(out, "\nSet \"backend\": %q in %s to switch.\n", to, config.GetConfigPath())
		return nil
	},
}

func printMigrateCounts(cmd *cobra.Command, draft bool, exercises int, active bool) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "  Draft:          %s\n", yesNo(draft))
	fmt.Fprintf(out, "  Exercises:      %d\n", exercises)
	fmt.Fprintf(out, "  Active workout: %s\n", yesNo(active))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "destination backend (sqlite or charm)")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "copy even when the destination already has data")
	_ = migrateCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(migrateCmd)
}
