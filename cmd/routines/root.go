// ABOUTME: Root Cobra command for routines CLI.
// ABOUTME: Loads config, sets up logging and wires storage and services in PersistentPreRunE.
package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/harperreed/routines/internal/api"
	"github.com/harperreed/routines/internal/auth"
	"github.com/harperreed/routines/internal/catalog"
	"github.com/harperreed/routines/internal/config"
	"github.com/harperreed/routines/internal/directory"
	"github.com/harperreed/routines/internal/draft"
	"github.com/harperreed/routines/internal/logging"
	"github.com/harperreed/routines/internal/observability"
	"github.com/harperreed/routines/internal/storage"
	"github.com/harperreed/routines/internal/submit"
	"github.com/harperreed/routines/internal/workout"
)

// skipStorage marks commands that run without opening the local store.
const skipStorage = "skip-storage"

var (
	cfg       *config.Config
	repo      storage.Repository
	registry  *prometheus.Registry
	metrics   *observability.Metrics
	creds     *auth.Store
	apiClient *api.Client
	loader    *catalog.Loader
	drafts    *draft.Controller
	submitter *submit.Workflow
	workouts  *workout.Manager

	showStats bool
)

var rootCmd = &cobra.Command{
	Use:   "routines",
	Short: "Compose workout routines and save them to your backend",
	Long: `Routines is a CLI tool for composing workout routines.

A draft routine is kept locally and saved on every edit, so it survives
between runs. When it is ready, submit it to the routine backend.

QUICK START:

  $ routines auth login --token <token> --username ana
  $ routines exercises list --muscle legs      # Browse the exercise catalog
  $ routines draft set --name "Leg Day" --duration 45
  $ routines draft add Squats --sets 4 --reps 8
  $ routines draft show
  $ routines submit                            # Save the routine remotely

EXPLORE AND TRAIN:

  $ routines explore legs                      # Routines on the backend
  $ routines workout start 12 "Leg Day"        # Track a running workout
  $ routines workout finish

EXERCISE CATALOG:

  The catalog is cached locally. The first load fetches it from the exercise
  directory; if that fails a small built-in list is shown instead.

  $ routines exercises refresh                 # Drop the cache and fetch again

MCP INTEGRATION:

  Run 'routines mcp' to start the Model Context Protocol server for use with
  Claude Desktop or other MCP-compatible AI assistants.

CONFIGURATION:

  ~/.config/routines/config.json, overridden by ROUTINES_* environment
  variables (ROUTINES_BACKEND, ROUTINES_DATA_DIR, ROUTINES_API_URL, ...).
  Data is stored in SQLite at ~/.local/share/routines/routines.db by default,
  or in Charm KV with "backend": "charm".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}
		return setup(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if drafts != nil {
			drafts.Flush()
		}
		if showStats && registry != nil {
			return printStats(cmd.OutOrStdout())
		}
		return nil
	},
}

// Execute runs the root command and releases resources afterwards.
func Execute() error {
	err := rootCmd.Execute()
	return multierr.Append(err, shutdown())
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&showStats, "stats", false, "print activity counters after the command")
}

func setup(cmd *cobra.Command) error {
	c, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg = c
	logging.Setup(cfg.LoggerParams())

	registry = prometheus.NewRegistry()
	metrics = observability.NewMetrics(registry)

	creds = auth.NewStore(auth.DefaultPath())
	httpClient := cfg.HTTPClient()
	apiClient = api.NewClient(cfg.GetAPIURL(), httpClient, creds.Token)

	if cmd.Annotations[skipStorage] == "true" {
		return nil
	}

	repo, err = cfg.OpenStorage()
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}

	loader = catalog.NewLoader(repo, directory.NewClient(cfg.GetDirectoryURL(), httpClient), metrics)
	drafts = draft.NewController(repo, metrics)
	drafts.SetAuthenticated(creds.Current() != nil)
	submitter = submit.NewWorkflow(apiClient, creds, drafts, metrics)
	workouts = workout.NewManager(repo, metrics)
	return nil
}

// shutdown waits for pending draft saves and closes the store.
func shutdown() error {
	if drafts != nil {
		drafts.Flush()
		drafts = nil
	}
	var err error
	if repo != nil {
		err = repo.Close()
		repo = nil
	}
	return err
}

func printStats(w io.Writer) error {
	samples, err := observability.Snapshot(registry)
	if err != nil {
		return err
	}

	fmt.Fprintln(w)
	color.New(color.Bold).Fprintln(w, "Activity")
	if len(samples) == 0 {
		fmt.Fprintln(w, "  No activity recorded.")
		return nil
	}
	for _, s := range samples {
		fmt.Fprintf(w, "  %s\n", s)
	}
	return nil
}
