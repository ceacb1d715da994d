// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs the stdio MCP server and optionally serves Prometheus metrics over HTTP.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/harperreed/routines/internal/mcp"
)

var mcpMetricsAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP allows AI assistants like Claude to browse exercises, compose the draft
routine and submit it. The server communicates via stdin/stdout, and shares
the local store with the CLI.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "routines": {
        "command": "routines",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  list_exercises     Browse and filter the exercise catalog
  get_draft          Show the draft routine
  update_draft       Set name, description or duration
  add_exercise       Add a catalog exercise to the draft
  remove_exercise    Remove a draft exercise by position
  clear_draft        Discard the draft
  submit_routine     Save the draft to the backend
  explore_routines   Browse routines on the backend
  start_workout      Start the active workout
  finish_workout     Finish the active workout
  active_workout     Show the active workout
  stats              Activity counters

AVAILABLE RESOURCES:

  routines://draft       The draft routine
  routines://exercises   The cached exercise catalog
  routines://summary     Draft, cache and workout overview

METRICS:

  --metrics-addr :9464 also serves Prometheus metrics at /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(mcp.Services{
			Repo:      repo,
			Catalog:   loader,
			Drafts:    drafts,
			Submitter: submitter,
			Workouts:  workouts,
			Routines:  apiClient,
			Session:   creds,
			Gatherer:  registry,
		})
		if err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		if mcpMetricsAddr != "" {
			go func() {
				if err := serveMetrics(ctx, mcpMetricsAddr, registry); err != nil {
					log.WithError(err).Error("metrics server failed")
				}
			}()
		}

		return server.Serve(ctx)
	},
}

func newMetricsRouter(g prometheus.Gatherer) *mux.Router {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	return r
}

// serveMetrics serves /metrics on addr until ctx is done.
func serveMetrics(ctx context.Context, addr string, g prometheus.Gatherer) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           newMetricsRouter(g),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.WithField("addr", addr).Info("serving metrics")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func init() {
	mcpCmd.Flags().StringVar(&mcpMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	rootCmd.AddCommand(mcpCmd)
}
