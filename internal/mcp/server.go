// ABOUTME: MCP server setup for the routines tool.
// ABOUTME: Wraps the MCP server around the draft, catalog, submission and workout components.
package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/harperreed/routines/internal/auth"
	"github.com/harperreed/routines/internal/catalog"
	"github.com/harperreed/routines/internal/draft"
	"github.com/harperreed/routines/internal/models"
	"github.com/harperreed/routines/internal/storage"
	"github.com/harperreed/routines/internal/submit"
	"github.com/harperreed/routines/internal/workout"
)

// RoutineLister lists the routines stored on the backend.
type RoutineLister interface {
	ListWorkoutRoutines(ctx context.Context) ([]models.WorkoutRoutine, error)
}

// SessionSource reports the signed-in session, or nil.
type SessionSource interface {
	Current() *auth.Credentials
}

// Services are the components the server exposes. Routines, Session and
// Gatherer are optional.
type Services struct {
	Repo      storage.Repository
	Catalog   *catalog.Loader
	Drafts    *draft.Controller
	Submitter *submit.Workflow
	Workouts  *workout.Manager
	Routines  RoutineLister
	Session   SessionSource
	Gatherer  prometheus.Gatherer
}

// Server wraps the MCP server with storage access.
type Server struct {
	mcpServer *mcp.Server
	svc       Services
}

// NewServer creates a new MCP server over the given services.
func NewServer(svc Services) (*Server, error) {
	if svc.Repo == nil || svc.Catalog == nil || svc.Drafts == nil || svc.Submitter == nil || svc.Workouts == nil {
		return nil, errors.New("mcp server: repository, catalog, drafts, submitter and workouts are required")
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "routines",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		svc:       svc,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	defer s.svc.Drafts.Flush()
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// syncDraft reloads the stored draft so edits made by other processes are
// seen, and refreshes the session flag.
func (s *Server) syncDraft(ctx context.Context) draft.State {
	s.svc.Drafts.Flush()
	if s.svc.Session != nil {
		s.svc.Drafts.SetAuthenticated(s.svc.Session.Current() != nil)
	}
	return s.svc.Drafts.Load(ctx)
}
