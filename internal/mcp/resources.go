// ABOUTME: MCP resource implementations for routines.
// ABOUTME: Provides routines://draft, routines://exercises and routines://summary resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/routines/internal/models"
)

const (
	draftURI     = "routines://draft"
	exercisesURI = "routines://exercises"
	summaryURI   = "routines://summary"
)

func (s *Server) registerResources() {
	// routines://draft - The stored draft routine
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         draftURI,
		Name:        "Draft Routine",
		Description: "The routine being composed, as stored locally",
		MIMEType:    "application/json",
	}, s.handleDraftResource)

	// routines://exercises - The cached exercise catalog
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         exercisesURI,
		Name:        "Cached Exercises",
		Description: "Exercise catalog currently held in the local cache",
		MIMEType:    "application/json",
	}, s.handleExercisesResource)

	// routines://summary - Draft, cache and workout at a glance
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         summaryURI,
		Name:        "Routines Summary",
		Description: "Draft size, cache size and the running workout",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)
}

// Resource handlers

func (s *Server) handleDraftResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	d, err := s.svc.Repo.GetDraftOnce(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read draft: %w", err)
	}

	return jsonResource(draftURI, map[string]interface{}{"draft": d})
}

func (s *Server) handleExercisesResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	cached, err := s.svc.Repo.GetAllCachedExercises(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read exercise cache: %w", err)
	}

	exercises := models.ExercisesOf(cached)
	if exercises == nil {
		exercises = []models.Exercise{}
	}
	result := map[string]interface{}{
		"count":     len(exercises),
		"exercises": exercises,
	}
	return jsonResource(exercisesURI, result)
}

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	d, err := s.svc.Repo.GetDraftOnce(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read draft: %w", err)
	}
	count, err := s.svc.Repo.GetCacheCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count exercise cache: %w", err)
	}
	active, err := s.svc.Repo.GetActiveWorkout(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read active workout: %w", err)
	}

	draftSummary := map[string]interface{}{"exists": d != nil}
	if d != nil {
		draftSummary["name"] = d.Name
		draftSummary["exercise_count"] = len(d.Exercises)
		draftSummary["last_modified"] = d.LastModified.Format(time.RFC3339)
	}

	result := map[string]interface{}{
		"generated_at":          time.Now().Format(time.RFC3339),
		"draft":                 draftSummary,
		"cached_exercise_count": count,
		"active_workout":        toWorkoutOutput(active, time.Now()),
	}
	return jsonResource(summaryURI, result)
}

func jsonResource(uri string, v interface{}) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
