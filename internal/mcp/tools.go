// ABOUTME: MCP tool implementations for routines.
// ABOUTME: Exposes catalog search, draft editing, submission, explore and workout tracking.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/routines/internal/api"
	"github.com/harperreed/routines/internal/catalog"
	"github.com/harperreed/routines/internal/draft"
	"github.com/harperreed/routines/internal/models"
	"github.com/harperreed/routines/internal/observability"
)

func (s *Server) registerTools() {
	// list_exercises
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_exercises",
		Description: "List exercises from the catalog, optionally filtered by name, muscle or type",
	}, s.handleListExercises)

	// get_draft
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_draft",
		Description: "Show the draft routine being composed",
	}, s.handleGetDraft)

	// update_draft
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_draft",
		Description: "Set the draft routine name, description or duration",
	}, s.handleUpdateDraft)

	// add_exercise
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_exercise",
		Description: "Add a catalog exercise to the draft routine with sets, reps and rest time",
	}, s.handleAddExercise)

	// remove_exercise
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "remove_exercise",
		Description: "Remove an exercise from the draft routine by position",
	}, s.handleRemoveExercise)

	// clear_draft
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "clear_draft",
		Description: "Discard the draft routine",
	}, s.handleClearDraft)

	// submit_routine
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "submit_routine",
		Description: "Save the draft routine to the backend and clear it locally",
	}, s.handleSubmitRoutine)

	// explore_routines
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "explore_routines",
		Description: "List routines stored on the backend, optionally filtered by a search term",
	}, s.handleExploreRoutines)

	// start_workout
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "start_workout",
		Description: "Start a workout for a routine, replacing any running one",
	}, s.handleStartWorkout)

	// finish_workout
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "finish_workout",
		Description: "Finish the running workout",
	}, s.handleFinishWorkout)

	// active_workout
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "active_workout",
		Description: "Show the running workout and how long it has been going",
	}, s.handleActiveWorkout)

	// stats
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "stats",
		Description: "Show catalog, autosave, submission and workout counters for this server",
	}, s.handleStats)
}

// Tool input/output types

type emptyInput struct{}

type listExercisesInput struct {
	Search  string `json:"search,omitempty" jsonschema:"Case-insensitive substring of the exercise name"`
	Muscle  string `json:"muscle,omitempty" jsonschema:"Primary muscle, e.g. Chest"`
	Type    string `json:"type,omitempty" jsonschema:"Exercise type, e.g. Bodyweight"`
	Refresh bool   `json:"refresh,omitempty" jsonschema:"Drop the local cache and fetch the catalog again"`
	Limit   int    `json:"limit,omitempty" jsonschema:"Max results (default 50)"`
}

type listExercisesOutput struct {
	Source    string            `json:"source"`
	Total     int               `json:"total"`
	Exercises []models.Exercise `json:"exercises"`
}

type draftEntry struct {
	Position int    `json:"position"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Muscle   string `json:"muscle"`
	Sets     int    `json:"sets"`
	Reps     int    `json:"reps"`
	RestTime int    `json:"rest_time"`
}

type draftOutput struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Duration    string       `json:"duration"`
	Exercises   []draftEntry `json:"exercises"`
	Message     string       `json:"message,omitempty"`
}

type updateDraftInput struct {
	Name        *string `json:"name,omitempty" jsonschema:"Routine name"`
	Description *string `json:"description,omitempty" jsonschema:"Routine description"`
	Duration    *string `json:"duration,omitempty" jsonschema:"Routine duration as typed, e.g. 45"`
}

type addExerciseInput struct {
	Name     string `json:"name" jsonschema:"Exercise name from the catalog"`
	Sets     string `json:"sets,omitempty" jsonschema:"Sets (default 3)"`
	Reps     string `json:"reps,omitempty" jsonschema:"Reps (default 10)"`
	RestTime string `json:"rest_time,omitempty" jsonschema:"Rest between sets in seconds (default 60)"`
}

type removeExerciseInput struct {
	Position int `json:"position" jsonschema:"1-based position in the draft"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type submitOutput struct {
	RoutineID int64  `json:"routine_id,omitempty"`
	Linked    int    `json:"linked"`
	Message   string `json:"message"`
}

type exploreInput struct {
	Search string `json:"search,omitempty" jsonschema:"Case-insensitive substring of the routine name or description"`
}

type routineEntry struct {
	Name     string `json:"name"`
	Sets     int    `json:"sets"`
	Reps     int    `json:"reps"`
	RestTime int    `json:"rest_time"`
}

type routineOutput struct {
	ID          *int64         `json:"id,omitempty"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Duration    string         `json:"duration"`
	Exercises   []routineEntry `json:"exercises"`
	CreatedAt   string         `json:"created_at,omitempty"`
	UpdatedAt   string         `json:"updated_at,omitempty"`
}

type exploreOutput struct {
	Total    int             `json:"total"`
	Routines []routineOutput `json:"routines"`
	Message  string          `json:"message,omitempty"`
}

type startWorkoutInput struct {
	RoutineID     string `json:"routine_id" jsonschema:"Backend routine id"`
	RoutineName   string `json:"routine_name" jsonschema:"Routine name"`
	ExerciseCount int    `json:"exercise_count,omitempty" jsonschema:"Number of exercises in the routine"`
	Duration      int    `json:"duration,omitempty" jsonschema:"Planned duration in minutes"`
}

type workoutOutput struct {
	Active         bool   `json:"active"`
	RoutineID      string `json:"routine_id,omitempty"`
	RoutineName    string `json:"routine_name,omitempty"`
	ExerciseCount  int    `json:"exercise_count,omitempty"`
	Duration       int    `json:"duration,omitempty"`
	StartedAt      string `json:"started_at,omitempty"`
	ElapsedMinutes int    `json:"elapsed_minutes,omitempty"`
	Message        string `json:"message,omitempty"`
}

// Tool handlers

func (s *Server) handleListExercises(ctx context.Context, req *mcp.CallToolRequest, input listExercisesInput) (*mcp.CallToolResult, listExercisesOutput, error) {
	if input.Limit <= 0 {
		input.Limit = 50
	}

	var (
		all    []models.Exercise
		source catalog.Source
	)
	if input.Refresh {
		all, source = s.svc.Catalog.Refresh(ctx)
	} else {
		all, source = s.svc.Catalog.LoadFrom(ctx)
	}

	matched := catalog.Filter(all, catalog.Query{Search: input.Search, Muscle: input.Muscle, Type: input.Type})
	out := listExercisesOutput{Source: string(source), Total: len(matched), Exercises: matched}
	if len(matched) > input.Limit {
		out.Exercises = matched[:input.Limit]
	}
	if out.Exercises == nil {
		out.Exercises = []models.Exercise{}
	}
	return nil, out, nil
}

func (s *Server) handleGetDraft(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, draftOutput, error) {
	return nil, toDraftOutput(s.syncDraft(ctx), ""), nil
}

func (s *Server) handleUpdateDraft(ctx context.Context, req *mcp.CallToolRequest, input updateDraftInput) (*mcp.CallToolResult, draftOutput, error) {
	if input.Name == nil && input.Description == nil && input.Duration == nil {
		return nil, draftOutput{}, errors.New("nothing to update: pass name, description or duration")
	}

	state := s.syncDraft(ctx)
	if input.Name != nil {
		state = s.svc.Drafts.UpdateName(*input.Name)
	}
	if input.Description != nil {
		state = s.svc.Drafts.UpdateDescription(*input.Description)
	}
	if input.Duration != nil {
		state = s.svc.Drafts.UpdateDuration(*input.Duration)
	}
	s.svc.Drafts.Flush()

	return nil, toDraftOutput(state, "Draft updated"), nil
}

func (s *Server) handleAddExercise(ctx context.Context, req *mcp.CallToolRequest, input addExerciseInput) (*mcp.CallToolResult, draftOutput, error) {
	s.syncDraft(ctx)
	if state := s.svc.Drafts.BeginSelection(); !state.ShowExerciseSelection {
		return nil, draftOutput{}, errors.New(s.svc.Drafts.TakeMessage())
	}

	e, ok := catalog.Find(s.svc.Catalog.Load(ctx), input.Name)
	if !ok {
		s.svc.Drafts.CancelSelection()
		return nil, draftOutput{}, fmt.Errorf("exercise not in catalog: %s", input.Name)
	}

	s.svc.Drafts.AddExercise(e, input.Sets, input.Reps, input.RestTime)
	state := s.svc.Drafts.FinishSelection()
	s.svc.Drafts.Flush()

	return nil, toDraftOutput(state, s.svc.Drafts.TakeMessage()), nil
}

func (s *Server) handleRemoveExercise(ctx context.Context, req *mcp.CallToolRequest, input removeExerciseInput) (*mcp.CallToolResult, draftOutput, error) {
	state := s.syncDraft(ctx)
	if input.Position < 1 || input.Position > len(state.Exercises) {
		return nil, draftOutput{}, fmt.Errorf("no exercise at position %d (draft has %d)", input.Position, len(state.Exercises))
	}

	name := state.Exercises[input.Position-1].Exercise.Name
	state = s.svc.Drafts.RemoveExercise(input.Position - 1)
	s.svc.Drafts.Flush()

	return nil, toDraftOutput(state, fmt.Sprintf("Removed %s", name)), nil
}

func (s *Server) handleClearDraft(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, simpleOutput, error) {
	s.syncDraft(ctx)
	if err := s.svc.Drafts.Clear(ctx); err != nil {
		return nil, simpleOutput{}, err
	}
	return nil, simpleOutput{Message: "Draft cleared"}, nil
}

func (s *Server) handleSubmitRoutine(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, submitOutput, error) {
	state := s.syncDraft(ctx)

	res, err := s.svc.Submitter.Submit(ctx, state.Draft(), nil)
	if err != nil {
		return nil, submitOutput{}, errors.New(res.Message)
	}
	return nil, submitOutput{RoutineID: res.RoutineID, Linked: res.Linked, Message: res.Message}, nil
}

func (s *Server) handleExploreRoutines(ctx context.Context, req *mcp.CallToolRequest, input exploreInput) (*mcp.CallToolResult, exploreOutput, error) {
	if s.svc.Routines == nil {
		return nil, exploreOutput{}, errors.New("routine backend is not configured")
	}

	routines, err := s.svc.Routines.ListWorkoutRoutines(ctx)
	if err != nil {
		return nil, exploreOutput{}, fmt.Errorf("failed to list routines: %w", err)
	}
	routines = api.FilterRoutines(routines, input.Search)

	out := toExploreOutput(routines)
	if len(routines) == 0 {
		out.Message = "No routines found."
	}
	return nil, out, nil
}

func (s *Server) handleStartWorkout(ctx context.Context, req *mcp.CallToolRequest, input startWorkoutInput) (*mcp.CallToolResult, workoutOutput, error) {
	if input.RoutineID == "" || input.RoutineName == "" {
		return nil, workoutOutput{}, errors.New("routine_id and routine_name are required")
	}
	if !s.svc.Workouts.Start(ctx, input.RoutineID, input.RoutineName, input.ExerciseCount, input.Duration) {
		return nil, workoutOutput{}, errors.New("failed to start workout")
	}

	out := toWorkoutOutput(s.svc.Workouts.Active(ctx), time.Now())
	out.Message = fmt.Sprintf("Started %s", input.RoutineName)
	return nil, out, nil
}

func (s *Server) handleFinishWorkout(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, simpleOutput, error) {
	active := s.svc.Workouts.Active(ctx)
	if !s.svc.Workouts.Finish(ctx) {
		return nil, simpleOutput{}, errors.New("failed to finish workout")
	}
	if active == nil {
		return nil, simpleOutput{Message: "No workout running"}, nil
	}
	return nil, simpleOutput{
		Message: fmt.Sprintf("Finished %s after %d min", active.RoutineName, int(active.Elapsed(time.Now()).Minutes())),
	}, nil
}

func (s *Server) handleActiveWorkout(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, workoutOutput, error) {
	return nil, toWorkoutOutput(s.svc.Workouts.Active(ctx), time.Now()), nil
}

func (s *Server) handleStats(ctx context.Context, req *mcp.CallToolRequest, input emptyInput) (*mcp.CallToolResult, any, error) {
	if s.svc.Gatherer == nil {
		return nil, map[string]interface{}{"message": "Metrics are disabled."}, nil
	}
	samples, err := observability.Snapshot(s.svc.Gatherer)
	if err != nil {
		return nil, nil, err
	}
	if len(samples) == 0 {
		return nil, map[string]interface{}{"message": "No activity recorded yet."}, nil
	}
	return nil, samples, nil
}

func toDraftOutput(state draft.State, msg string) draftOutput {
	out := draftOutput{
		Name:        state.Name,
		Description: state.Description,
		Duration:    state.Duration,
		Exercises:   make([]draftEntry, 0, len(state.Exercises)),
		Message:     msg,
	}
	for i, re := range state.Exercises {
		out.Exercises = append(out.Exercises, draftEntry{
			Position: i + 1,
			Name:     re.Exercise.Name,
			Type:     re.Exercise.Type,
			Muscle:   re.Exercise.Muscle,
			Sets:     re.Sets,
			Reps:     re.Reps,
			RestTime: re.RestTime,
		})
	}
	return out
}

func toExploreOutput(routines []models.WorkoutRoutine) exploreOutput {
	out := exploreOutput{Total: len(routines), Routines: make([]routineOutput, 0, len(routines))}
	for _, r := range routines {
		ro := routineOutput{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			Duration:    r.Duration,
			Exercises:   make([]routineEntry, 0, len(r.Exercises)),
			CreatedAt:   r.CreatedAt,
			UpdatedAt:   r.UpdatedAt,
		}
		for _, re := range r.Exercises {
			ro.Exercises = append(ro.Exercises, routineEntry{
				Name:     re.Exercise.Name,
				Sets:     re.Sets,
				Reps:     re.Reps,
				RestTime: re.RestTime,
			})
		}
		out.Routines = append(out.Routines, ro)
	}
	return out
}

func toWorkoutOutput(w *models.ActiveWorkout, now time.Time) workoutOutput {
	if w == nil {
		return workoutOutput{Active: false, Message: "No workout running"}
	}
	return workoutOutput{
		Active:         true,
		RoutineID:      w.RoutineID,
		RoutineName:    w.RoutineName,
		ExerciseCount:  w.ExerciseCount,
		Duration:       w.Duration,
		StartedAt:      w.StartedAt.Format(time.RFC3339),
		ElapsedMinutes: int(w.Elapsed(now).Minutes()),
	}
}
