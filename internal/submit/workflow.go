// ABOUTME: Routine submission: resolves exercises, creates the routine and links them in order.
// ABOUTME: Calls are strictly sequential; the first failure stops the run without rollback.
package submit

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/harperreed/routines/internal/api"
	"github.com/harperreed/routines/internal/auth"
	"github.com/harperreed/routines/internal/models"
	"github.com/harperreed/routines/internal/observability"
)

// Backend is the part of the routine API a submission uses.
type Backend interface {
	FindExercisesByName(ctx context.Context, name string) ([]api.ExerciseDTO, error)
	CreateExercise(ctx context.Context, req api.CreateExerciseRequest) (*api.ExerciseDTO, error)
	CreateWorkoutRoutine(ctx context.Context, req api.CreateWorkoutRoutineRequest) (*api.WorkoutRoutineDTO, error)
	CreateRoutineExercise(ctx context.Context, req api.CreateRoutineExerciseRequest) (*api.RoutineExerciseLink, error)
}

// CredentialStore provides the signed-in session.
type CredentialStore interface {
	Current() *auth.Credentials
	Clear() error
}

// DraftClearer removes the local draft once it has been submitted.
type DraftClearer interface {
	Clear(ctx context.Context) error
}

// Result describes how far a submission got.
type Result struct {
	RoutineID int64
	// Linked is the number of routine/exercise links created.
	Linked  int
	Message string
}

// Workflow submits drafts to the backend.
type Workflow struct {
	backend Backend
	creds   CredentialStore
	drafts  DraftClearer
	metrics *observability.Metrics
}

// NewWorkflow creates a workflow. drafts and metrics may be nil.
func NewWorkflow(backend Backend, creds CredentialStore, drafts DraftClearer, metrics *observability.Metrics) *Workflow {
	return &Workflow{backend: backend, creds: creds, drafts: drafts, metrics: metrics}
}

// Validate checks the preconditions of a submission without touching the network.
func Validate(creds *auth.Credentials, draft models.DraftRoutine) error {
	if creds == nil || strings.TrimSpace(creds.Token) == "" {
		return ErrNotAuthenticated
	}
	if strings.TrimSpace(draft.Name) == "" {
		return &ValidationError{Field: "name", Message: MsgNameRequired}
	}
	if len(draft.Exercises) == 0 {
		return &ValidationError{Field: "exercises", Message: MsgNeedExercise}
	}
	return nil
}

// Submit creates the routine described by draft. On success the local draft
// is cleared and onSuccess is called. The returned Result always carries the
// message for the user, also on failure.
func (w *Workflow) Submit(ctx context.Context, draft models.DraftRoutine, onSuccess func()) (Result, error) {
	creds := w.creds.Current()
	if err := Validate(creds, draft); err != nil {
		w.metrics.Submission(observability.ResultInvalid)
		return Result{Message: err.Error()}, err
	}

	logger := log.WithField("routine", draft.Name)
	res, err := w.run(ctx, creds, draft)
	if err != nil {
		w.metrics.Submission(observability.ResultFailed)
		logger.WithError(err).WithField("linked", res.Linked).Warn("routine submission failed")
		res.Message = "Error saving: " + err.Error()

		if isAuthFailure(err) {
			if clearErr := w.creds.Clear(); clearErr != nil {
				err = multierr.Append(err, clearErr)
			}
			return res, multierr.Combine(ErrSessionExpired, err)
		}
		return res, err
	}

	w.metrics.Submission(observability.ResultOK)
	res.Message = fmt.Sprintf("Routine '%s' created with %d exercises", draft.Name, len(draft.Exercises))
	logger.WithFields(log.Fields{"routine_id": res.RoutineID, "linked": res.Linked}).Info("routine submitted")

	if w.drafts != nil {
		if err := w.drafts.Clear(ctx); err != nil {
			logger.WithError(err).Warn("clearing submitted draft failed")
		}
	}
	if onSuccess != nil {
		onSuccess()
	}
	return res, nil
}

func (w *Workflow) run(ctx context.Context, creds *auth.Credentials, draft models.DraftRoutine) (Result, error) {
	var res Result

	ids := make(map[string]int64)
	for _, entry := range draft.Exercises {
		name := entry.Exercise.Name
		if _, ok := ids[name]; ok {
			continue
		}
		id, err := w.resolveExercise(ctx, entry.Exercise)
		if err != nil {
			return res, err
		}
		ids[name] = id
	}

	username := strings.TrimSpace(creds.Username)
	if username == "" {
		return res, ErrNoUsername
	}

	routine, err := w.backend.CreateWorkoutRoutine(ctx, api.CreateWorkoutRoutineRequest{
		Name:        draft.Name,
		Description: draft.Description,
		Duration:    draft.Duration,
		Username:    username,
	})
	if err != nil {
		return res, err
	}
	if routine.ID == nil {
		return res, fmt.Errorf("create routine %q: response has no id", draft.Name)
	}
	res.RoutineID = *routine.ID

	// Each entry is looked up again by name so the link uses whatever id the
	// backend reports now.
	for _, entry := range draft.Exercises {
		found, err := w.backend.FindExercisesByName(ctx, entry.Exercise.Name)
		if err != nil {
			return res, err
		}
		if len(found) == 0 || found[0].ID == nil {
			return res, fmt.Errorf("link %q: %w", entry.Exercise.Name, api.ErrNoExercise)
		}
		if _, err := w.backend.CreateRoutineExercise(ctx, api.CreateRoutineExerciseRequest{
			ExerciseID:       *found[0].ID,
			WorkoutRoutineID: res.RoutineID,
			Sets:             entry.Sets,
			Reps:             entry.Reps,
			RestTime:         entry.RestTime,
		}); err != nil {
			return res, err
		}
		res.Linked++
	}

	return res, nil
}

// resolveExercise returns the backend id of e, creating the exercise when no
// case-insensitive name match exists. A failed lookup counts as not found.
func (w *Workflow) resolveExercise(ctx context.Context, e models.Exercise) (int64, error) {
	found, err := w.backend.FindExercisesByName(ctx, e.Name)
	if err != nil {
		log.WithError(err).WithField("exercise", e.Name).Debug("exercise lookup failed, creating it")
	}
	for _, dto := range found {
		if dto.ID != nil && strings.EqualFold(dto.Name, e.Name) {
			return *dto.ID, nil
		}
	}

	created, err := w.backend.CreateExercise(ctx, api.NewCreateExerciseRequest(e))
	if err != nil {
		return 0, err
	}
	if created.ID == nil {
		return 0, fmt.Errorf("create exercise %q: response has no id", e.Name)
	}
	return *created.ID, nil
}

// isAuthFailure matches a rejected token either by status or by the status
// code appearing in the error text.
func isAuthFailure(err error) bool {
	if api.IsAuthError(err) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "401") || strings.Contains(msg, "403")
}
