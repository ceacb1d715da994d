// ABOUTME: Active workout manager: starts, finishes and reports the single running workout.
// ABOUTME: Storage errors are logged and reported as false or nil, never returned.
package workout

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/harperreed/routines/internal/models"
	"github.com/harperreed/routines/internal/observability"
	"github.com/harperreed/routines/internal/storage"
)

// Manager tracks the active workout.
type Manager struct {
	store   storage.ActiveWorkoutStore
	metrics *observability.Metrics
}

// NewManager creates a manager. metrics may be nil.
func NewManager(store storage.ActiveWorkoutStore, metrics *observability.Metrics) *Manager {
	return &Manager{store: store, metrics: metrics}
}

// Start records a new active workout, replacing any running one.
func (m *Manager) Start(ctx context.Context, routineID, routineName string, exerciseCount, duration int) bool {
	w := models.NewActiveWorkout(routineID, routineName, exerciseCount, duration)
	err := m.store.StartWorkout(ctx, *w)
	m.metrics.WorkoutEvent(observability.EventStart, err == nil)
	if err != nil {
		log.WithError(err).WithField("routine_id", routineID).Warn("starting workout failed")
		return false
	}
	log.WithFields(log.Fields{"routine_id": routineID, "routine": routineName}).Info("workout started")
	return true
}

// Finish ends the active workout. Finishing with none running succeeds.
func (m *Manager) Finish(ctx context.Context) bool {
	err := m.store.ClearActiveWorkout(ctx)
	m.metrics.WorkoutEvent(observability.EventFinish, err == nil)
	if err != nil {
		log.WithError(err).Warn("finishing workout failed")
		return false
	}
	return true
}

// Active returns the running workout, or nil.
func (m *Manager) Active(ctx context.Context) *models.ActiveWorkout {
	w, err := m.store.GetActiveWorkout(ctx)
	if err != nil {
		log.WithError(err).Warn("reading active workout failed")
		return nil
	}
	return w
}

// HasActive reports whether a workout is running.
func (m *Manager) HasActive(ctx context.Context) bool {
	ok, err := m.store.HasActiveWorkout(ctx)
	if err != nil {
		log.WithError(err).Warn("checking active workout failed")
		return false
	}
	return ok
}
