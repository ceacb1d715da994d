// ABOUTME: Tests for the active workout manager.
// ABOUTME: Runs against a real SQLite store and a failing stub.
package workout

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/routines/internal/models"
	"github.com/harperreed/routines/internal/observability"
	"github.com/harperreed/routines/internal/storage"
)

func setupManager(t *testing.T) (*Manager, *observability.Metrics) {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "routines.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	metrics := observability.NewTestMetrics()
	return NewManager(db, metrics), metrics
}

func TestStartAndFinish(t *testing.T) {
	m, metrics := setupManager(t)
	ctx := context.Background()

	assert.False(t, m.HasActive(ctx))
	assert.Nil(t, m.Active(ctx))

	require.True(t, m.Start(ctx, "7", "Leg Day", 3, 45))
	assert.True(t, m.HasActive(ctx))

	w := m.Active(ctx)
	require.NotNil(t, w)
	assert.Equal(t, "7", w.RoutineID)
	assert.Equal(t, "Leg Day", w.RoutineName)
	assert.Equal(t, 3, w.ExerciseCount)
	assert.Equal(t, 45, w.Duration)
	assert.False(t, w.StartedAt.IsZero())

	require.True(t, m.Finish(ctx))
	assert.False(t, m.HasActive(ctx))
	assert.True(t, m.Finish(ctx))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CounterWorkoutEvents.WithLabelValues(observability.EventStart, observability.ResultOK)))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.CounterWorkoutEvents.WithLabelValues(observability.EventFinish, observability.ResultOK)))
}

func TestStartReplacesRunningWorkout(t *testing.T) {
	m, _ := setupManager(t)
	ctx := context.Background()

	require.True(t, m.Start(ctx, "1", "Push", 4, 30))
	require.True(t, m.Start(ctx, "2", "Pull", 5, 40))

	w := m.Active(ctx)
	require.NotNil(t, w)
	assert.Equal(t, "Pull", w.RoutineName)
}

type brokenStore struct{}

var errBroken = errors.New("store unavailable")

func (brokenStore) GetActiveWorkout(context.Context) (*models.ActiveWorkout, error) {
	return nil, errBroken
}
func (brokenStore) StartWorkout(context.Context, models.ActiveWorkout) error { return errBroken }
func (brokenStore) ClearActiveWorkout(context.Context) error                 { return errBroken }
func (brokenStore) HasActiveWorkout(context.Context) (bool, error)           { return false, errBroken }

func TestErrorsBecomeFalse(t *testing.T) {
	metrics := observability.NewTestMetrics()
	m := NewManager(brokenStore{}, metrics)
	ctx := context.Background()

	assert.False(t, m.Start(ctx, "1", "Push", 4, 30))
	assert.False(t, m.Finish(ctx))
	assert.Nil(t, m.Active(ctx))
	assert.False(t, m.HasActive(ctx))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CounterWorkoutEvents.WithLabelValues(observability.EventStart, observability.ResultError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CounterWorkoutEvents.WithLabelValues(observability.EventFinish, observability.ResultError)))
}
