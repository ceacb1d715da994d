// ABOUTME: Active workout operations for SQLite storage.
// ABOUTME: At most one active workout row exists; starting a new one replaces it.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/harperreed/routines/internal/models"
)

const activeWorkoutRowID = 1

// GetActiveWorkout returns the active workout, or nil when none is running.
func (d *DB) GetActiveWorkout(ctx context.Context) (*models.ActiveWorkout, error) {
	var (
		w         models.ActiveWorkout
		startedAt int64
	)
	err := d.db.QueryRowContext(ctx, `
		SELECT routine_id, routine_name, exercise_count, duration, started_at
		FROM active_workout
		WHERE id = ?`, activeWorkoutRowID,
	).Scan(&w.RoutineID, &w.RoutineName, &w.ExerciseCount, &w.Duration, &startedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get active workout: %w", err)
	}

	w.StartedAt = fromMillis(startedAt)
	return &w, nil
}

// StartWorkout stores workout as the active one, replacing any existing row.
func (d *DB) StartWorkout(ctx context.Context, workout models.ActiveWorkout) error {
	if workout.StartedAt.IsZero() {
		workout.StartedAt = models.Now()
	}
	_, err := d.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO active_workout
			(id, routine_id, routine_name, exercise_count, duration, started_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		activeWorkoutRowID, workout.RoutineID, workout.RoutineName,
		workout.ExerciseCount, workout.Duration, toMillis(workout.StartedAt),
	)
	if err != nil {
		return fmt.Errorf("start workout: %w", err)
	}
	return nil
}

// ClearActiveWorkout removes the active workout.
func (d *DB) ClearActiveWorkout(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM active_workout"); err != nil {
		return fmt.Errorf("clear active workout: %w", err)
	}
	return nil
}

// HasActiveWorkout reports whether a workout is running.
func (d *DB) HasActiveWorkout(ctx context.Context) (bool, error) {
	var exists bool
	if err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) > 0 FROM active_workout").Scan(&exists); err != nil {
		return false, fmt.Errorf("has active workout: %w", err)
	}
	return exists, nil
}
