// ABOUTME: ActiveWorkout and WorkoutRoutine models.
// ABOUTME: ActiveWorkout is the single started session; WorkoutRoutine is a routine stored remotely.
package models

import "time"

// ActiveWorkout is the workout currently in progress. At most one exists.
type ActiveWorkout struct {
	RoutineID     string    `json:"routineId"`
	RoutineName   string    `json:"routineName"`
	ExerciseCount int       `json:"exerciseCount"`
	Duration      int       `json:"duration"` // minutes
	StartedAt     time.Time `json:"startedAt"`
}

// NewActiveWorkout creates an ActiveWorkout started now.
func NewActiveWorkout(routineID, routineName string, exerciseCount, duration int) *ActiveWorkout {
	return &ActiveWorkout{
		RoutineID:     routineID,
		RoutineName:   routineName,
		ExerciseCount: exerciseCount,
		Duration:      duration,
		StartedAt:     Now(),
	}
}

// Elapsed returns how long the workout has been running at t.
func (w *ActiveWorkout) Elapsed(t time.Time) time.Duration {
	if t.Before(w.StartedAt) {
		return 0
	}
	return t.Sub(w.StartedAt)
}

// WorkoutRoutine is a routine as known to the remote backend.
type WorkoutRoutine struct {
	ID          *int64            `json:"id,omitempty"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Duration    string            `json:"duration"`
	Exercises   []RoutineExercise `json:"exercises"`
	CreatedAt   string            `json:"createdAt,omitempty"`
	UpdatedAt   string            `json:"updatedAt,omitempty"`
}
