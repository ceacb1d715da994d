// ABOUTME: Tests for DTO mapping and routine grouping.
// ABOUTME: Grouping keeps first-seen routine order and skips links without a routine id.
package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/routines/internal/models"
)

func id(v int64) *int64 { return &v }

func TestGroupRoutines(t *testing.T) {
	legs := WorkoutRoutineDTO{ID: id(2), Name: "Legs"}
	push := WorkoutRoutineDTO{ID: id(1), Name: "Push", Description: "chest day"}

	links := []RoutineExerciseDTO{
		{ID: 10, WorkoutRoutine: legs, Exercise: ExerciseDTO{Name: "Squats"}, Sets: 3, Reps: 10, RestTime: 60},
		{ID: 11, WorkoutRoutine: push, Exercise: ExerciseDTO{Name: "Bench Press", ID: id(7)}, Sets: 4, Reps: 8, RestTime: 90},
		{ID: 12, WorkoutRoutine: legs, Exercise: ExerciseDTO{Name: "Deadlift"}, Sets: 5, Reps: 5, RestTime: 120},
		{ID: 13, WorkoutRoutine: WorkoutRoutineDTO{Name: "orphan"}},
	}

	routines := GroupRoutines(links)
	require.Len(t, routines, 2)
	assert.Equal(t, "Legs", routines[0].Name)
	assert.Equal(t, "Push", routines[1].Name)
	require.Len(t, routines[0].Exercises, 2)
	assert.Equal(t, "Deadlift", routines[0].Exercises[1].Exercise.Name)
	assert.Equal(t, int64(7), *routines[1].Exercises[0].Exercise.RemoteID)
}

func TestFilterRoutines(t *testing.T) {
	routines := []models.WorkoutRoutine{
		{Name: "Leg Day"},
		{Name: "Push", Description: "Chest and triceps"},
	}

	assert.Len(t, FilterRoutines(routines, ""), 2)
	assert.Len(t, FilterRoutines(routines, "LEG"), 1)
	assert.Equal(t, "Push", FilterRoutines(routines, "chest")[0].Name)
	assert.Empty(t, FilterRoutines(routines, "yoga"))
}

func TestNewCreateExerciseRequest(t *testing.T) {
	e := models.Exercise{Name: "Plank", Type: "Bodyweight", Muscle: "Core", Equipment: "None", Difficulty: "Beginner", Instructions: "Hold"}
	req := NewCreateExerciseRequest(e)
	assert.Equal(t, CreateExerciseRequest{
		Name: "Plank", Type: "Bodyweight", Muscle: "Core", Equipment: "None", Difficulty: "Beginner", Instructions: "Hold",
	}, req)
}
