// ABOUTME: Tests for Exercise and RoutineExercise models.
// ABOUTME: Validates input parsing defaults and name matching.
package models

import (
	"testing"
)

func TestNewRoutineExercise(t *testing.T) {
	squats := Exercise{Name: "Squats", Type: "Bodyweight", Muscle: "Legs"}

	tests := []struct {
		name                 string
		sets, reps, restTime string
		want                 RoutineExercise
	}{
		{"parsed", "4", "8", "90", RoutineExercise{squats, 4, 8, 90}},
		{"padded", " 5 ", "12", "45", RoutineExercise{squats, 5, 12, 45}},
		{"garbage falls back", "x", "", "-1", RoutineExercise{squats, DefaultSets, DefaultReps, DefaultRestTime}},
		{"zero falls back", "0", "0", "0", RoutineExercise{squats, DefaultSets, DefaultReps, DefaultRestTime}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewRoutineExercise(squats, tt.sets, tt.reps, tt.restTime)
			if got != tt.want {
				t.Errorf("NewRoutineExercise = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExerciseSameName(t *testing.T) {
	a := Exercise{Name: "Bench Press"}
	if !a.SameName(Exercise{Name: " bench press"}) {
		t.Error("expected case-insensitive match")
	}
	if a.SameName(Exercise{Name: "Incline Bench Press"}) {
		t.Error("expected different names not to match")
	}
}

func TestExerciseWithRemoteID(t *testing.T) {
	e := Exercise{Name: "Plank"}.WithRemoteID(42)
	if e.RemoteID == nil || *e.RemoteID != 42 {
		t.Errorf("RemoteID = %v, want 42", e.RemoteID)
	}
}

func TestExercisesOf(t *testing.T) {
	rows := []CachedExercise{
		{ID: 1, Exercise: Exercise{Name: "Plank"}},
		{ID: 2, Exercise: Exercise{Name: "Squats"}},
	}
	got := ExercisesOf(rows)
	if len(got) != 2 || got[0].Name != "Plank" || got[1].Name != "Squats" {
		t.Errorf("ExercisesOf = %+v", got)
	}
}
