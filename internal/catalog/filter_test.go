// ABOUTME: Tests for catalog filtering and facets.
// ABOUTME: Runs against the demo list so expectations stay readable.
package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harperreed/routines/internal/models"
)

func names(list []models.Exercise) []string {
	var out []string
	for _, e := range list {
		out = append(out, e.Name)
	}
	return out
}

func TestFilter(t *testing.T) {
	demo := DemoExercises()

	tests := []struct {
		name string
		q    Query
		want []string
	}{
		{"empty query", Query{}, []string{"Push-ups", "Squats", "Plank", "Bench Press", "Deadlift"}},
		{"search", Query{Search: "PRESS"}, []string{"Bench Press"}},
		{"muscle", Query{Muscle: "chest"}, []string{"Push-ups", "Bench Press"}},
		{"type", Query{Type: "barbell"}, []string{"Bench Press", "Deadlift"}},
		{"combined", Query{Search: "u", Muscle: "Chest", Type: "Bodyweight"}, []string{"Push-ups"}},
		{"no match", Query{Muscle: "Calves"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(Filter(demo, tt.q)))
		})
	}
}

func TestFind(t *testing.T) {
	e, ok := Find(DemoExercises(), "deadlift")
	assert.True(t, ok)
	assert.Equal(t, "Deadlift", e.Name)

	_, ok = Find(DemoExercises(), "Lunges")
	assert.False(t, ok)
}

func TestUniqueFacets(t *testing.T) {
	demo := DemoExercises()
	assert.Equal(t, []string{"Back", "Chest", "Core", "Legs"}, UniqueMuscles(demo))
	assert.Equal(t, []string{"Barbell", "Bodyweight"}, UniqueTypes(demo))
}
