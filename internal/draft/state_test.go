// ABOUTME: Tests for the draft reducer.
// ABOUTME: Checks field updates, presentation flags and when persistence is requested.
package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/routines/internal/models"
)

var squats = models.RoutineExercise{
	Exercise: models.Exercise{Name: "Squats", Type: "Bodyweight", Muscle: "Legs"},
	Sets:     3, Reps: 10, RestTime: 60,
}

func loaded() State {
	s, _ := Reduce(NewState(), DraftLoaded{})
	s, _ = Reduce(s, SetAuthenticated{Authenticated: true})
	return s
}

func TestReduceNoPersistBeforeLoaded(t *testing.T) {
	s := NewState()
	s.Authenticated = true

	for _, a := range []Action{SetName{"x"}, SetDescription{"y"}, SetDuration{"30"}, AddExercise{squats}} {
		var effect Effect
		s, effect = Reduce(s, a)
		assert.Equal(t, EffectNone, effect, "%T", a)
	}
	assert.Equal(t, "x", s.Name)
	assert.Len(t, s.Exercises, 1)
}

func TestReducePersistsFieldEditsWhenLoaded(t *testing.T) {
	s := loaded()

	for _, a := range []Action{SetName{"Leg Day"}, SetDescription{"d"}, SetDuration{"45"}, AddExercise{squats}, RemoveExercise{0}} {
		var effect Effect
		s, effect = Reduce(s, a)
		assert.Equal(t, EffectPersist, effect, "%T", a)
	}
	assert.Equal(t, "Leg Day", s.Name)
	assert.Nil(t, s.Exercises)
}

func TestReducePresentationActionsNeverPersist(t *testing.T) {
	s := loaded()
	for _, a := range []Action{ShowSelection{}, FinishSelection{}, HideSelection{}, ConsumeMessage{}, Reset{}, SetAuthenticated{true}} {
		_, effect := Reduce(s, a)
		assert.Equal(t, EffectNone, effect, "%T", a)
	}
}

func TestReduceAddExerciseRequiresAuth(t *testing.T) {
	s, _ := Reduce(NewState(), DraftLoaded{})

	s, effect := Reduce(s, AddExercise{squats})
	assert.Equal(t, EffectNone, effect)
	assert.Empty(t, s.Exercises)
	assert.Equal(t, MsgSignInToAdd, s.Message)

	s, _ = Reduce(s, ShowSelection{})
	assert.False(t, s.ShowExerciseSelection)
}

func TestReduceAddExerciseShowsForm(t *testing.T) {
	s, _ := Reduce(loaded(), AddExercise{squats})
	assert.False(t, s.ShowEmptyState)
	assert.True(t, s.ShowRoutineForm)
	assert.Equal(t, "Exercise Squats added", s.Message)

	s, _ = Reduce(s, ConsumeMessage{})
	assert.Empty(t, s.Message)
}

func TestReduceRemoveOutOfRange(t *testing.T) {
	s, _ := Reduce(loaded(), AddExercise{squats})
	for _, i := range []int{-1, 1, 5} {
		next, effect := Reduce(s, RemoveExercise{i})
		assert.Equal(t, EffectNone, effect)
		assert.Len(t, next.Exercises, 1)
	}
}

func TestReduceDoesNotShareSlices(t *testing.T) {
	s, _ := Reduce(loaded(), AddExercise{squats})
	plank := squats
	plank.Exercise.Name = "Plank"
	s, _ = Reduce(s, AddExercise{plank})

	next, _ := Reduce(s, RemoveExercise{0})
	assert.Equal(t, "Squats", s.Exercises[0].Exercise.Name)
	assert.Equal(t, "Plank", next.Exercises[0].Exercise.Name)
}

func TestReduceDraftLoaded(t *testing.T) {
	d := &models.DraftRoutine{Name: "Leg Day", Duration: "45", Exercises: []models.RoutineExercise{squats}}

	s, effect := Reduce(NewState(), DraftLoaded{Draft: d})
	assert.Equal(t, EffectNone, effect)
	assert.True(t, s.Loaded)
	assert.Equal(t, "Leg Day", s.Name)
	assert.False(t, s.ShowEmptyState)
	assert.True(t, s.ShowRoutineForm)

	d.Exercises[0].Sets = 99
	assert.Equal(t, 3, s.Exercises[0].Sets)

	empty, _ := Reduce(NewState(), DraftLoaded{Draft: &models.DraftRoutine{Name: "only a name"}})
	assert.True(t, empty.ShowEmptyState)
	assert.False(t, empty.ShowRoutineForm)
}

func TestReduceDraftLoadedWithoutStoredDraftClearsFields(t *testing.T) {
	s := loaded()
	s, _ = Reduce(s, SetName{"Leg Day"})
	s, _ = Reduce(s, SetDuration{"45"})
	s, _ = Reduce(s, AddExercise{squats})
	require.True(t, s.ShowRoutineForm)

	s, effect := Reduce(s, DraftLoaded{})
	assert.Equal(t, EffectNone, effect)
	assert.True(t, s.Loaded)
	assert.True(t, s.Authenticated)
	assert.Empty(t, s.Name)
	assert.Empty(t, s.Duration)
	assert.Nil(t, s.Exercises)
	assert.True(t, s.ShowEmptyState)
	assert.False(t, s.ShowRoutineForm)

	reloaded, _ := Reduce(s, DraftLoaded{Draft: &models.DraftRoutine{Name: "Arms"}})
	assert.Equal(t, "Arms", reloaded.Name)
	assert.Empty(t, reloaded.Duration)
}

func TestReduceSelectionFlow(t *testing.T) {
	s, _ := Reduce(loaded(), ShowSelection{})
	require.True(t, s.ShowExerciseSelection)
	assert.False(t, s.ShowEmptyState)

	hidden, _ := Reduce(s, HideSelection{})
	assert.False(t, hidden.ShowExerciseSelection)
	assert.True(t, hidden.ShowEmptyState)

	s, _ = Reduce(s, AddExercise{squats})
	s, _ = Reduce(s, FinishSelection{})
	assert.False(t, s.ShowExerciseSelection)
	assert.False(t, s.ShowEmptyState)
	assert.True(t, s.ShowRoutineForm)
}

func TestReduceReset(t *testing.T) {
	s, _ := Reduce(loaded(), AddExercise{squats})
	s, _ = Reduce(s, SetName{"Leg Day"})

	s, _ = Reduce(s, Reset{})
	assert.Empty(t, s.Name)
	assert.Nil(t, s.Exercises)
	assert.True(t, s.ShowEmptyState)
	assert.False(t, s.ShowRoutineForm)
	assert.True(t, s.Loaded)
	assert.True(t, s.Authenticated)
}

func TestStateDraft(t *testing.T) {
	s, _ := Reduce(loaded(), AddExercise{squats})
	s, _ = Reduce(s, SetName{"Leg Day"})

	d := s.Draft()
	assert.Equal(t, "Leg Day", d.Name)
	assert.Equal(t, []models.RoutineExercise{squats}, d.Exercises)
	assert.False(t, d.LastModified.IsZero())

	d.Exercises[0].Reps = 1
	assert.Equal(t, 10, s.Exercises[0].Reps)
}
