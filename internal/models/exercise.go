// ABOUTME: Exercise and RoutineExercise models shared by the cache, the draft and the API.
// ABOUTME: RoutineExercise carries sets, reps and rest time for one exercise in a routine.
package models

import (
	"strconv"
	"strings"
	"time"
)

// Default values applied when a sets/reps/rest input does not parse.
const (
	DefaultSets     = 3
	DefaultReps     = 10
	DefaultRestTime = 60
)

// Exercise is a single exercise definition.
type Exercise struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	Muscle       string `json:"muscle"`
	Equipment    string `json:"equipment,omitempty"`
	Difficulty   string `json:"difficulty,omitempty"`
	Instructions string `json:"instructions,omitempty"`
	RemoteID     *int64 `json:"id,omitempty"`
}

// SameName reports whether two exercises share a name, ignoring case.
func (e Exercise) SameName(other Exercise) bool {
	return strings.EqualFold(strings.TrimSpace(e.Name), strings.TrimSpace(other.Name))
}

// WithRemoteID sets the backend id of the exercise.
func (e Exercise) WithRemoteID(id int64) Exercise {
	e.RemoteID = &id
	return e
}

// RoutineExercise is one exercise entry inside a routine.
type RoutineExercise struct {
	Exercise Exercise `json:"exercise"`
	Sets     int      `json:"sets"`
	Reps     int      `json:"reps"`
	RestTime int      `json:"restTime"` // seconds
}

// NewRoutineExercise builds an entry from raw user input, falling back to
// the defaults for anything that is not a positive integer.
func NewRoutineExercise(e Exercise, sets, reps, restTime string) RoutineExercise {
	return RoutineExercise{
		Exercise: e,
		Sets:     parsePositive(sets, DefaultSets),
		Reps:     parsePositive(reps, DefaultReps),
		RestTime: parsePositive(restTime, DefaultRestTime),
	}
}

func parsePositive(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// CachedExercise is one row of the local exercise cache.
type CachedExercise struct {
	ID       int64
	Exercise Exercise
	CachedAt time.Time
}

// ExercisesOf returns the embedded exercises of cache rows, in order.
func ExercisesOf(rows []CachedExercise) []Exercise {
	out := make([]Exercise, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Exercise)
	}
	return out
}
