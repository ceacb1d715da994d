// ABOUTME: Wire types for the routine backend and their mapping to domain models.
// ABOUTME: Field names follow the backend's camelCase JSON.
package api

import (
	"strings"

	"github.com/harperreed/routines/internal/models"
)

// ExerciseDTO is an exercise as the backend returns it.
type ExerciseDTO struct {
	ID           *int64 `json:"id,omitempty"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	Muscle       string `json:"muscle"`
	Equipment    string `json:"equipment"`
	Difficulty   string `json:"difficulty"`
	Instructions string `json:"instructions"`
	CreatedAt    string `json:"createdAt,omitempty"`
	UpdatedAt    string `json:"updatedAt,omitempty"`
}

// CreateExerciseRequest is the body of POST /exercises.
type CreateExerciseRequest struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	Muscle       string `json:"muscle"`
	Equipment    string `json:"equipment"`
	Difficulty   string `json:"difficulty"`
	Instructions string `json:"instructions"`
}

// CreateWorkoutRoutineRequest is the body of POST /workout-routines.
type CreateWorkoutRoutineRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	Username    string `json:"username"`
}

// WorkoutRoutineDTO is a routine header.
type WorkoutRoutineDTO struct {
	ID          *int64 `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// CreateRoutineExerciseRequest is the body of POST /routine-exercises.
type CreateRoutineExerciseRequest struct {
	ExerciseID       int64 `json:"exerciseId"`
	WorkoutRoutineID int64 `json:"workoutRoutineId"`
	Sets             int   `json:"sets"`
	Reps             int   `json:"reps"`
	RestTime         int   `json:"restTime"`
}

// RoutineExerciseLink is the response to POST /routine-exercises.
type RoutineExerciseLink struct {
	ID               *int64 `json:"id,omitempty"`
	ExerciseID       int64  `json:"exerciseId"`
	WorkoutRoutineID int64  `json:"workoutRoutineId"`
	Sets             int    `json:"sets"`
	Reps             int    `json:"reps"`
	RestTime         int    `json:"restTime"`
}

// RoutineExerciseDTO is one element of GET /routine-exercises.
type RoutineExerciseDTO struct {
	ID             int64             `json:"id"`
	Exercise       ExerciseDTO       `json:"exercise"`
	WorkoutRoutine WorkoutRoutineDTO `json:"workoutRoutine"`
	Sets           int               `json:"sets"`
	Reps           int               `json:"reps"`
	RestTime       int               `json:"restTime"`
}

// NewCreateExerciseRequest maps a domain exercise to the create body.
func NewCreateExerciseRequest(e models.Exercise) CreateExerciseRequest {
	return CreateExerciseRequest{
		Name:         e.Name,
		Type:         e.Type,
		Muscle:       e.Muscle,
		Equipment:    e.Equipment,
		Difficulty:   e.Difficulty,
		Instructions: e.Instructions,
	}
}

// ToModel maps the DTO to a domain exercise.
func (d ExerciseDTO) ToModel() models.Exercise {
	e := models.Exercise{
		Name:         d.Name,
		Type:         d.Type,
		Muscle:       d.Muscle,
		Equipment:    d.Equipment,
		Difficulty:   d.Difficulty,
		Instructions: d.Instructions,
	}
	if d.ID != nil {
		e = e.WithRemoteID(*d.ID)
	}
	return e
}

// GroupRoutines folds routine/exercise links into routines, keeping the order
// in which each routine first appears. Links without a routine id are skipped.
func GroupRoutines(links []RoutineExerciseDTO) []models.WorkoutRoutine {
	var (
		routines []models.WorkoutRoutine
		index    = make(map[int64]int)
	)

	for _, l := range links {
		if l.WorkoutRoutine.ID == nil {
			continue
		}
		id := *l.WorkoutRoutine.ID
		i, ok := index[id]
		if !ok {
			routineID := id
			routines = append(routines, models.WorkoutRoutine{
				ID:          &routineID,
				Name:        l.WorkoutRoutine.Name,
				Description: l.WorkoutRoutine.Description,
				Duration:    l.WorkoutRoutine.Duration,
				CreatedAt:   l.WorkoutRoutine.CreatedAt,
				UpdatedAt:   l.WorkoutRoutine.UpdatedAt,
			})
			i = len(routines) - 1
			index[id] = i
		}
		routines[i].Exercises = append(routines[i].Exercises, models.RoutineExercise{
			Exercise: l.Exercise.ToModel(),
			Sets:     l.Sets,
			Reps:     l.Reps,
			RestTime: l.RestTime,
		})
	}

	return routines
}

// FilterRoutines keeps routines whose name or description contains search,
// ignoring case. An empty search keeps everything.
func FilterRoutines(routines []models.WorkoutRoutine, search string) []models.WorkoutRoutine {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return routines
	}

	var out []models.WorkoutRoutine
	for _, r := range routines {
		if strings.Contains(strings.ToLower(r.Name), search) ||
			strings.Contains(strings.ToLower(r.Description), search) {
			out = append(out, r)
		}
	}
	return out
}
