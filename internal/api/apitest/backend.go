// ABOUTME: In-memory fake of the routine backend for tests.
// ABOUTME: Serves the exercise, routine and routine-exercise endpoints and records every call.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	"github.com/harperreed/routines/internal/api"
)

// Call is one request received by the backend.
type Call struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	RequestID     string
}

// Backend is a fake routine backend.
type Backend struct {
	// Token, when set, is the only bearer token accepted.
	Token string

	mu        sync.Mutex
	nextID    int64
	exercises []api.ExerciseDTO
	routines  []api.WorkoutRoutineDTO
	links     []api.RoutineExerciseLink
	calls     []Call
	failures  map[string]int
}

// New creates an empty backend.
func New() *Backend {
	return &Backend{failures: make(map[string]int)}
}

// Start serves the backend until the test ends and returns its base URL.
func (b *Backend) Start(t testing.TB) string {
	t.Helper()
	srv := httptest.NewServer(b.Handler())
	t.Cleanup(srv.Close)
	return srv.URL
}

// Handler returns the backend router.
func (b *Backend) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(b.record)
	r.HandleFunc("/exercises", b.findExercises).Methods(http.MethodGet)
	r.HandleFunc("/exercises", b.createExercise).Methods(http.MethodPost)
	r.HandleFunc("/workout-routines", b.createRoutine).Methods(http.MethodPost)
	r.HandleFunc("/routine-exercises", b.createLink).Methods(http.MethodPost)
	r.HandleFunc("/routine-exercises", b.listLinks).Methods(http.MethodGet)
	return r
}

// SeedExercise stores an exercise and returns its id.
func (b *Backend) SeedExercise(e api.ExerciseDTO) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addExerciseLocked(e)
}

// FailWith makes every request to method and path answer with status.
func (b *Backend) FailWith(method, path string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+path] = status
}

// Calls returns every request received so far.
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Call(nil), b.calls...)
}

// CallCount returns how many requests matched method and path.
func (b *Backend) CallCount(method, path string) int {
	n := 0
	for _, c := range b.Calls() {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

// Exercises returns the stored exercises.
func (b *Backend) Exercises() []api.ExerciseDTO {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]api.ExerciseDTO(nil), b.exercises...)
}

// Routines returns the stored routines.
func (b *Backend) Routines() []api.WorkoutRoutineDTO {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]api.WorkoutRoutineDTO(nil), b.routines...)
}

// Links returns the stored routine/exercise links.
func (b *Backend) Links() []api.RoutineExerciseLink {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]api.RoutineExerciseLink(nil), b.links...)
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls = append(b.calls, Call{
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
		})
		status, failing := b.failures[r.Method+" "+r.URL.Path]
		token := b.Token
		b.mu.Unlock()

		if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if failing {
			http.Error(w, http.StatusText(status), status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// findExercises matches by substring, ignoring case, like a search endpoint.
func (b *Backend) findExercises(w http.ResponseWriter, r *http.Request) {
	name := strings.ToLower(r.URL.Query().Get("name"))

	b.mu.Lock()
	out := []api.ExerciseDTO{}
	for _, e := range b.exercises {
		if strings.Contains(strings.ToLower(e.Name), name) {
			out = append(out, e)
		}
	}
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) createExercise(w http.ResponseWriter, r *http.Request) {
	var req api.CreateExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	b.addExerciseLocked(api.ExerciseDTO{
		Name:         req.Name,
		Type:         req.Type,
		Muscle:       req.Muscle,
		Equipment:    req.Equipment,
		Difficulty:   req.Difficulty,
		Instructions: req.Instructions,
	})
	created := b.exercises[len(b.exercises)-1]
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, created)
}

func (b *Backend) createRoutine(w http.ResponseWriter, r *http.Request) {
	var req api.CreateWorkoutRoutineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	routine := api.WorkoutRoutineDTO{
		ID:          &id,
		Name:        req.Name,
		Description: req.Description,
		Duration:    req.Duration,
		CreatedAt:   "2025-01-01T00:00:00Z",
		UpdatedAt:   "2025-01-01T00:00:00Z",
	}
	b.routines = append(b.routines, routine)
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, routine)
}

func (b *Backend) createLink(w http.ResponseWriter, r *http.Request) {
	var req api.CreateRoutineExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	if _, ok := b.exerciseLocked(req.ExerciseID); !ok {
		b.mu.Unlock()
		http.Error(w, fmt.Sprintf("exercise %d not found", req.ExerciseID), http.StatusNotFound)
		return
	}
	if _, ok := b.routineLocked(req.WorkoutRoutineID); !ok {
		b.mu.Unlock()
		http.Error(w, fmt.Sprintf("routine %d not found", req.WorkoutRoutineID), http.StatusNotFound)
		return
	}
	b.nextID++
	id := b.nextID
	link := api.RoutineExerciseLink{
		ID:               &id,
		ExerciseID:       req.ExerciseID,
		WorkoutRoutineID: req.WorkoutRoutineID,
		Sets:             req.Sets,
		Reps:             req.Reps,
		RestTime:         req.RestTime,
	}
	b.links = append(b.links, link)
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, link)
}

func (b *Backend) listLinks(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	out := make([]api.RoutineExerciseDTO, 0, len(b.links))
	for _, l := range b.links {
		e, _ := b.exerciseLocked(l.ExerciseID)
		rt, _ := b.routineLocked(l.WorkoutRoutineID)
		out = append(out, api.RoutineExerciseDTO{
			ID:             *l.ID,
			Exercise:       e,
			WorkoutRoutine: rt,
			Sets:           l.Sets,
			Reps:           l.Reps,
			RestTime:       l.RestTime,
		})
	}
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) addExerciseLocked(e api.ExerciseDTO) int64 {
	b.nextID++
	id := b.nextID
	e.ID = &id
	b.exercises = append(b.exercises, e)
	return id
}

func (b *Backend) exerciseLocked(id int64) (api.ExerciseDTO, bool) {
	for _, e := range b.exercises {
		if e.ID != nil && *e.ID == id {
			return e, true
		}
	}
	return api.ExerciseDTO{}, false
}

func (b *Backend) routineLocked(id int64) (api.WorkoutRoutineDTO, bool) {
	for _, r := range b.routines {
		if r.ID != nil && *r.ID == id {
			return r, true
		}
	}
	return api.WorkoutRoutineDTO{}, false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
