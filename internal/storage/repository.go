// ABOUTME: Repository interface for the local routine store.
// ABOUTME: Defines the draft, exercise cache and active workout contract shared by all backends.
package storage

import (
	"context"

	"github.com/harperreed/routines/internal/models"
)

// DraftStore holds the single draft routine. A nil draft means none exists.
type DraftStore interface {
	GetDraftOnce(ctx context.Context) (*models.DraftRoutine, error)
	// WatchDraft emits the current draft and then every change until ctx is done.
	WatchDraft(ctx context.Context) (<-chan *models.DraftRoutine, error)
	SaveDraft(ctx context.Context, draft models.DraftRoutine) error
	ClearDraft(ctx context.Context) error
	HasDraft(ctx context.Context) (bool, error)
}

// ExerciseCache is the locally cached exercise catalog.
type ExerciseCache interface {
	GetAllCachedExercises(ctx context.Context) ([]models.CachedExercise, error)
	// CacheExercises replaces the whole cache with the given exercises.
	CacheExercises(ctx context.Context, exercises []models.Exercise) error
	ClearCache(ctx context.Context) error
	GetCacheCount(ctx context.Context) (int, error)
}

// ActiveWorkoutStore holds the single active workout. A nil workout means none is running.
type ActiveWorkoutStore interface {
	GetActiveWorkout(ctx context.Context) (*models.ActiveWorkout, error)
	StartWorkout(ctx context.Context, workout models.ActiveWorkout) error
	ClearActiveWorkout(ctx context.Context) error
	HasActiveWorkout(ctx context.Context) (bool, error)
}

// Repository defines the storage interface for local routine data.
// This interface allows swapping implementations (e.g., for testing).
type Repository interface {
	DraftStore
	ExerciseCache
	ActiveWorkoutStore

	// Lifecycle
	Close() error
}
