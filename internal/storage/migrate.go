// ABOUTME: Data migration between routine storage backends.
// ABOUTME: Copies the draft, the exercise cache and the active workout from source to destination.

package storage

import (
	"context"
	"fmt"
	"os"

	"github.com/harperreed/routines/internal/models"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Draft         bool
	Exercises     int
	ActiveWorkout bool
}

// MigrateData copies all data from src to dst storage. Singletons present in
// src replace those in dst; the exercise cache of dst is replaced when src
// has any cached exercises.
func MigrateData(ctx context.Context, src, dst Repository) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	draft, err := src.GetDraftOnce(ctx)
	if err != nil {
		return nil, fmt.Errorf("get source draft: %w", err)
	}
	if draft != nil {
		if err := dst.SaveDraft(ctx, *draft); err != nil {
			return nil, fmt.Errorf("save draft: %w", err)
		}
		summary.Draft = true
	}

	cached, err := src.GetAllCachedExercises(ctx)
	if err != nil {
		return nil, fmt.Errorf("list source exercises: %w", err)
	}
	if len(cached) > 0 {
		exercises := make([]models.Exercise, 0, len(cached))
		for _, c := range cached {
			exercises = append(exercises, c.Exercise)
		}
		if err := dst.CacheExercises(ctx, exercises); err != nil {
			return nil, fmt.Errorf("cache exercises: %w", err)
		}
		summary.Exercises = len(exercises)
	}

	active, err := src.GetActiveWorkout(ctx)
	if err != nil {
		return nil, fmt.Errorf("get source active workout: %w", err)
	}
	if active != nil {
		if err := dst.StartWorkout(ctx, *active); err != nil {
			return nil, fmt.Errorf("start workout: %w", err)
		}
		summary.ActiveWorkout = true
	}

	return summary, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
