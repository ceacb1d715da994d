// ABOUTME: Draft routine operations for SQLite storage.
// ABOUTME: The draft is a single row with a fixed id; saving replaces it.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/harperreed/routines/internal/models"
)

// draftRowID is the only id the draft_routine table accepts.
const draftRowID = 1

// GetDraftOnce returns the saved draft, or nil when there is none.
func (d *DB) GetDraftOnce(ctx context.Context) (*models.DraftRoutine, error) {
	var (
		draft        models.DraftRoutine
		exercises    string
		lastModified int64
	)
	err := d.db.QueryRowContext(ctx, `
		SELECT routine_name, routine_description, routine_duration, selected_exercises, last_modified
		FROM draft_routine
		WHERE id = ?`, draftRowID,
	).Scan(&draft.Name, &draft.Description, &draft.Duration, &exercises, &lastModified)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get draft: %w", err)
	}

	draft.Exercises, err = decodeRoutineExercises(exercises)
	if err != nil {
		return nil, fmt.Errorf("get draft: %w", err)
	}
	draft.LastModified = fromMillis(lastModified)

	return &draft, nil
}

// WatchDraft streams the draft as it changes.
func (d *DB) WatchDraft(ctx context.Context) (<-chan *models.DraftRoutine, error) {
	return WatchDraftWith(ctx, d.feed, d.watchInterval, d.GetDraftOnce)
}

// SaveDraft replaces the draft row.
func (d *DB) SaveDraft(ctx context.Context, draft models.DraftRoutine) error {
	exercises, err := encodeRoutineExercises(draft.Exercises)
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	if draft.LastModified.IsZero() {
		draft.LastModified = models.Now()
	}

	_, err = d.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO draft_routine
			(id, routine_name, routine_description, routine_duration, selected_exercises, last_modified)
		VALUES (?, ?, ?, ?, ?, ?)`,
		draftRowID, draft.Name, draft.Description, draft.Duration, exercises, toMillis(draft.LastModified),
	)
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}

	d.feed.Publish(&draft)
	return nil
}

// ClearDraft deletes the draft row.
func (d *DB) ClearDraft(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM draft_routine WHERE id = ?", draftRowID); err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	d.feed.Publish(nil)
	return nil
}

// HasDraft reports whether a draft row exists.
func (d *DB) HasDraft(ctx context.Context) (bool, error) {
	var exists bool
	err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) > 0 FROM draft_routine WHERE id = ?", draftRowID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("has draft: %w", err)
	}
	return exists, nil
}

func encodeRoutineExercises(list []models.RoutineExercise) (string, error) {
	if list == nil {
		list = []models.RoutineExercise{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("marshal exercises: %w", err)
	}
	return string(data), nil
}

// decodeRoutineExercises returns nil for an empty list so a round trip of a
// draft without exercises compares equal.
func decodeRoutineExercises(data string) ([]models.RoutineExercise, error) {
	var list []models.RoutineExercise
	if err := json.Unmarshal([]byte(data), &list); err != nil {
		return nil, fmt.Errorf("unmarshal exercises: %w", err)
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list, nil
}
