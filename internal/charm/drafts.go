// ABOUTME: Draft routine and active workout operations for Charm KV storage.
// ABOUTME: Each singleton lives under one fixed key; an absent key means none exists.
package charm

import (
	"context"
	"fmt"

	"github.com/harperreed/routines/internal/models"
	"github.com/harperreed/routines/internal/storage"
)

// GetDraftOnce returns the saved draft, or nil when there is none.
func (c *Client) GetDraftOnce(_ context.Context) (*models.DraftRoutine, error) {
	data, err := c.get(DraftKey)
	if err != nil {
		return nil, fmt.Errorf("get draft: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	draft, err := unmarshalJSON[models.DraftRoutine](data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal draft: %w", err)
	}
	if len(draft.Exercises) == 0 {
		draft.Exercises = nil
	}
	return draft, nil
}

// WatchDraft streams the draft as it changes.
func (c *Client) WatchDraft(ctx context.Context) (<-chan *models.DraftRoutine, error) {
	return storage.WatchDraftWith(ctx, c.feed, c.watchInterval, c.GetDraftOnce)
}

// SaveDraft replaces the stored draft.
func (c *Client) SaveDraft(_ context.Context, draft models.DraftRoutine) error {
	if draft.LastModified.IsZero() {
		draft.LastModified = models.Now()
	}
	if len(draft.Exercises) == 0 {
		draft.Exercises = nil
	}

	data, err := marshalJSON(draft)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if err := c.set(DraftKey, data); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}

	c.feed.Publish(&draft)
	return nil
}

// ClearDraft deletes the stored draft.
func (c *Client) ClearDraft(_ context.Context) error {
	if err := c.delete(DraftKey); err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	c.feed.Publish(nil)
	return nil
}

// HasDraft reports whether a draft is stored.
func (c *Client) HasDraft(ctx context.Context) (bool, error) {
	draft, err := c.GetDraftOnce(ctx)
	if err != nil {
		return false, err
	}
	return draft != nil, nil
}

// GetActiveWorkout returns the active workout, or nil when none is running.
func (c *Client) GetActiveWorkout(_ context.Context) (*models.ActiveWorkout, error) {
	data, err := c.get(ActiveWorkoutKey)
	if err != nil {
		return nil, fmt.Errorf("get active workout: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	w, err := unmarshalJSON[models.ActiveWorkout](data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal active workout: %w", err)
	}
	return w, nil
}

// StartWorkout stores workout as the active one, replacing any existing one.
func (c *Client) StartWorkout(_ context.Context, workout models.ActiveWorkout) error {
	if workout.StartedAt.IsZero() {
		workout.StartedAt = models.Now()
	}

	data, err := marshalJSON(workout)
	if err != nil {
		return fmt.Errorf("marshal active workout: %w", err)
	}
	if err := c.set(ActiveWorkoutKey, data); err != nil {
		return fmt.Errorf("start workout: %w", err)
	}
	return nil
}

// ClearActiveWorkout removes the active workout.
func (c *Client) ClearActiveWorkout(_ context.Context) error {
	if err := c.delete(ActiveWorkoutKey); err != nil {
		return fmt.Errorf("clear active workout: %w", err)
	}
	return nil
}

// HasActiveWorkout reports whether a workout is running.
func (c *Client) HasActiveWorkout(ctx context.Context) (bool, error) {
	w, err := c.GetActiveWorkout(ctx)
	if err != nil {
		return false, err
	}
	return w != nil, nil
}
