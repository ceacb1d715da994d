// ABOUTME: Read side of the routine backend used by the explore view.
// ABOUTME: Routines are rebuilt from the flat routine-exercise list.
package api

import (
	"context"

	"github.com/harperreed/routines/internal/models"
)

// ListWorkoutRoutines returns every routine on the backend with its exercises.
func (c *Client) ListWorkoutRoutines(ctx context.Context) ([]models.WorkoutRoutine, error) {
	links, err := c.ListRoutineExercises(ctx)
	if err != nil {
		return nil, err
	}
	return GroupRoutines(links), nil
}
