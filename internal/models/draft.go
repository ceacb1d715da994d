// ABOUTME: DraftRoutine model, the single in-progress routine being composed.
// ABOUTME: Only one draft exists at a time; saving always replaces it.
package models

import (
	"strings"
	"time"
)

// DraftRoutine is the routine under construction.
type DraftRoutine struct {
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Duration     string            `json:"duration"`
	Exercises    []RoutineExercise `json:"exercises,omitempty"`
	LastModified time.Time         `json:"lastModified"`
}

// IsEmpty reports whether the draft holds nothing worth keeping.
func (d *DraftRoutine) IsEmpty() bool {
	return strings.TrimSpace(d.Name) == "" &&
		strings.TrimSpace(d.Description) == "" &&
		strings.TrimSpace(d.Duration) == "" &&
		len(d.Exercises) == 0
}

// Clone returns a deep copy so snapshots never share the exercise slice.
func (d DraftRoutine) Clone() DraftRoutine {
	if d.Exercises != nil {
		d.Exercises = append([]RoutineExercise(nil), d.Exercises...)
	}
	return d
}

// Now returns the current UTC time at the millisecond precision the stores keep.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
