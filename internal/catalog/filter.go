// ABOUTME: Search and facet helpers over a loaded catalog.
// ABOUTME: Filtering mirrors the exercise picker: name search plus muscle and type facets.
package catalog

import (
	"sort"
	"strings"

	"github.com/harperreed/routines/internal/models"
)

// Query narrows a catalog. Empty fields match everything.
type Query struct {
	Search string
	Muscle string
	Type   string
}

// Filter returns the exercises matching q, in catalog order. Search is a
// case-insensitive substring of the name; Muscle and Type match whole values
// ignoring case.
func Filter(exercises []models.Exercise, q Query) []models.Exercise {
	search := strings.ToLower(strings.TrimSpace(q.Search))

	var out []models.Exercise
	for _, e := range exercises {
		if search != "" && !strings.Contains(strings.ToLower(e.Name), search) {
			continue
		}
		if q.Muscle != "" && !strings.EqualFold(e.Muscle, q.Muscle) {
			continue
		}
		if q.Type != "" && !strings.EqualFold(e.Type, q.Type) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Find returns the first exercise whose name equals name, ignoring case.
func Find(exercises []models.Exercise, name string) (models.Exercise, bool) {
	target := models.Exercise{Name: name}
	for _, e := range exercises {
		if e.SameName(target) {
			return e, true
		}
	}
	return models.Exercise{}, false
}

// UniqueMuscles returns the distinct primary muscles, sorted.
func UniqueMuscles(exercises []models.Exercise) []string {
	return unique(exercises, func(e models.Exercise) string { return e.Muscle })
}

// UniqueTypes returns the distinct exercise types, sorted.
func UniqueTypes(exercises []models.Exercise) []string {
	return unique(exercises, func(e models.Exercise) string { return e.Type })
}

func unique(exercises []models.Exercise, field func(models.Exercise) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range exercises {
		v := field(e)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
