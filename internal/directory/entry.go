// ABOUTME: Directory wire format with every field optional.
// ABOUTME: ToExercise fills gaps with fixed placeholders.
package directory

import "github.com/harperreed/routines/internal/models"

// Placeholders used when the directory omits a field.
const (
	UnknownValue      = "Unknown"
	NoEquipment       = "None"
	NoInstructions    = "No instructions available"
	DefaultDifficulty = "Intermediate"
)

// Named is the shape of every nested lookup object in the directory.
type Named struct {
	ID   *int    `json:"id,omitempty"`
	Name *string `json:"name,omitempty"`
}

// Entry is one exercise in the directory response.
type Entry struct {
	ID               *int    `json:"id,omitempty"`
	Name             *string `json:"name,omitempty"`
	Description      *string `json:"description,omitempty"`
	Category         *Named  `json:"category,omitempty"`
	Equipment        []Named `json:"equipment,omitempty"`
	Muscles          []Named `json:"muscles,omitempty"`
	MusclesSecondary []Named `json:"muscles_secondary,omitempty"`
	Difficulty       *Named  `json:"difficulty,omitempty"`
}

var difficultyNames = map[int]string{
	1: "Beginner",
	2: "Intermediate",
	3: "Advanced",
	4: "Expert",
}

// DifficultyName maps a directory difficulty level to its label.
// Anything outside 1..4, or a missing level, is Intermediate.
func DifficultyName(d *Named) string {
	if d == nil || d.ID == nil {
		return DefaultDifficulty
	}
	if name, ok := difficultyNames[*d.ID]; ok {
		return name
	}
	return DefaultDifficulty
}

// ToExercise maps the entry to an Exercise.
func (e Entry) ToExercise() models.Exercise {
	ex := models.Exercise{
		Name:         deref(e.Name, UnknownValue),
		Type:         UnknownValue,
		Muscle:       firstName(e.Muscles, UnknownValue),
		Equipment:    firstName(e.Equipment, NoEquipment),
		Difficulty:   DifficultyName(e.Difficulty),
		Instructions: deref(e.Description, NoInstructions),
	}
	if e.Category != nil {
		ex.Type = deref(e.Category.Name, UnknownValue)
	}
	return ex
}

func firstName(list []Named, fallback string) string {
	if len(list) == 0 {
		return fallback
	}
	return deref(list[0].Name, fallback)
}

func deref(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
