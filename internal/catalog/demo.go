// ABOUTME: Built-in demo exercises served when neither cache nor network has any.
// ABOUTME: The list is fixed and never written to the cache.
package catalog

import "github.com/harperreed/routines/internal/models"

// DemoExercises returns a fresh copy of the demo list.
func DemoExercises() []models.Exercise {
	return []models.Exercise{
		{Name: "Push-ups", Type: "Bodyweight", Muscle: "Chest", Equipment: "None", Difficulty: "Beginner", Instructions: "Classic push-up"},
		{Name: "Squats", Type: "Bodyweight", Muscle: "Legs", Equipment: "None", Difficulty: "Beginner", Instructions: "Basic squat"},
		{Name: "Plank", Type: "Bodyweight", Muscle: "Core", Equipment: "None", Difficulty: "Beginner", Instructions: "Hold plank"},
		{Name: "Bench Press", Type: "Barbell", Muscle: "Chest", Equipment: "Barbell", Difficulty: "Intermediate", Instructions: "Flat bench press"},
		{Name: "Deadlift", Type: "Barbell", Muscle: "Back", Equipment: "Barbell", Difficulty: "Advanced", Instructions: "Conventional deadlift"},
	}
}
