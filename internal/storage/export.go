// ABOUTME: Export and import of the local routine store.
// ABOUTME: Supports JSON, YAML, and Markdown export formats for any Repository backend.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harperreed/routines/internal/models"
)

// ExportData represents the full export format for local routine data.
type ExportData struct {
	Version       string                `json:"version" yaml:"version"`
	ExportedAt    time.Time             `json:"exported_at" yaml:"exported_at"`
	Tool          string                `json:"tool" yaml:"tool"`
	Draft         *models.DraftRoutine  `json:"draft,omitempty" yaml:"draft,omitempty"`
	Exercises     []models.Exercise     `json:"exercises" yaml:"exercises"`
	ActiveWorkout *models.ActiveWorkout `json:"active_workout,omitempty" yaml:"active_workout,omitempty"`
}

// GetAllData retrieves everything stored in repo for export.
func GetAllData(ctx context.Context, repo Repository) (*ExportData, error) {
	draft, err := repo.GetDraftOnce(ctx)
	if err != nil {
		return nil, fmt.Errorf("get draft: %w", err)
	}

	cached, err := repo.GetAllCachedExercises(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cached exercises: %w", err)
	}

	active, err := repo.GetActiveWorkout(ctx)
	if err != nil {
		return nil, fmt.Errorf("get active workout: %w", err)
	}

	return &ExportData{
		Version:       "1.0",
		ExportedAt:    time.Now(),
		Tool:          "routines",
		Draft:         draft,
		Exercises:     models.ExercisesOf(cached),
		ActiveWorkout: active,
	}, nil
}

// ImportData writes an export into repo. Present sections replace what repo holds.
func ImportData(ctx context.Context, repo Repository, data *ExportData) error {
	if data.Draft != nil {
		if err := repo.SaveDraft(ctx, *data.Draft); err != nil {
			return fmt.Errorf("import draft: %w", err)
		}
	}

	if len(data.Exercises) > 0 {
		if err := repo.CacheExercises(ctx, data.Exercises); err != nil {
			return fmt.Errorf("import exercises: %w", err)
		}
	}

	if data.ActiveWorkout != nil {
		if err := repo.StartWorkout(ctx, *data.ActiveWorkout); err != nil {
			return fmt.Errorf("import active workout: %w", err)
		}
	}

	return nil
}

// ExportJSON exports all data as JSON.
func ExportJSON(ctx context.Context, repo Repository) ([]byte, error) {
	data, err := GetAllData(ctx, repo)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all data as YAML.
func ExportYAML(ctx context.Context, repo Repository) ([]byte, error) {
	data, err := GetAllData(ctx, repo)
	if err != nil {
		return nil, err
	}

	yamlData := struct {
		Version    string         `yaml:"version"`
		ExportedAt string         `yaml:"exported_at"`
		Tool       string         `yaml:"tool"`
		Draft      *yamlDraft     `yaml:"draft,omitempty"`
		Exercises  []yamlExercise `yaml:"exercises"`
		Workout    *yamlWorkout   `yaml:"active_workout,omitempty"`
	}{
		Version:    data.Version,
		ExportedAt: data.ExportedAt.Format(time.RFC3339),
		Tool:       data.Tool,
		Exercises:  make([]yamlExercise, 0, len(data.Exercises)),
	}

	if d := data.Draft; d != nil {
		yd := &yamlDraft{
			Name:         d.Name,
			Description:  d.Description,
			Duration:     d.Duration,
			LastModified: d.LastModified.Format(time.RFC3339),
		}
		for _, re := range d.Exercises {
			yd.Exercises = append(yd.Exercises, yamlEntry{
				Name:     re.Exercise.Name,
				Sets:     re.Sets,
				Reps:     re.Reps,
				RestTime: re.RestTime,
			})
		}
		yamlData.Draft = yd
	}

	for _, e := range data.Exercises {
		yamlData.Exercises = append(yamlData.Exercises, yamlExercise{
			Name:       e.Name,
			Type:       e.Type,
			Muscle:     e.Muscle,
			Equipment:  e.Equipment,
			Difficulty: e.Difficulty,
		})
	}

	if w := data.ActiveWorkout; w != nil {
		yamlData.Workout = &yamlWorkout{
			RoutineID:     w.RoutineID,
			RoutineName:   w.RoutineName,
			ExerciseCount: w.ExerciseCount,
			Duration:      w.Duration,
			StartedAt:     w.StartedAt.Format(time.RFC3339),
		}
	}

	return yaml.Marshal(yamlData)
}

type yamlDraft struct {
	Name         string      `yaml:"name"`
	Description  string      `yaml:"description,omitempty"`
	Duration     string      `yaml:"duration,omitempty"`
	LastModified string      `yaml:"last_modified"`
	Exercises    []yamlEntry `yaml:"exercises,omitempty"`
}

type yamlEntry struct {
	Name     string `yaml:"name"`
	Sets     int    `yaml:"sets"`
	Reps     int    `yaml:"reps"`
	RestTime int    `yaml:"rest_time"`
}

type yamlExercise struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	Muscle     string `yaml:"muscle"`
	Equipment  string `yaml:"equipment,omitempty"`
	Difficulty string `yaml:"difficulty,omitempty"`
}

type yamlWorkout struct {
	RoutineID     string `yaml:"routine_id"`
	RoutineName   string `yaml:"routine_name"`
	ExerciseCount int    `yaml:"exercise_count"`
	Duration      int    `yaml:"duration_minutes"`
	StartedAt     string `yaml:"started_at"`
}

// ExportMarkdown exports the draft and the active workout as Markdown.
// The exercise cache is summarized by muscle group when includeCache is set.
func ExportMarkdown(ctx context.Context, repo Repository, includeCache bool) (string, error) {
	data, err := GetAllData(ctx, repo)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	now := time.Now()

	sb.WriteString(fmt.Sprintf("# Routines Export - %s\n\n", now.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	sb.WriteString("## Draft\n\n")
	if d := data.Draft; d == nil {
		sb.WriteString("_No draft._\n\n")
	} else {
		sb.WriteString(fmt.Sprintf("**%s**", orDash(d.Name)))
		if d.Duration != "" {
			sb.WriteString(fmt.Sprintf(" (%s min)", d.Duration))
		}
		sb.WriteString("\n\n")
		if d.Description != "" {
			sb.WriteString(d.Description + "\n\n")
		}
		if len(d.Exercises) > 0 {
			sb.WriteString("| # | Exercise | Sets | Reps | Rest |\n")
			sb.WriteString("|---|----------|------|------|------|\n")
			for i, re := range d.Exercises {
				sb.WriteString(fmt.Sprintf("| %d | %s | %d | %d | %ds |\n",
					i+1, re.Exercise.Name, re.Sets, re.Reps, re.RestTime))
			}
			sb.WriteString("\n")
		}
	}

	if w := data.ActiveWorkout; w != nil {
		sb.WriteString("## Active Workout\n\n")
		sb.WriteString(fmt.Sprintf("%s, %d exercises, %d min, started %s\n\n",
			w.RoutineName, w.ExerciseCount, w.Duration, w.StartedAt.Format("2006-01-02 15:04")))
	}

	if includeCache && len(data.Exercises) > 0 {
		sb.WriteString("## Exercise Cache\n\n")
		sb.WriteString("| Exercise | Type | Muscle | Equipment |\n")
		sb.WriteString("|----------|------|--------|-----------|\n")
		for _, e := range data.Exercises {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", e.Name, e.Type, e.Muscle, orDash(e.Equipment)))
		}
	}

	return sb.String(), nil
}

// ImportJSON imports data from JSON bytes.
func ImportJSON(ctx context.Context, repo Repository, data []byte) error {
	var exportData ExportData
	if err := json.Unmarshal(data, &exportData); err != nil {
		return fmt.Errorf("unmarshal JSON: %w", err)
	}
	return ImportData(ctx, repo, &exportData)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
