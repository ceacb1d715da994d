// ABOUTME: Exercise cache operations for SQLite storage.
// ABOUTME: The cache is replaced wholesale; there is no partial merge.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/harperreed/routines/internal/models"
)

// GetAllCachedExercises returns every cached exercise in insertion order.
func (d *DB) GetAllCachedExercises(ctx context.Context) ([]models.CachedExercise, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, exercise, cached_at
		FROM cached_exercises
		ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list cached exercises: %w", err)
	}
	defer rows.Close()

	return scanCachedExercises(rows)
}

// CacheExercises clears the cache and inserts exercises in one transaction.
func (d *DB) CacheExercises(ctx context.Context, exercises []models.Exercise) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("cache exercises: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM cached_exercises"); err != nil {
		return fmt.Errorf("cache exercises: clear: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO cached_exercises (exercise, cached_at) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("cache exercises: prepare: %w", err)
	}
	defer stmt.Close()

	cachedAt := toMillis(models.Now())
	for _, e := range exercises {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("cache exercises: marshal %q: %w", e.Name, err)
		}
		if _, err := stmt.ExecContext(ctx, string(data), cachedAt); err != nil {
			return fmt.Errorf("cache exercises: insert %q: %w", e.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("cache exercises: commit: %w", err)
	}
	return nil
}

// ClearCache deletes every cached exercise.
func (d *DB) ClearCache(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM cached_exercises"); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

// GetCacheCount returns the number of cached exercises.
func (d *DB) GetCacheCount(ctx context.Context) (int, error) {
	var count int
	if err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM cached_exercises").Scan(&count); err != nil {
		return 0, fmt.Errorf("count cached exercises: %w", err)
	}
	return count, nil
}

// scanCachedExercises scans multiple rows into cache entries.
func scanCachedExercises(rows *sql.Rows) ([]models.CachedExercise, error) {
	var cached []models.CachedExercise

	for rows.Next() {
		var (
			c        models.CachedExercise
			data     string
			cachedAt int64
		)
		if err := rows.Scan(&c.ID, &data, &cachedAt); err != nil {
			return nil, fmt.Errorf("scan cached exercise: %w", err)
		}
		if err := json.Unmarshal([]byte(data), &c.Exercise); err != nil {
			return nil, fmt.Errorf("unmarshal cached exercise %d: %w", c.ID, err)
		}
		c.CachedAt = fromMillis(cachedAt)
		cached = append(cached, c)
	}

	return cached, rows.Err()
}
