// ABOUTME: Exercise cache operations for Charm KV storage.
// ABOUTME: Entries are keyed by a zero-padded sequence so key order is insertion order.
package charm

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/routines/internal/models"
)

// cachedRecord is the stored form of one cache entry.
type cachedRecord struct {
	ID       int64           `json:"id"`
	Exercise models.Exercise `json:"exercise"`
	CachedAt time.Time       `json:"cachedAt"`
}

func exerciseKey(seq int64) string {
	return fmt.Sprintf("%s%08d", ExerciseCachePrefix, seq)
}

// GetAllCachedExercises returns every cached exercise in insertion order.
func (c *Client) GetAllCachedExercises(_ context.Context) ([]models.CachedExercise, error) {
	allData, err := c.listByPrefix(ExerciseCachePrefix)
	if err != nil {
		return nil, fmt.Errorf("list cached exercises: %w", err)
	}

	cached := make([]models.CachedExercise, 0, len(allData))
	for _, data := range allData {
		rec, err := unmarshalJSON[cachedRecord](data)
		if err != nil {
			return nil, fmt.Errorf("unmarshal cached exercise: %w", err)
		}
		cached = append(cached, models.CachedExercise{
			ID:       rec.ID,
			Exercise: rec.Exercise,
			CachedAt: rec.CachedAt,
		})
	}
	return cached, nil
}

// CacheExercises removes every cached exercise and stores exercises in their place.
// The whole replacement happens under the write lock and syncs once at the end.
func (c *Client) CacheExercises(_ context.Context, exercises []models.Exercise) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return fmt.Errorf("cache exercises: %w", errReadOnly)
	}

	if err := c.deletePrefixLocked(ExerciseCachePrefix); err != nil {
		return fmt.Errorf("cache exercises: clear: %w", err)
	}

	cachedAt := models.Now()
	for i, e := range exercises {
		seq := int64(i + 1)
		data, err := marshalJSON(cachedRecord{ID: seq, Exercise: e, CachedAt: cachedAt})
		if err != nil {
			return fmt.Errorf("cache exercises: marshal %q: %w", e.Name, err)
		}
		if err := c.kv.Set([]byte(exerciseKey(seq)), data); err != nil {
			return fmt.Errorf("cache exercises: insert %q: %w", e.Name, err)
		}
	}

	c.syncIfEnabled()
	return nil
}

// ClearCache deletes every cached exercise.
func (c *Client) ClearCache(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kv.IsReadOnly() {
		return fmt.Errorf("clear cache: %w", errReadOnly)
	}
	if err := c.deletePrefixLocked(ExerciseCachePrefix); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	c.syncIfEnabled()
	return nil
}

// GetCacheCount returns the number of cached exercises.
func (c *Client) GetCacheCount(_ context.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys, err := c.keysByPrefix(ExerciseCachePrefix)
	if err != nil {
		return 0, fmt.Errorf("count cached exercises: %w", err)
	}
	return len(keys), nil
}

func (c *Client) deletePrefixLocked(prefix string) error {
	keys, err := c.keysByPrefix(prefix)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := c.kv.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
