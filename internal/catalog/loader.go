// ABOUTME: Cache-aside loader for the exercise catalog.
// ABOUTME: Serves the local cache, falls back to the remote directory, then to a fixed demo list.
package catalog

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/harperreed/routines/internal/models"
	"github.com/harperreed/routines/internal/observability"
	"github.com/harperreed/routines/internal/storage"
)

// Source names where a loaded catalog came from.
type Source string

const (
	SourceCache  Source = observability.SourceCache
	SourceRemote Source = observability.SourceRemote
	SourceDemo   Source = observability.SourceDemo
)

// Fetcher downloads the full exercise catalog.
type Fetcher interface {
	FetchExercises(ctx context.Context) ([]models.Exercise, error)
}

// Loader returns the exercise catalog and never fails.
type Loader struct {
	cache   storage.ExerciseCache
	remote  Fetcher
	metrics *observability.Metrics
}

// NewLoader creates a loader. remote may be nil, in which case a cache miss
// serves the demo list.
func NewLoader(cache storage.ExerciseCache, remote Fetcher, metrics *observability.Metrics) *Loader {
	return &Loader{cache: cache, remote: remote, metrics: metrics}
}

// Load returns the catalog.
func (l *Loader) Load(ctx context.Context) []models.Exercise {
	exercises, _ := l.LoadFrom(ctx)
	return exercises
}

// LoadFrom returns the catalog and where it came from. A non-empty cache is
// returned as is; there is no expiry. On a miss the remote catalog is fetched
// and written to the cache. A remote failure or an empty remote result serves
// the demo list, which is never cached.
func (l *Loader) LoadFrom(ctx context.Context) ([]models.Exercise, Source) {
	if cached := l.fromCache(ctx); len(cached) > 0 {
		l.metrics.CatalogLoad(string(SourceCache))
		return cached, SourceCache
	}

	if l.remote == nil {
		l.metrics.CatalogLoad(string(SourceDemo))
		return DemoExercises(), SourceDemo
	}

	fetched, err := l.remote.FetchExercises(ctx)
	if err != nil {
		log.WithError(err).Warn("fetch exercise catalog failed, using demo exercises")
		l.metrics.CatalogLoad(string(SourceDemo))
		return DemoExercises(), SourceDemo
	}
	if len(fetched) == 0 {
		log.Warn("exercise catalog is empty, using demo exercises")
		l.metrics.CatalogLoad(string(SourceDemo))
		return DemoExercises(), SourceDemo
	}

	if err := l.cache.CacheExercises(ctx, fetched); err != nil {
		log.WithError(err).Warn("caching exercise catalog failed")
	}
	l.metrics.CatalogLoad(string(SourceRemote))
	return fetched, SourceRemote
}

// Refresh drops the cache and loads again.
func (l *Loader) Refresh(ctx context.Context) ([]models.Exercise, Source) {
	if err := l.cache.ClearCache(ctx); err != nil {
		log.WithError(err).Warn("clearing exercise cache failed")
	}
	return l.LoadFrom(ctx)
}

// fromCache returns the cached catalog, or nil on a miss or a storage error.
func (l *Loader) fromCache(ctx context.Context) []models.Exercise {
	count, err := l.cache.GetCacheCount(ctx)
	if err != nil {
		log.WithError(err).Warn("reading exercise cache count failed")
		return nil
	}
	if count == 0 {
		return nil
	}

	cached, err := l.cache.GetAllCachedExercises(ctx)
	if err != nil {
		log.WithError(err).Warn("reading exercise cache failed")
		return nil
	}
	return models.ExercisesOf(cached)
}
