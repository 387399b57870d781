package restore

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/willibrandon/depresolve/core/resolver"
	"github.com/willibrandon/depresolve/observability"
)

// GraphCache caches a resolved graph's AnalyzeResult by (project,
// framework), the same single-writer-wins shape
// core/resolver.OperationCache uses for in-flight metadata fetches:
// concurrent requests for the same key share one resolve via
// sync.Once, and only the winner's result is ever stored.
type GraphCache struct {
	entries sync.Map // key -> *graphCacheEntry
	logger  observability.Logger
}

type graphCacheEntry struct {
	once   sync.Once
	result *cachedGraph
}

type cachedGraph struct {
	analysis   *resolver.AnalyzeResult
	unresolved []resolver.UnresolvedPackage
	err        error
}

// NewGraphCache creates an empty GraphCache. A nil logger is replaced
// with a no-op logger.
func NewGraphCache(logger observability.Logger) *GraphCache {
	if logger == nil {
		logger = observability.NewNullLogger()
	}
	return &GraphCache{logger: logger}
}

// GetOrResolve returns the cached resolve for (project, framework) if
// one has already run, or runs resolve and caches its result otherwise.
// Concurrent calls for the same key block on the same resolve instead of
// duplicating it.
func (c *GraphCache) GetOrResolve(
	ctx context.Context,
	project, framework string,
	resolve func(ctx context.Context) (*resolver.AnalyzeResult, []resolver.UnresolvedPackage, error),
) (*resolver.AnalyzeResult, []resolver.UnresolvedPackage, error) {
	key := fmt.Sprintf("%s|%s", project, framework)
	requestID := uuid.New().String()
	log := c.logger.ForContext("component", "graph-cache").ForContext("requestId", requestID)

	actual, loaded := c.entries.LoadOrStore(key, &graphCacheEntry{})
	entry := actual.(*graphCacheEntry)

	if loaded {
		observability.RestoreCacheHitsTotal.WithLabelValues(framework).Inc()
		log.Debug("cache hit for {Key}", key)
	} else {
		observability.RestoreCacheMissesTotal.WithLabelValues(framework).Inc()
		log.Debug("cache miss for {Key}, resolving", key)
	}

	entry.once.Do(func() {
		analysis, unresolved, err := resolve(ctx)
		entry.result = &cachedGraph{analysis: analysis, unresolved: unresolved, err: err}
	})

	return entry.result.analysis, entry.result.unresolved, entry.result.err
}

// Clear discards every cached resolve.
func (c *GraphCache) Clear() {
	c.entries.Range(func(key, _ any) bool {
		c.entries.Delete(key)
		return true
	})
}
