package resilience

import "context"

// Cache is the minimal read-through interface the cache-fallback variant
// needs. Implementations must be safe for concurrent use.
type Cache[T any] interface {
	Get(ctx context.Context, key string) (T, bool)
	Set(ctx context.Context, key string, value T)
}

// ExecuteWithCacheFallback serves from cache when possible. A hit returns
// immediately without running work. On a miss, work runs once; success
// populates the cache and returns the fresh value, failure returns the
// caller-supplied default. Like ExecuteWithRetry this never returns an error.
func ExecuteWithCacheFallback[T any](ctx context.Context, e *Executor, cache Cache[T], key string, work func(context.Context) (T, error), def T) T {
	if value, ok := cache.Get(ctx, key); ok {
		e.stats.cacheHits.Add(1)
		e.logger.Debug("cache hit", "key", key)
		return value
	}

	e.stats.totalAttempts.Add(1)
	value, err := work(ctx)
	if err != nil {
		e.stats.fallbacksUsed.Add(1)
		e.logger.Warn("cache miss and operation failed, using default",
			"key", key, "error", err)
		return def
	}

	cache.Set(ctx, key, value)
	return value
}
