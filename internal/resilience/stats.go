package resilience

import "sync/atomic"

// stats accumulates executor counters with atomic operations so concurrent
// callers never contend on a lock.
type stats struct {
	totalAttempts atomic.Int64
	fallbacksUsed atomic.Int64
	cacheHits     atomic.Int64
	regenerations atomic.Int64
}

func (s *stats) snapshot() StatsSnapshot {
	return StatsSnapshot{
		TotalAttempts: s.totalAttempts.Load(),
		FallbacksUsed: s.fallbacksUsed.Load(),
		CacheHits:     s.cacheHits.Load(),
		Regenerations: s.regenerations.Load(),
	}
}

// StatsSnapshot is a point-in-time copy of executor counters.
type StatsSnapshot struct {
	TotalAttempts int64 `json:"total_attempts"`
	FallbacksUsed int64 `json:"fallbacks_used"`
	CacheHits     int64 `json:"cache_hits"`
	Regenerations int64 `json:"regenerations"`
}
