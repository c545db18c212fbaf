package store

import (
	"context"
	"sync"

	"github.com/examkit/examkit/internal/domain"
)

// KeywordCache is a read-mostly cache in front of keyword lookups. It
// implements resilience.Cache[*domain.DifficultyKeywords] and is caller-owned:
// the process creates one instance and injects it wherever keyword lookups
// happen, so repeated rounds share warm entries.
type KeywordCache struct {
	mu    sync.RWMutex
	items map[string]*domain.DifficultyKeywords
}

// NewKeywordCache returns an empty cache.
func NewKeywordCache() *KeywordCache {
	return &KeywordCache{items: make(map[string]*domain.DifficultyKeywords)}
}

// Get returns the cached vocabulary for key, if present.
func (c *KeywordCache) Get(_ context.Context, key string) (*domain.DifficultyKeywords, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.items[key]
	return v, ok
}

// Set stores a vocabulary under key.
func (c *KeywordCache) Set(_ context.Context, key string, value *domain.DifficultyKeywords) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
}
