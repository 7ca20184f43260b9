package service

import (
	"sync"
	"time"

	"github.com/bogdan-labs/bogdanai/internal/domain"
)

// modelCatalog memoizes the fetched model list for a fixed window so
// paging through the model picker does not hit the API on every tap.
type modelCatalog struct {
	mu        sync.Mutex
	now       Clock
	ttl       time.Duration
	models    []domain.AIModel
	expiresAt time.Time
}

func newModelCatalog(ttl time.Duration, now Clock) *modelCatalog {
	if now == nil {
		now = time.Now
	}
	return &modelCatalog{now: now, ttl: ttl}
}

// Cached returns the memoized list, or ok=false once the window lapses.
func (c *modelCatalog) Cached() ([]domain.AIModel, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.models) == 0 || c.now().After(c.expiresAt) {
		return nil, false
	}
	return c.models, true
}

func (c *modelCatalog) Store(models []domain.AIModel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.models = models
	c.expiresAt = c.now().Add(c.ttl)
}
