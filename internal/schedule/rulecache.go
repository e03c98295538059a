package schedule

import (
	"context"
	"sync"
	"time"
)

// RuleCache stores parsed availability rules keyed by technician id so a
// technician's text is parsed once per session.
type RuleCache interface {
	Get(ctx context.Context, technicianID int) (Rule, bool)
	Set(ctx context.Context, technicianID int, r Rule)
}

// MemoryRuleCache is a small in-process TTL cache.
type MemoryRuleCache struct {
	mu    sync.RWMutex
	store map[int]memEntry
	ttl   time.Duration
}

type memEntry struct {
	r  Rule
	ts time.Time
}

func NewMemoryRuleCache(ttl time.Duration) *MemoryRuleCache {
	return &MemoryRuleCache{store: make(map[int]memEntry), ttl: ttl}
}

func (c *MemoryRuleCache) Get(_ context.Context, technicianID int) (Rule, bool) {
	c.mu.RLock()
	e, ok := c.store[technicianID]
	c.mu.RUnlock()
	if !ok {
		return Rule{}, false
	}
	if c.ttl > 0 && time.Since(e.ts) > c.ttl {
		c.mu.Lock()
		delete(c.store, technicianID)
		c.mu.Unlock()
		return Rule{}, false
	}
	return e.r, true
}

func (c *MemoryRuleCache) Set(_ context.Context, technicianID int, r Rule) {
	c.mu.Lock()
	c.store[technicianID] = memEntry{r: r, ts: time.Now()}
	c.mu.Unlock()
}

// RuleFor returns the cached rule for a technician, parsing and caching the
// availability text on a miss. The parse never fails, so neither does this.
func RuleFor(ctx context.Context, cache RuleCache, technicianID int, availability string) Rule {
	if cache != nil {
		if r, ok := cache.Get(ctx, technicianID); ok {
			return r
		}
	}
	r, _ := ParseAvailability(availability)
	if cache != nil {
		cache.Set(ctx, technicianID, r)
	}
	return r
}
