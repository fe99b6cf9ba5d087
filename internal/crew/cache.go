package crew

import (
	"context"
	"time"

	"github.com/angelmondragon/crewstock-backend/pkg/logger"
	"github.com/angelmondragon/crewstock-backend/pkg/redis"
	"github.com/angelmondragon/crewstock-backend/pkg/types"
)

const (
	cachedAllowed = "1"
	cachedDenied  = "0"
)

type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	AllowlistKey(normalizedEmail string) string
}

// CachedChecker memoizes allowlist decisions in redis. Cache failures fall
// through to the wrapped checker.
type CachedChecker struct {
	next  Checker
	store cacheStore
	ttl   time.Duration
	logg  *logger.Logger
}

func NewCachedChecker(next Checker, store cacheStore, ttl time.Duration, logg *logger.Logger) *CachedChecker {
	return &CachedChecker{next: next, store: store, ttl: ttl, logg: logg}
}

func (c *CachedChecker) IsAllowed(ctx context.Context, email string) (bool, error) {
	normalized := types.NormalizeEmail(email)
	if normalized == "" {
		return false, nil
	}
	if c.store == nil || c.ttl <= 0 {
		return c.next.IsAllowed(ctx, normalized)
	}

	key := c.store.AllowlistKey(normalized)
	cached, err := c.store.Get(ctx, key)
	switch {
	case err == nil:
		return cached == cachedAllowed, nil
	case !redis.IsNil(err):
		c.warn(ctx, err, "allowlist.cache_read_failed")
	}

	allowed, err := c.next.IsAllowed(ctx, normalized)
	if err != nil {
		return false, err
	}
	value := cachedDenied
	if allowed {
		value = cachedAllowed
	}
	if err := c.store.Set(ctx, key, value, c.ttl); err != nil {
		c.warn(ctx, err, "allowlist.cache_write_failed")
	}
	return allowed, nil
}

// Invalidate drops the cached decision for email.
func (c *CachedChecker) Invalidate(ctx context.Context, email string) error {
	if c.store == nil {
		return nil
	}
	return c.store.Del(ctx, c.store.AllowlistKey(types.NormalizeEmail(email)))
}

func (c *CachedChecker) warn(ctx context.Context, err error, msg string) {
	if c.logg == nil {
		return
	}
	c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), msg)
}
