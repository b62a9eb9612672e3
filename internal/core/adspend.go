package core

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

// AdSpendSource reports a user's external advertising spend in cents. The
// ad platform integration lives behind this interface.
type AdSpendSource interface {
	AdSpendCents(ctx context.Context, userID string) (int64, error)
}

// StaticAdSpend reports the same amount for every user.
type StaticAdSpend int64

func (s StaticAdSpend) AdSpendCents(context.Context, string) (int64, error) {
	return int64(s), nil
}

// AdSpendFunc adapts a function to AdSpendSource.
type AdSpendFunc func(ctx context.Context, userID string) (int64, error)

func (f AdSpendFunc) AdSpendCents(ctx context.Context, userID string) (int64, error) {
	return f(ctx, userID)
}

// CachedAdSpend memoizes another source per user for a fixed TTL. Errors are
// not cached.
type CachedAdSpend struct {
	src   AdSpendSource
	cache *cache.Cache
}

// NewCachedAdSpend wraps src with a TTL cache. A non-positive ttl disables
// expiry.
func NewCachedAdSpend(src AdSpendSource, ttl time.Duration) *CachedAdSpend {
	cleanup := 2 * ttl
	if ttl <= 0 {
		ttl = cache.NoExpiration
		cleanup = 0
	}
	return &CachedAdSpend{
		src:   src,
		cache: cache.New(ttl, cleanup),
	}
}

func (c *CachedAdSpend) AdSpendCents(ctx context.Context, userID string) (int64, error) {
	key := "adspend:" + userID
	if v, ok := c.cache.Get(key); ok {
		return v.(int64), nil
	}

	cents, err := c.src.AdSpendCents(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("ad spend for %s: %w", userID, err)
	}
	c.cache.Set(key, cents, cache.DefaultExpiration)
	return cents, nil
}

// Invalidate drops the cached value for one user.
func (c *CachedAdSpend) Invalidate(userID string) {
	c.cache.Delete("adspend:" + userID)
}
