package swrcache

import (
	"context"
	"sync"
	"time"

	"github.com/unkn0wn-root/swrcache/internal/util"
)

// cacheControl owns cache reads/writes and freshness for one Request.
// Its timestamp record is private; nothing is shared across requests except
// the Store itself.
type cacheControl[V any] struct {
	mode     CacheMode
	minFresh time.Duration
	maxAge   time.Duration
	store    Store[V]
	keys     util.Prefixer
	now      func() time.Time
	hooks    Hooks

	mu sync.Mutex
	ts map[string]int64 // logical key -> unix ms
}

func newCacheControl[V any](p policy[V]) *cacheControl[V] {
	return &cacheControl[V]{
		mode:     p.mode,
		minFresh: p.minFresh,
		maxAge:   p.maxAge,
		store:    p.store,
		keys:     util.Prefixer{Prefix: p.keyPrefix},
		now:      p.now,
		hooks:    p.hooks,
		ts:       make(map[string]int64),
	}
}

func (c *cacheControl[V]) nowMs() int64 { return c.now().UnixMilli() }

// isFresh is false for keys this instance never read or wrote.
func (c *cacheControl[V]) isFresh(key string) bool {
	c.mu.Lock()
	ts, ok := c.ts[key]
	c.mu.Unlock()
	if !ok {
		return false
	}
	return c.nowMs()-ts < c.minFresh.Milliseconds()
}

func (c *cacheControl[V]) get(ctx context.Context, key string) (V, bool, error) {
	var zero V
	sk := c.keys.WithPrefix(key)
	if c.mode == ModeNoStore || c.mode == ModeNoCache || c.store == nil {
		c.hooks.CacheMiss(sk)
		return zero, false, nil
	}

	e, ok, err := c.store.Get(ctx, sk)
	if err != nil {
		return zero, false, &StoreError{Op: "get", Key: sk, Err: err}
	}
	if !ok {
		c.hooks.CacheMiss(sk)
		return zero, false, nil
	}

	// First observed timestamp wins: a later read of the same key in this
	// instance does not move it, only set does.
	c.mu.Lock()
	if _, seen := c.ts[key]; !seen {
		c.ts[key] = e.Timestamp
	}
	c.mu.Unlock()

	if c.mode == ModeDefault && c.nowMs()-e.Timestamp > c.maxAge.Milliseconds() {
		// logically expired; the entry stays in the store
		c.hooks.CacheExpired(sk)
		return zero, false, nil
	}
	c.hooks.CacheHit(sk)
	return e.Value, true, nil
}

func (c *cacheControl[V]) set(ctx context.Context, key string, v V) error {
	if c.mode == ModeNoStore || c.store == nil {
		return nil
	}
	now := c.nowMs()
	c.mu.Lock()
	c.ts[key] = now
	c.mu.Unlock()

	sk := c.keys.WithPrefix(key)
	if err := c.store.Set(ctx, sk, Entry[V]{Value: v, Timestamp: now}); err != nil {
		return &StoreError{Op: "set", Key: sk, Err: err}
	}
	return nil
}
