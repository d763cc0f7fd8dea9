package swrcache

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// RequestControl shares the network call for a key between concurrent
// requests. GetResponse joins (or starts) the call for key; every successful
// GetResponse must be paired with one Release of the same key.
type RequestControl[V, R any] interface {
	GetResponse(ctx context.Context, key string, req R) (V, error)
	Release(key string)
}

type flight struct {
	refs   int
	ctx    context.Context
	cancel context.CancelFunc
}

// Coalescer is a RequestControl over singleflight. The shared call runs under
// a context detached from any single caller; it is cancelled when the last
// holder releases the key while the call is still running.
type Coalescer[V, R any] struct {
	issuer Issuer[V, R]
	g      singleflight.Group

	mu      sync.Mutex
	flights map[string]*flight
}

var _ RequestControl[int, int] = (*Coalescer[int, int])(nil)

func NewCoalescer[V, R any](issuer Issuer[V, R]) *Coalescer[V, R] {
	return &Coalescer[V, R]{issuer: issuer, flights: make(map[string]*flight)}
}

func (c *Coalescer[V, R]) GetResponse(ctx context.Context, key string, req R) (V, error) {
	c.mu.Lock()
	fl, ok := c.flights[key]
	if !ok {
		fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		fl = &flight{ctx: fctx, cancel: cancel}
		c.flights[key] = fl
	}
	fl.refs++
	// joined under mu so a Release cannot Forget between the two steps
	ch := c.g.DoChan(key, func() (any, error) {
		return c.issuer(fl.ctx, req)
	})
	c.mu.Unlock()

	var zero V
	select {
	case r := <-ch:
		if r.Err != nil {
			return zero, r.Err
		}
		// a nil interface V arrives as a nil any
		v, _ := r.Val.(V)
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Release drops one reference to key. Unknown keys are ignored.
func (c *Coalescer[V, R]) Release(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fl, ok := c.flights[key]
	if !ok {
		return
	}
	fl.refs--
	if fl.refs > 0 {
		return
	}
	delete(c.flights, key)
	fl.cancel()
	// a cancelled call must not be joined by the next caller
	c.g.Forget(key)
}

// InFlight reports how many holders currently reference key.
func (c *Coalescer[V, R]) InFlight(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if fl, ok := c.flights[key]; ok {
		return fl.refs
	}
	return 0
}

// Issuer adapts the coalescer back into an Issuer. keyFn maps a request to
// the key calls are shared under.
func (c *Coalescer[V, R]) Issuer(keyFn func(R) string) Issuer[V, R] {
	return func(ctx context.Context, req R) (V, error) {
		key := keyFn(req)
		defer c.Release(key)
		return c.GetResponse(ctx, key, req)
	}
}
