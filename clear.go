package swrcache

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

const clearParallelism = 16

// ClearCache removes entries from s and returns how many were removed.
// maxAge <= 0 removes every key; otherwise entries aged maxAge or more are
// removed. Keys that vanish meanwhile are skipped.
func ClearCache[V any](ctx context.Context, s Store[V], maxAge time.Duration) (int, error) {
	return clearBefore(ctx, s, maxAge, time.Now())
}

func clearBefore[V any](ctx context.Context, s Store[V], maxAge time.Duration, now time.Time) (int, error) {
	keys, err := s.Keys(ctx)
	if err != nil {
		return 0, &StoreError{Op: "keys", Err: err}
	}

	var removed atomic.Int64
	cutoff := now.UnixMilli() - maxAge.Milliseconds()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(clearParallelism)
	for _, k := range keys {
		g.Go(func() error {
			if maxAge > 0 {
				e, ok, err := s.Get(gctx, k)
				if err != nil {
					return &StoreError{Op: "get", Key: k, Err: err}
				}
				if !ok || e.Timestamp > cutoff {
					return nil
				}
			}
			if err := s.Remove(gctx, k); err != nil {
				return &StoreError{Op: "remove", Key: k, Err: err}
			}
			removed.Add(1)
			return nil
		})
	}
	err = g.Wait()
	return int(removed.Load()), err
}
