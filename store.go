package swrcache

import "context"

// Entry is what a Store keeps per key. Timestamp is the write time in unix
// milliseconds and is never rewritten on read.
type Entry[V any] struct {
	Value     V
	Timestamp int64
}

// Store persists entries. It is shared by every Request of a Fetcher and
// must be safe for concurrent use. Writes to one key are assumed to be
// applied in order.
type Store[V any] interface {
	// Get returns (entry, true, nil) on hit and (zero, false, nil) on miss.
	Get(ctx context.Context, key string) (Entry[V], bool, error)
	Set(ctx context.Context, key string, e Entry[V]) error
	// Remove deletes key. Missing keys are not an error.
	Remove(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}
