package swrcache

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

type memStore[V any] struct {
	mu     sync.Mutex
	m      map[string]Entry[V]
	gets   atomic.Int32
	sets   atomic.Int32
	getErr error
	setErr error
	gate   chan struct{} // when set, Get blocks until it is closed
}

var _ Store[int] = (*memStore[int])(nil)

func newMemStore[V any]() *memStore[V] { return &memStore[V]{m: make(map[string]Entry[V])} }

func (s *memStore[V]) Get(ctx context.Context, key string) (Entry[V], bool, error) {
	s.gets.Add(1)
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return Entry[V]{}, false, ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return Entry[V]{}, false, s.getErr
	}
	e, ok := s.m[key]
	return e, ok, nil
}

func (s *memStore[V]) Set(_ context.Context, key string, e Entry[V]) error {
	s.sets.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.m[key] = e
	return nil
}

func (s *memStore[V]) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.m, key)
	s.mu.Unlock()
	return nil
}

func (s *memStore[V]) Keys(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.m))
	for k := range s.m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out, nil
}

func (s *memStore[V]) put(key string, v V, ts time.Time) {
	s.mu.Lock()
	s.m[key] = Entry[V]{Value: v, Timestamp: ts.UnixMilli()}
	s.mu.Unlock()
}

func (s *memStore[V]) peek(key string) (Entry[V], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[key]
	return e, ok
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *fakeClock { return &fakeClock{t: time.UnixMilli(1_700_000_000_000)} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type recHooks struct {
	mu     sync.Mutex
	events []string
	errs   []error
}

func (h *recHooks) add(ev, key string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, ev+":"+key)
	if err != nil {
		h.errs = append(h.errs, err)
	}
}

func (h *recHooks) CacheHit(k string)                    { h.add("hit", k, nil) }
func (h *recHooks) CacheMiss(k string)                   { h.add("miss", k, nil) }
func (h *recHooks) CacheExpired(k string)                { h.add("expired", k, nil) }
func (h *recHooks) RefreshSkipped(k string)              { h.add("skipped", k, nil) }
func (h *recHooks) RefreshFailed(k string, err error)    { h.add("failed", k, err) }
func (h *recHooks) RefreshAborted(k string)              { h.add("aborted", k, nil) }
func (h *recHooks) StoreWriteFailed(k string, err error) { h.add("write_failed", k, err) }

func (h *recHooks) has(ev string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, e := range h.events {
		if e == ev {
			return true
		}
	}
	return false
}

type logLine struct {
	level string
	msg   string
	f     Fields
}

type recLogger struct {
	mu    sync.Mutex
	lines []logLine
}

func (l *recLogger) add(level, msg string, f Fields) {
	l.mu.Lock()
	l.lines = append(l.lines, logLine{level, msg, f})
	l.mu.Unlock()
}

func (l *recLogger) Debug(msg string, f Fields) { l.add("debug", msg, f) }
func (l *recLogger) Info(msg string, f Fields)  { l.add("info", msg, f) }
func (l *recLogger) Warn(msg string, f Fields)  { l.add("warn", msg, f) }
func (l *recLogger) Error(msg string, f Fields) { l.add("error", msg, f) }

func (l *recLogger) snapshot() []logLine {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]logLine(nil), l.lines...)
}

// countingIssuer returns v for every call, optionally blocking on gate.
type countingIssuer[V any] struct {
	v     V
	err   error
	calls atomic.Int32
	gate  chan struct{}
	ctxs  chan context.Context
}

func (i *countingIssuer[V]) issue(ctx context.Context, _ string) (V, error) {
	i.calls.Add(1)
	if i.ctxs != nil {
		i.ctxs <- ctx
	}
	if i.gate != nil {
		select {
		case <-i.gate:
		case <-ctx.Done():
			var zero V
			return zero, ctx.Err()
		}
	}
	return i.v, i.err
}

var errBoom = errors.New("boom")

// chainOf builds an already settled chain from nodes; Next links are filled in.
func chainOf[V any](nodes ...Response[V]) *Future[Response[V]] {
	var next *Future[Response[V]]
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		n.Next = next
		next = Resolved(n)
	}
	return next
}

func collect[V any](t interface{ Fatalf(string, ...any) }, f *Future[Response[V]]) []Response[V] {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	var out []Response[V]
	for f != nil {
		n, err := f.Wait(ctx)
		if err != nil {
			t.Fatalf("chain wait: %v", err)
		}
		out = append(out, n)
		f = n.Next
	}
	return out
}
