package swrcache

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/unkn0wn-root/swrcache"

// policy is the resolved per-request configuration.
type policy[V any] struct {
	mode      CacheMode
	minFresh  time.Duration
	maxAge    time.Duration
	keyPrefix string
	store     Store[V]
	now       func() time.Time
	hooks     Hooks
	tracer    trace.Tracer // nil => tracing off
}

// Request runs the cache-then-maybe-network protocol for one key, once.
// It is created per logical fetch and discarded after its chain is consumed.
type Request[V, R any] struct {
	key    string
	req    R
	issuer Issuer[V, R]
	pol    policy[V]
	cc     *cacheControl[V]
	log    Logger

	once sync.Once
	resp *Future[Response[V]]

	mu      sync.Mutex
	aborted bool
	abortCh chan struct{}
	cancel  context.CancelFunc // set once the network stage starts
}

func newRequest[V, R any](key string, req R, issuer Issuer[V, R], pol policy[V], log Logger) *Request[V, R] {
	return &Request[V, R]{
		key:     key,
		req:     req,
		issuer:  issuer,
		pol:     pol,
		cc:      newCacheControl(pol),
		log:     log,
		abortCh: make(chan struct{}),
	}
}

// Key returns the logical (un-prefixed) cache key.
func (r *Request[V, R]) Key() string { return r.key }

// Run starts the protocol on first call and returns the future of the first
// stage. Every later call, from any goroutine, returns that same future.
// ctx of the first call bounds store access and the network stage.
//
// A failing Store read rejects the returned future with a *StoreError;
// every other outcome, including refresh failures, resolves it.
func (r *Request[V, R]) Run(ctx context.Context) *Future[Response[V]] {
	r.once.Do(func() {
		r.resp = newFuture[Response[V]]()
		go r.run(ctx)
	})
	return r.resp
}

// Abort cancels the request. Stages already settled keep their value; the
// pending one settles with ErrAborted. Safe to call repeatedly.
func (r *Request[V, R]) Abort() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.aborted {
		return
	}
	r.aborted = true
	close(r.abortCh)
	if r.cancel != nil {
		r.cancel()
	}
}

func (r *Request[V, R]) isAborted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.aborted
}

func (r *Request[V, R]) sk() string { return r.cc.keys.WithPrefix(r.key) }

func (r *Request[V, R]) run(ctx context.Context) {
	v, ok, err := r.cc.get(ctx, r.key)
	if err != nil {
		r.log.Error("cache read failed", Fields{"err": err})
		r.resp.reject(err)
		return
	}
	if r.isAborted() {
		r.log.Debug("aborted before cache stage", nil)
		r.pol.hooks.RefreshAborted(r.sk())
		r.resp.resolve(abortedResponse[V]())
		return
	}

	first := Response[V]{Value: v, OK: ok}
	var next *Future[Response[V]]
	switch {
	case r.pol.mode == ModeOnlyIfCached:
		r.log.Debug("only-if-cached, no refresh", Fields{"hit": ok})
	case r.cc.isFresh(r.key):
		r.log.Debug("cache fresh, refresh skipped", Fields{"hit": ok})
		r.pol.hooks.RefreshSkipped(r.sk())
	default:
		next = newFuture[Response[V]]()
		first.Next = next
	}
	r.resp.resolve(first)

	if next != nil {
		next.resolve(r.refresh(ctx))
	}
}

type outcome[V any] struct {
	v   V
	err error
}

// refresh performs the network stage and returns the node to settle it with.
func (r *Request[V, R]) refresh(ctx context.Context) (res Response[V]) {
	var span trace.Span
	if r.pol.tracer != nil {
		ctx, span = r.pol.tracer.Start(ctx, "swrcache.refresh",
			trace.WithAttributes(
				attribute.String("swrcache.key", r.sk()),
				attribute.String("swrcache.mode", r.pol.mode.String()),
			))
		defer func() {
			switch {
			case IsAborted(res.Err):
				span.SetAttributes(attribute.String("swrcache.result", "aborted"))
			case res.Err != nil:
				span.RecordError(res.Err)
				span.SetStatus(codes.Error, "refresh failed")
			default:
				span.SetAttributes(attribute.String("swrcache.result", "ok"))
			}
			span.End()
		}()
	}

	cctx, cancel := context.WithCancel(ctx)
	defer cancel()

	r.mu.Lock()
	if r.aborted {
		r.mu.Unlock()
		return r.abortedStage("aborted before network stage")
	}
	r.cancel = cancel
	r.mu.Unlock()

	r.log.Debug("refresh started", nil)
	done := make(chan outcome[V], 1)
	go func() {
		v, err := r.issuer(cctx, r.req)
		done <- outcome[V]{v: v, err: err}
	}()

	var o outcome[V]
	select {
	case <-r.abortCh:
		// the issuer may keep running if it ignores ctx; its result is dropped
		return r.abortedStage("aborted during network stage")
	case o = <-done:
	}
	if r.isAborted() {
		return r.abortedStage("aborted during network stage")
	}

	if o.err != nil {
		err := &RefreshError{Key: r.key, Err: o.err}
		r.log.Warn("refresh failed", Fields{"err": o.err})
		r.pol.hooks.RefreshFailed(r.sk(), err)
		return Response[V]{Err: err}
	}

	if err := r.cc.set(ctx, r.key, o.v); err != nil {
		r.log.Error("cache write failed", Fields{"err": err})
		r.pol.hooks.StoreWriteFailed(r.sk(), err)
	}
	r.log.Debug("refresh done", nil)
	return Response[V]{Value: o.v, OK: true}
}

func (r *Request[V, R]) abortedStage(msg string) Response[V] {
	r.log.Debug(msg, nil)
	r.pol.hooks.RefreshAborted(r.sk())
	return abortedResponse[V]()
}
