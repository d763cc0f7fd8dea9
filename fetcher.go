package swrcache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/unkn0wn-root/swrcache/internal/util"
)

const defaultName = "swrcache"

type fetcher[V, R any] struct {
	issuer  Issuer[V, R]
	pol     policy[V]
	keyFunc func(R) string
	log     Logger
	name    string
	co      *Coalescer[V, R] // nil unless Options.Dedup
}

var _ Fetcher[int, string] = (*fetcher[int, string])(nil)

func newFetcher[V, R any](opts Options[V, R]) (*fetcher[V, R], error) {
	if opts.Issuer == nil {
		return nil, fmt.Errorf("swrcache: issuer is required")
	}
	if err := validMode(opts.Mode); err != nil {
		return nil, err
	}
	if opts.Cache == nil && opts.Mode != ModeNoStore {
		return nil, fmt.Errorf("swrcache: cache is required unless mode is %s", ModeNoStore)
	}
	if opts.MinFresh < 0 || opts.MaxAge < 0 {
		return nil, fmt.Errorf("swrcache: durations must not be negative")
	}
	log, err := resolveLogger(opts.Log, opts.Logger)
	if err != nil {
		return nil, err
	}

	f := &fetcher[V, R]{
		issuer:  opts.Issuer,
		keyFunc: opts.KeyFunc,
		log:     log,
		name:    coalesce(opts.Name, defaultName),
	}
	f.pol = policy[V]{
		mode:      opts.Mode,
		minFresh:  opts.MinFresh,
		maxAge:    opts.MaxAge,
		keyPrefix: opts.KeyPrefix,
		store:     opts.Cache,
		now:       opts.Now,
		hooks:     coalesce[Hooks](opts.Hooks, NopHooks{}),
	}
	if f.pol.now == nil {
		f.pol.now = time.Now
	}
	if f.keyFunc == nil {
		f.keyFunc = func(req R) string { return util.HashKey(req) }
	}
	if opts.Tracing {
		tp := opts.TracerProvider
		if tp == nil {
			tp = otel.GetTracerProvider()
		}
		f.pol.tracer = tp.Tracer(tracerName)
	}
	if opts.Dedup {
		f.co = NewCoalescer(opts.Issuer)
	}
	return f, nil
}

func validMode(m CacheMode) error {
	if m < ModeDefault || m > ModeOnlyIfCached {
		return fmt.Errorf("swrcache: unknown cache mode %d", int(m))
	}
	return nil
}

func (f *fetcher[V, R]) Request(key string, req R, opts ...FetchOption) *Request[V, R] {
	cfg := fetchConfig{
		key:      key,
		mode:     f.pol.mode,
		minFresh: f.pol.minFresh,
		maxAge:   f.pol.maxAge,
	}
	for _, o := range opts {
		o(&cfg)
	}
	if validMode(cfg.mode) != nil {
		f.log.Warn("unknown cache mode, using default", Fields{"mode": int(cfg.mode)})
		cfg.mode = ModeDefault
	}

	pol := f.pol
	pol.mode, pol.minFresh, pol.maxAge = cfg.mode, cfg.minFresh, cfg.maxAge

	issuer := f.issuer
	if f.co != nil {
		sk := pol.keyPrefix + cfg.key
		issuer = f.co.Issuer(func(R) string { return sk })
	}
	return newRequest(cfg.key, req, issuer, pol, f.requestLog(cfg.key, req))
}

func (f *fetcher[V, R]) Fetch(ctx context.Context, req R, opts ...FetchOption) Result[V] {
	var probe fetchConfig
	for _, o := range opts {
		o(&probe)
	}
	key := probe.key
	if key == "" {
		key = f.keyFunc(req)
	}
	r := f.Request(key, req, opts...)
	return Result[V]{Response: r.Run(ctx), Abort: r.Abort}
}

func (f *fetcher[V, R]) requestLog(key string, req R) Logger {
	if _, off := f.log.(NopLogger); off {
		return f.log
	}
	return requestLogger{
		base:   f.log,
		prefix: f.name + "<" + util.Describe(f.pol.keyPrefix, key, req) + "> ",
		fields: Fields{"request_id": uuid.NewString()},
	}
}
