package swrcache

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// CacheMode selects how the cache is consulted for a fetch.
type CacheMode int

const (
	ModeDefault CacheMode = iota
	ModeNoStore
	ModeNoCache
	ModeForceCache
	ModeOnlyIfCached
)

func (m CacheMode) String() string {
	switch m {
	case ModeDefault:
		return "default"
	case ModeNoStore:
		return "no-store"
	case ModeNoCache:
		return "no-cache"
	case ModeForceCache:
		return "force-cache"
	case ModeOnlyIfCached:
		return "only-if-cached"
	default:
		return fmt.Sprintf("CacheMode(%d)", int(m))
	}
}

// Issuer performs the real request for req. ctx is cancelled when the owning
// Request is aborted; implementations must return promptly when it is.
type Issuer[V, R any] func(ctx context.Context, req R) (V, error)

// Result is what Fetch hands back: the first stage of the response chain and
// the abort function of the Request that produces it.
type Result[V any] struct {
	Response *Future[Response[V]]
	Abort    func()
}

// Fetcher issues cached requests of type R producing values of type V.
type Fetcher[V, R any] interface {
	// Fetch derives the cache key from req (Options.KeyFunc or WithKey),
	// starts a new Request and runs it.
	Fetch(ctx context.Context, req R, opts ...FetchOption) Result[V]
	// Request builds an un-started Request under an explicit key.
	Request(key string, req R, opts ...FetchOption) *Request[V, R]
}

// Options configure a Fetcher. Issuer is always required; Cache is required
// unless Mode is ModeNoStore. Durations follow the zero-means-zero rule: a
// zero MinFresh never considers anything fresh and a zero MaxAge expires every
// entry with positive age in ModeDefault.
type Options[V, R any] struct {
	// Required
	Issuer Issuer[V, R]
	Cache  Store[V]

	Mode      CacheMode
	MinFresh  time.Duration // refresh is skipped while an entry is younger than this
	MaxAge    time.Duration // ModeDefault only: older entries read as misses
	KeyPrefix string        // namespaces keys inside a shared Cache
	KeyFunc   func(R) string

	Log    LogMode
	Logger Logger // used when Log == LogCustom
	Name   string // request logger tag; "" => "swrcache"
	Hooks  Hooks  // nil => NopHooks

	// Dedup shares one in-flight Issuer call between concurrent network
	// stages of the same key (see Coalescer).
	Dedup bool

	// Tracing wraps each network stage in an OpenTelemetry span.
	// TracerProvider nil => otel global provider.
	Tracing        bool
	TracerProvider trace.TracerProvider

	Now func() time.Time // nil => time.Now
}

// FetchOption overrides fetcher-level policy for a single fetch.
type FetchOption func(*fetchConfig)

type fetchConfig struct {
	key      string
	mode     CacheMode
	minFresh time.Duration
	maxAge   time.Duration
}

func WithMode(m CacheMode) FetchOption { return func(c *fetchConfig) { c.mode = m } }

func WithMinFresh(d time.Duration) FetchOption { return func(c *fetchConfig) { c.minFresh = d } }

func WithMaxAge(d time.Duration) FetchOption { return func(c *fetchConfig) { c.maxAge = d } }

// WithKey bypasses Options.KeyFunc for this fetch.
func WithKey(key string) FetchOption { return func(c *fetchConfig) { c.key = key } }

func New[V, R any](opts Options[V, R]) (Fetcher[V, R], error) {
	f, err := newFetcher(opts)
	if err != nil {
		return nil, err
	}
	return f, nil
}
