package swrcache

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking; wrap slow sinks with
// hooks/async. Keys are storage (prefixed) keys.
type Hooks interface {
	// The cache stage found a usable entry.
	CacheHit(storageKey string)
	// The cache stage found nothing (including bypassed reads).
	CacheMiss(storageKey string)
	// Default mode: an entry older than MaxAge was read and ignored.
	CacheExpired(storageKey string)

	// The cached timestamp was within MinFresh, no network stage attached.
	RefreshSkipped(storageKey string)
	// The Issuer failed; err is the RefreshError delivered to the chain.
	RefreshFailed(storageKey string, err error)
	// A stage was replaced by ErrAborted.
	RefreshAborted(storageKey string)

	// A refreshed value could not be written back. The value is still
	// delivered to the caller.
	StoreWriteFailed(storageKey string, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) CacheHit(string)                {}
func (NopHooks) CacheMiss(string)               {}
func (NopHooks) CacheExpired(string)            {}
func (NopHooks) RefreshSkipped(string)          {}
func (NopHooks) RefreshFailed(string, error)    {}
func (NopHooks) RefreshAborted(string)          {}
func (NopHooks) StoreWriteFailed(string, error) {}
