// Package promhooks counts swrcache events with Prometheus.
//
// Keys are never used as labels; only the event kind is.
package promhooks

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/unkn0wn-root/swrcache"
)

const (
	EventHit            = "hit"
	EventMiss           = "miss"
	EventExpired        = "expired"
	EventRefreshSkipped = "refresh_skipped"
	EventRefreshFailed  = "refresh_failed"
	EventRefreshAborted = "refresh_aborted"
	EventWriteFailed    = "store_write_failed"
)

type Hooks struct {
	events *prometheus.CounterVec
}

var _ swrcache.Hooks = (*Hooks)(nil)

// New builds the counters; namespace "" => "swrcache". Register them with
// Register before serving metrics.
func New(namespace string) *Hooks {
	if namespace == "" {
		namespace = "swrcache"
	}
	return &Hooks{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Total number of cache and refresh events by kind",
		}, []string{"event"}),
	}
}

// Register adds the counters to reg. Registering twice on one registry panics.
func (h *Hooks) Register(reg prometheus.Registerer) {
	reg.MustRegister(h.events)
}

// Counter exposes the counter for one event kind.
func (h *Hooks) Counter(event string) prometheus.Counter {
	return h.events.WithLabelValues(event)
}

func (h *Hooks) inc(event string) { h.events.WithLabelValues(event).Inc() }

func (h *Hooks) CacheHit(string)                { h.inc(EventHit) }
func (h *Hooks) CacheMiss(string)               { h.inc(EventMiss) }
func (h *Hooks) CacheExpired(string)            { h.inc(EventExpired) }
func (h *Hooks) RefreshSkipped(string)          { h.inc(EventRefreshSkipped) }
func (h *Hooks) RefreshFailed(string, error)    { h.inc(EventRefreshFailed) }
func (h *Hooks) RefreshAborted(string)          { h.inc(EventRefreshAborted) }
func (h *Hooks) StoreWriteFailed(string, error) { h.inc(EventWriteFailed) }
