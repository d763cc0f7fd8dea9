package promhooks

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountsByEvent(t *testing.T) {
	h := New("")
	reg := prometheus.NewRegistry()
	h.Register(reg)

	h.CacheHit("a")
	h.CacheHit("b")
	h.CacheMiss("a")
	h.RefreshFailed("a", errors.New("x"))

	if got := testutil.ToFloat64(h.Counter(EventHit)); got != 2 {
		t.Fatalf("hits = %v", got)
	}
	if got := testutil.ToFloat64(h.Counter(EventMiss)); got != 1 {
		t.Fatalf("misses = %v", got)
	}
	if got := testutil.ToFloat64(h.Counter(EventRefreshFailed)); got != 1 {
		t.Fatalf("failures = %v", got)
	}
	if n := testutil.CollectAndCount(h.events, "swrcache_events_total"); n != 3 {
		t.Fatalf("series = %d", n)
	}
}

func TestRegisterTwicePanics(t *testing.T) {
	h := New("app")
	reg := prometheus.NewRegistry()
	h.Register(reg)
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	h.Register(reg)
}
