package sloghooks

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func newBuf() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return l, &buf
}

func TestRedactsKeysByDefault(t *testing.T) {
	l, buf := newBuf()
	h := New(l, Options{})
	h.RefreshFailed("user:secret", errors.New("boom"))

	out := buf.String()
	if strings.Contains(out, "user:secret") {
		t.Fatalf("raw key leaked: %s", out)
	}
	if !strings.Contains(out, "swrcache.refresh_failed") || !strings.Contains(out, "boom") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestSamplingAndCustomRedact(t *testing.T) {
	l, buf := newBuf()
	h := New(l, Options{HitEvery: 3, Redact: func(k string) string { return "K" }})
	for i := 0; i < 6; i++ {
		h.CacheHit("k")
	}
	if n := strings.Count(buf.String(), "swrcache.cache_hit"); n != 2 {
		t.Fatalf("sampled hits = %d, want 2", n)
	}
	if !strings.Contains(buf.String(), "key=K") {
		t.Fatalf("custom redactor not used: %s", buf.String())
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	h := New(nil, Options{})
	h.CacheMiss("k")
	h.StoreWriteFailed("k", errors.New("x"))
}
