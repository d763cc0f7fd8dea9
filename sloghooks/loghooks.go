// Package sloghooks reports swrcache events through log/slog.
package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/swrcache"
)

type Options struct {
	// Sampling to avoid floods on hot paths; 0/1 = log all.
	HitEvery  uint64
	MissEvery uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	hitCtr  atomic.Uint64
	missCtr atomic.Uint64
}

var _ swrcache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) CacheHit(storageKey string) {
	if h.l == nil || !sample(h.opts.HitEvery, &h.hitCtr) {
		return
	}
	h.l.Debug("swrcache.cache_hit", "key", h.redact(storageKey))
}

func (h *Hooks) CacheMiss(storageKey string) {
	if h.l == nil || !sample(h.opts.MissEvery, &h.missCtr) {
		return
	}
	h.l.Debug("swrcache.cache_miss", "key", h.redact(storageKey))
}

func (h *Hooks) CacheExpired(storageKey string) {
	if h.l == nil {
		return
	}
	h.l.Debug("swrcache.cache_expired", "key", h.redact(storageKey))
}

func (h *Hooks) RefreshSkipped(storageKey string) {
	if h.l == nil {
		return
	}
	h.l.Debug("swrcache.refresh_skipped", "key", h.redact(storageKey))
}

func (h *Hooks) RefreshFailed(storageKey string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("swrcache.refresh_failed",
		"key", h.redact(storageKey),
		"err", err)
}

func (h *Hooks) RefreshAborted(storageKey string) {
	if h.l == nil {
		return
	}
	h.l.Info("swrcache.refresh_aborted", "key", h.redact(storageKey))
}

func (h *Hooks) StoreWriteFailed(storageKey string, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("swrcache.store_write_failed",
		"key", h.redact(storageKey),
		"err", err)
}
