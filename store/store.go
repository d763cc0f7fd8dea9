// Package store provides swrcache.Store implementations: Codec, which frames
// entries onto any byte provider, and Memory, a plain in-process map.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/unkn0wn-root/swrcache"
	"github.com/unkn0wn-root/swrcache/codec"
	"github.com/unkn0wn-root/swrcache/internal/wire"
	"github.com/unkn0wn-root/swrcache/provider"
)

// ErrRejected is returned by Set when the provider refused the write,
// typically under memory pressure.
var ErrRejected = errors.New("store: write rejected by provider")

type Config[V any] struct {
	// Required
	Provider provider.Provider
	Codec    codec.Codec[V]

	// TTL is the physical expiry handed to the provider. Logical expiry is
	// decided by swrcache from the entry timestamp; keep TTL well above
	// MaxAge or leave it zero.
	TTL    time.Duration
	Logger swrcache.Logger // nil => NopLogger
}

// Codec stores entries as wire-framed, codec-encoded bytes.
type Codec[V any] struct {
	p     provider.Provider
	codec codec.Codec[V]
	ttl   time.Duration
	log   swrcache.Logger
}

var _ swrcache.Store[string] = (*Codec[string])(nil)

func New[V any](cfg Config[V]) (*Codec[V], error) {
	if cfg.Provider == nil {
		return nil, fmt.Errorf("store: provider is required")
	}
	if cfg.Codec == nil {
		return nil, fmt.Errorf("store: codec is required")
	}
	if cfg.TTL < 0 {
		return nil, fmt.Errorf("store: ttl must not be negative")
	}
	log := cfg.Logger
	if log == nil {
		log = swrcache.NopLogger{}
	}
	return &Codec[V]{p: cfg.Provider, codec: cfg.Codec, ttl: cfg.TTL, log: log}, nil
}

func (s *Codec[V]) Get(ctx context.Context, key string) (swrcache.Entry[V], bool, error) {
	var zero swrcache.Entry[V]
	raw, ok, err := s.p.Get(ctx, key)
	if err != nil || !ok {
		return zero, false, err
	}
	ts, payload, err := wire.DecodeEntry(raw)
	if err != nil {
		s.heal(ctx, key, err)
		return zero, false, nil
	}
	v, err := s.codec.Decode(payload)
	if err != nil {
		s.heal(ctx, key, err)
		return zero, false, nil
	}
	return swrcache.Entry[V]{Value: v, Timestamp: ts}, true, nil
}

// heal drops an undecodable entry so the next refresh can replace it.
func (s *Codec[V]) heal(ctx context.Context, key string, cause error) {
	s.log.Warn("dropping undecodable entry", swrcache.Fields{"key": key, "err": cause})
	if err := s.p.Del(ctx, key); err != nil {
		s.log.Error("self-heal delete failed", swrcache.Fields{"key": key, "err": err})
	}
}

func (s *Codec[V]) Set(ctx context.Context, key string, e swrcache.Entry[V]) error {
	payload, err := s.codec.Encode(e.Value)
	if err != nil {
		return fmt.Errorf("store: encode %q: %w", key, err)
	}
	ok, err := s.p.Set(ctx, key, wire.EncodeEntry(e.Timestamp, payload), s.ttl)
	if err != nil {
		return err
	}
	if !ok {
		return ErrRejected
	}
	return nil
}

func (s *Codec[V]) Remove(ctx context.Context, key string) error {
	return s.p.Del(ctx, key)
}

func (s *Codec[V]) Keys(ctx context.Context) ([]string, error) {
	return s.p.Keys(ctx)
}

// Close closes the underlying provider.
func (s *Codec[V]) Close(ctx context.Context) error {
	return s.p.Close(ctx)
}
