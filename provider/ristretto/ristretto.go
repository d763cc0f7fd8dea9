package ristretto

import (
	"context"
	"errors"
	"sync"
	"time"

	rc "github.com/dgraph-io/ristretto"

	pr "github.com/unkn0wn-root/swrcache/provider"
)

// Provider wraps ristretto. Ristretto hashes keys and cannot enumerate them,
// so the provider keeps its own key index, pruned through OnExit.
type Provider struct {
	c *rc.Cache

	mu  sync.Mutex
	idx map[string]*slot
}

var _ pr.Provider = (*Provider)(nil)

// slot identifies one stored value so a late OnExit for an overwritten value
// does not drop the key of its replacement.
type slot struct {
	key string
	b   []byte
}

type Config struct {
	NumCounters int64
	MaxCost     int64 // in bytes; cost of an entry is len(value)
	BufferItems int64
	Metrics     bool
}

func New(cfg Config) (*Provider, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, errors.New("ristretto: invalid config")
	}
	p := &Provider{idx: make(map[string]*slot)}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
		OnExit:      p.onExit,
	})
	if err != nil {
		return nil, err
	}
	p.c = c
	return p, nil
}

func (p *Provider) onExit(v interface{}) {
	s, ok := v.(*slot)
	if !ok {
		return
	}
	p.mu.Lock()
	if p.idx[s.key] == s {
		delete(p.idx, s.key)
	}
	p.mu.Unlock()
}

func (p *Provider) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := p.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	s, _ := v.(*slot)
	if s == nil {
		p.c.Del(key)
		return nil, false, nil
	}
	return s.b, true, nil
}

func (p *Provider) Set(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	if ttl < 0 {
		ttl = 0
	}
	s := &slot{key: key, b: value}
	p.mu.Lock()
	p.idx[key] = s
	p.mu.Unlock()
	ok := p.c.SetWithTTL(key, s, int64(len(value))+int64(len(key)), ttl)
	if !ok {
		p.onExit(s)
		return false, nil
	}
	// make the write visible to the next Get
	p.c.Wait()
	return true, nil
}

func (p *Provider) Del(_ context.Context, key string) error {
	p.c.Del(key)
	p.c.Wait()
	p.mu.Lock()
	delete(p.idx, key)
	p.mu.Unlock()
	return nil
}

// Keys returns indexed keys that still resolve; entries that expired without
// an OnExit callback yet are pruned here.
func (p *Provider) Keys(_ context.Context) ([]string, error) {
	p.mu.Lock()
	cand := make([]*slot, 0, len(p.idx))
	for _, s := range p.idx {
		cand = append(cand, s)
	}
	p.mu.Unlock()

	keys := make([]string, 0, len(cand))
	for _, s := range cand {
		if _, ok := p.c.Get(s.key); ok {
			keys = append(keys, s.key)
			continue
		}
		p.onExit(s)
	}
	return keys, nil
}

func (p *Provider) Close(_ context.Context) error {
	p.c.Wait()
	p.c.Close()
	return nil
}

// Metrics exposes ristretto's counters when Config.Metrics is set.
func (p *Provider) Metrics() *rc.Metrics { return p.c.Metrics }
