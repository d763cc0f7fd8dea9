// Package janitor periodically clears old entries out of a swrcache.Store.
//
// Logical expiry never removes anything from the store; a janitor keeps
// stores without physical TTLs from growing without bound.
package janitor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/unkn0wn-root/swrcache"
)

const defaultTimeout = 30 * time.Second

type Config[V any] struct {
	// Required
	Store swrcache.Store[V]
	// Spec is a cron spec ("0 * * * *", "@hourly") or "@every <duration>".
	// "@every" below one minute runs on a plain ticker.
	Spec string

	MaxAge  time.Duration   // <= 0 clears everything
	Timeout time.Duration   // per sweep; 0 => 30s
	Logger  swrcache.Logger // nil => NopLogger
	// OnSweep, if set, is called after every scheduled sweep.
	OnSweep func(removed int, err error)
}

type Janitor[V any] struct {
	cfg  Config[V]
	log  swrcache.Logger
	cron *cron.Cron

	mu      sync.Mutex
	started bool
	ticker  *time.Ticker
	stop    chan struct{}
	wg      sync.WaitGroup
}

func New[V any](cfg Config[V]) (*Janitor[V], error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("janitor: store is required")
	}
	if cfg.Spec == "" {
		return nil, fmt.Errorf("janitor: spec is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	log := cfg.Logger
	if log == nil {
		log = swrcache.NopLogger{}
	}
	return &Janitor[V]{cfg: cfg, log: log, stop: make(chan struct{})}, nil
}

// RunOnce performs a single sweep.
func (j *Janitor[V]) RunOnce(ctx context.Context) (int, error) {
	return swrcache.ClearCache(ctx, j.cfg.Store, j.cfg.MaxAge)
}

func (j *Janitor[V]) sweep() {
	select {
	case <-j.stop:
		return
	default:
	}
	ctx, cancel := context.WithTimeout(context.Background(), j.cfg.Timeout)
	defer cancel()

	n, err := j.RunOnce(ctx)
	if err != nil {
		j.log.Warn("janitor sweep failed", swrcache.Fields{"removed": n, "err": err})
	} else {
		j.log.Debug("janitor sweep done", swrcache.Fields{"removed": n})
	}
	if j.cfg.OnSweep != nil {
		j.cfg.OnSweep(n, err)
	}
}

// Start schedules sweeps. A janitor starts at most once.
func (j *Janitor[V]) Start() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.started {
		return fmt.Errorf("janitor: already started")
	}
	select {
	case <-j.stop:
		return fmt.Errorf("janitor: stopped")
	default:
	}

	if strings.HasPrefix(j.cfg.Spec, "@every ") {
		d, err := time.ParseDuration(strings.TrimPrefix(j.cfg.Spec, "@every "))
		if err != nil {
			return fmt.Errorf("janitor: invalid duration in @every: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("janitor: @every needs a positive duration")
		}
		if d < time.Minute {
			j.ticker = time.NewTicker(d)
			j.wg.Add(1)
			go func() {
				defer j.wg.Done()
				for {
					select {
					case <-j.ticker.C:
						j.sweep()
					case <-j.stop:
						return
					}
				}
			}()
			j.started = true
			return nil
		}
	}

	c := cron.New()
	if _, err := c.AddFunc(j.cfg.Spec, j.sweep); err != nil {
		return fmt.Errorf("janitor: schedule sweeps: %w", err)
	}
	c.Start()
	j.cron = c
	j.started = true
	return nil
}

// Stop halts scheduling and waits for a running sweep to finish.
func (j *Janitor[V]) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.started {
		return
	}
	j.started = false
	close(j.stop)
	if j.ticker != nil {
		j.ticker.Stop()
	}
	if j.cron != nil {
		<-j.cron.Stop().Done()
	}
	j.wg.Wait()
}
