/*
scheduler.go - Holiday cache maintenance scheduler

PURPOSE:
  Periodically drops expired entries from the holiday lookup cache so a
  long-running server does not keep one entry per date ever queried.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Purges once on start, then on every tick
  - Stop waits for the goroutine to exit

CONFIGURATION:
  - CheckInterval: How often to purge (default: 1 hour)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  purger := NewCachePurger(cache, log)
  purger.Start()
  // ... later
  purger.Stop()

SEE ALSO:
  - holiday/cache.go: The cache being purged
*/
package api

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/warp/njob-manager/holiday"
)

// CachePurger evicts expired holiday cache entries on a timer.
type CachePurger struct {
	Cache         *holiday.Cache
	Log           logrus.FieldLogger
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewCachePurger creates a new purger.
func NewCachePurger(cache *holiday.Cache, log logrus.FieldLogger) *CachePurger {
	return &CachePurger{
		Cache:         cache,
		Log:           log,
		CheckInterval: 1 * time.Hour,
		Enabled:       cache != nil,
	}
}

// Start begins the purger. Starting a running purger does nothing.
func (p *CachePurger) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.Enabled || p.Cache == nil {
		p.Log.Info("holiday cache purger disabled")
		return
	}
	if p.ticker != nil {
		return
	}

	p.ticker = time.NewTicker(p.CheckInterval)
	p.stop = make(chan struct{})
	p.wg.Add(1)
	go p.run(p.ticker, p.stop)

	p.Log.WithField("interval", p.CheckInterval.String()).Info("holiday cache purger started")
}

// Stop stops the purger and waits for it to exit.
func (p *CachePurger) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ticker == nil {
		return
	}
	p.ticker.Stop()
	close(p.stop)
	p.wg.Wait()
	p.ticker = nil
	p.Log.Info("holiday cache purger stopped")
}

func (p *CachePurger) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer p.wg.Done()

	p.purge()
	for {
		select {
		case <-ticker.C:
			p.purge()
		case <-stop:
			return
		}
	}
}

func (p *CachePurger) purge() {
	if n := p.Cache.Purge(); n > 0 {
		p.Log.WithFields(logrus.Fields{
			"purged":    n,
			"remaining": p.Cache.Len(),
		}).Debug("holiday cache purged")
	}
}
