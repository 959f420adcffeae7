package metrics

import (
	"time"

	"github.com/xactodb/xacto/internal/engine"
	"github.com/xactodb/xacto/internal/registry"
)

// Collector periodically samples the engine and client registry into the
// package's gauges.
type Collector struct {
	mgr   *engine.Manager
	store *engine.Store
	reg   *registry.Registry

	interval time.Duration
	stopCh   chan struct{}
}

// NewCollector creates a collector over the given engine and registry,
// sampling every interval (defaulting to 15 seconds if interval <= 0).
func NewCollector(mgr *engine.Manager, store *engine.Store, reg *registry.Registry, interval time.Duration) *Collector {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Collector{
		mgr:      mgr,
		store:    store,
		reg:      reg,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins collecting on a ticker, in its own goroutine.
func (c *Collector) Start() {
	ticker := time.NewTicker(c.interval)
	go func() {
		c.collect()
		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop halts collection.
func (c *Collector) Stop() {
	close(c.stopCh)
}

func (c *Collector) collect() {
	TransactionsActive.Set(float64(c.mgr.LiveCount()))
	SessionsActive.Set(float64(c.reg.Count()))
	BucketChainLength.Set(float64(c.store.MaxChainLength()))
}
