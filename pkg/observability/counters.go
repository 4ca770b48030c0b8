package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// Counters tallies resolver and cache events. It is safe for concurrent use.
type Counters struct {
	NoopResolverHooks
	NoopCacheHooks

	started        time.Time
	batches        atomic.Int64
	batchFailures  atomic.Int64
	lookups        atomic.Int64
	lookupFailures atomic.Int64
	cacheHits      atomic.Int64
	cacheMisses    atomic.Int64
	cacheWrites    atomic.Int64
	cacheBytes     atomic.Int64
}

// NewCounters returns zeroed counters.
func NewCounters() *Counters {
	return &Counters{started: time.Now()}
}

func (c *Counters) OnBatchComplete(_ context.Context, _ string, _ int, _ time.Duration, err error) {
	c.batches.Add(1)
	if err != nil {
		c.batchFailures.Add(1)
	}
}

func (c *Counters) OnLookup(_ context.Context, _ string, _ int, _ time.Duration, err error) {
	c.lookups.Add(1)
	if err != nil {
		c.lookupFailures.Add(1)
	}
}

func (c *Counters) OnCacheHit(context.Context, string)  { c.cacheHits.Add(1) }
func (c *Counters) OnCacheMiss(context.Context, string) { c.cacheMisses.Add(1) }

func (c *Counters) OnCacheSet(_ context.Context, _ string, size int) {
	c.cacheWrites.Add(1)
	c.cacheBytes.Add(int64(size))
}

// Stats is a point-in-time copy of [Counters].
type Stats struct {
	Uptime         string `json:"uptime"`
	Batches        int64  `json:"batches"`
	BatchFailures  int64  `json:"batch_failures"`
	Lookups        int64  `json:"lookups"`
	LookupFailures int64  `json:"lookup_failures"`
	CacheHits      int64  `json:"cache_hits"`
	CacheMisses    int64  `json:"cache_misses"`
	CacheWrites    int64  `json:"cache_writes"`
	CacheBytes     int64  `json:"cache_bytes"`
}

// Snapshot reads all counters.
func (c *Counters) Snapshot() Stats {
	return Stats{
		Uptime:         time.Since(c.started).Round(time.Second).String(),
		Batches:        c.batches.Load(),
		BatchFailures:  c.batchFailures.Load(),
		Lookups:        c.lookups.Load(),
		LookupFailures: c.lookupFailures.Load(),
		CacheHits:      c.cacheHits.Load(),
		CacheMisses:    c.cacheMisses.Load(),
		CacheWrites:    c.cacheWrites.Load(),
		CacheBytes:     c.cacheBytes.Load(),
	}
}

var (
	_ ResolverHooks = (*Counters)(nil)
	_ CacheHooks    = (*Counters)(nil)
)
