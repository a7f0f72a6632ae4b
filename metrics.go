package querycache

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordLookup is called after each lookup that reached a partition.
	RecordLookup(hit bool, duration time.Duration)

	// RecordStore is called after each store attempt while the cache is active.
	// stored is false if the memory budget rejected the entry.
	RecordStore(stored bool, duration time.Duration)

	// RecordInvalidate is called after each invalidation with the number of
	// removed entries.
	RecordInvalidate(removed int)

	// RecordEviction is called whenever entries were evicted to honor the
	// per-database ceiling.
	RecordEviction(evicted int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLookup(bool, time.Duration) {}
func (NoopMetricsCollector) RecordStore(bool, time.Duration)  {}
func (NoopMetricsCollector) RecordInvalidate(int)             {}
func (NoopMetricsCollector) RecordEviction(int)               {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	LookupCount       atomic.Int64
	LookupHits        atomic.Int64
	LookupTotalNanos  atomic.Int64
	StoreCount        atomic.Int64
	StoreRejected     atomic.Int64
	StoreTotalNanos   atomic.Int64
	InvalidateCount   atomic.Int64
	InvalidateRemoved atomic.Int64
	Evicted           atomic.Int64
}

// RecordLookup implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLookup(hit bool, duration time.Duration) {
	b.LookupCount.Add(1)
	b.LookupTotalNanos.Add(duration.Nanoseconds())
	if hit {
		b.LookupHits.Add(1)
	}
}

// RecordStore implements MetricsCollector.
func (b *BasicMetricsCollector) RecordStore(stored bool, duration time.Duration) {
	b.StoreCount.Add(1)
	b.StoreTotalNanos.Add(duration.Nanoseconds())
	if !stored {
		b.StoreRejected.Add(1)
	}
}

// RecordInvalidate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInvalidate(removed int) {
	b.InvalidateCount.Add(1)
	b.InvalidateRemoved.Add(int64(removed))
}

// RecordEviction implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEviction(evicted int) {
	b.Evicted.Add(int64(evicted))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	lookups := b.LookupCount.Load()
	hits := b.LookupHits.Load()
	s := BasicMetricsStats{
		LookupCount:       lookups,
		LookupHits:        hits,
		LookupMisses:      lookups - hits,
		LookupAvgNanos:    avg(b.LookupTotalNanos.Load(), lookups),
		StoreCount:        b.StoreCount.Load(),
		StoreRejected:     b.StoreRejected.Load(),
		StoreAvgNanos:     avg(b.StoreTotalNanos.Load(), b.StoreCount.Load()),
		InvalidateCount:   b.InvalidateCount.Load(),
		InvalidateRemoved: b.InvalidateRemoved.Load(),
		Evicted:           b.Evicted.Load(),
	}
	if lookups > 0 {
		s.HitRatio = float64(hits) / float64(lookups)
	}
	return s
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	LookupCount       int64   `json:"lookupCount"`
	LookupHits        int64   `json:"lookupHits"`
	LookupMisses      int64   `json:"lookupMisses"`
	LookupAvgNanos    int64   `json:"lookupAvgNanos"`
	HitRatio          float64 `json:"hitRatio"`
	StoreCount        int64   `json:"storeCount"`
	StoreRejected     int64   `json:"storeRejected"`
	StoreAvgNanos     int64   `json:"storeAvgNanos"`
	InvalidateCount   int64   `json:"invalidateCount"`
	InvalidateRemoved int64   `json:"invalidateRemoved"`
	Evicted           int64   `json:"evicted"`
}
