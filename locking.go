package querycache

import (
	"sync"

	"github.com/hupe1980/querycache/internal/cache"
)

// NumPartitions is the number of independently locked partitions.
const NumPartitions = 8

// partition owns the database caches of every database that hashes to it.
type partition struct {
	mu        sync.RWMutex
	databases map[string]*cache.Database
}

// lockSpan selects how visitPartitions holds partition locks.
type lockSpan uint8

const (
	// spanEach locks, visits and unlocks one partition before the next.
	spanEach lockSpan = iota
	// spanAll acquires every partition lock, visits all partitions, then
	// releases in reverse order.
	spanAll
)

// visitPartitions is the only code path that touches more than one
// partition lock. It acquires in ascending partition order, so concurrent
// callers can never deadlock against each other. Single-partition paths
// (lookup, store, targeted invalidation) lock their partition directly and
// never call back into the properties lock while holding it.
//
// Callers that also need the properties lock must hold it before calling.
func (c *Cache) visitPartitions(span lockSpan, exclusive bool, fn func(idx int, p *partition)) {
	lock := func(p *partition) {
		if exclusive {
			p.mu.Lock()
		} else {
			p.mu.RLock()
		}
	}
	unlock := func(p *partition) {
		if exclusive {
			p.mu.Unlock()
		} else {
			p.mu.RUnlock()
		}
	}

	switch span {
	case spanAll:
		for i := range c.parts {
			lock(&c.parts[i])
		}
		for i := range c.parts {
			fn(i, &c.parts[i])
		}
		for i := len(c.parts) - 1; i >= 0; i-- {
			unlock(&c.parts[i])
		}
	default:
		for i := range c.parts {
			p := &c.parts[i]
			lock(p)
			fn(i, p)
			unlock(p)
		}
	}
}
