package querycache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/querycache/internal/cache"
	"github.com/hupe1980/querycache/internal/hash"
	"github.com/hupe1980/querycache/model"
	"github.com/hupe1980/querycache/resource"
)

// Cache is the query result cache of one process.
//
// It is created once by the composition root and passed to the query
// executor and the storage layer. All methods are safe for concurrent use.
type Cache struct {
	// propertiesMu serializes writers of mode and maxResults. The values
	// are also published atomically so hot paths can read them without it.
	propertiesMu sync.Mutex
	mode         atomic.Uint32
	maxResults   atomic.Int64

	parts [NumPartitions]partition

	logger    *Logger
	metrics   MetricsCollector
	resources *resource.Controller
}

// New creates an empty cache.
func New(optFns ...Option) (*Cache, error) {
	opts := applyOptions(optFns)
	if err := opts.properties.Validate(); err != nil {
		return nil, err
	}

	c := &Cache{
		logger:    opts.logger,
		metrics:   opts.metricsCollector,
		resources: opts.resources,
	}
	c.mode.Store(uint32(opts.properties.Mode))
	c.maxResults.Store(int64(opts.properties.MaxResults))
	for i := range c.parts {
		c.parts[i].databases = make(map[string]*cache.Database)
	}
	return c, nil
}

// Close drops every cached entry and releases their resources.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	c.InvalidateAll(context.Background())
	return nil
}

// MayBeActive is a lock-free check that lets callers skip the cache
// entirely while it is switched off.
func (c *Cache) MayBeActive() bool {
	return Mode(c.mode.Load()) != ModeOff
}

// CanUse reports whether a query with the given hint may use the cache
// under the current mode.
func (c *Cache) CanUse(hint QueryHint) bool {
	return Mode(c.mode.Load()).allows(hint)
}

// Mode returns the current mode.
func (c *Cache) Mode() Mode {
	c.propertiesMu.Lock()
	defer c.propertiesMu.Unlock()
	return Mode(c.mode.Load())
}

// SetMode changes the mode. Switching the cache off keeps existing entries;
// it only stops future lookups and stores.
func (c *Cache) SetMode(m Mode) error {
	if !m.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidMode, m)
	}

	c.propertiesMu.Lock()
	defer c.propertiesMu.Unlock()

	old := c.propertiesLocked()
	c.mode.Store(uint32(m))
	c.logger.LogPropertiesChange(context.Background(), old, c.propertiesLocked())
	return nil
}

// SetModeString parses and applies a mode name.
func (c *Cache) SetModeString(s string) error {
	m, err := ParseMode(s)
	if err != nil {
		return err
	}
	return c.SetMode(m)
}

// MaxResults returns the per-database ceiling.
func (c *Cache) MaxResults() int {
	c.propertiesMu.Lock()
	defer c.propertiesMu.Unlock()
	return int(c.maxResults.Load())
}

// SetMaxResults changes the per-database ceiling and immediately evicts the
// oldest entries of every database above it. Zero is valid and empties the
// cache.
func (c *Cache) SetMaxResults(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxResults, n)
	}

	c.propertiesMu.Lock()
	defer c.propertiesMu.Unlock()

	old := c.propertiesLocked()
	c.maxResults.Store(int64(n))
	c.logger.LogPropertiesChange(context.Background(), old, c.propertiesLocked())
	c.enforceMaxResultsLocked(n)
	return nil
}

// Properties returns the current settings.
func (c *Cache) Properties() Properties {
	c.propertiesMu.Lock()
	defer c.propertiesMu.Unlock()
	return c.propertiesLocked()
}

// SetProperties applies mode and ceiling together.
func (c *Cache) SetProperties(p Properties) error {
	if err := p.Validate(); err != nil {
		return err
	}

	c.propertiesMu.Lock()
	defer c.propertiesMu.Unlock()

	old := c.propertiesLocked()
	c.mode.Store(uint32(p.Mode))
	c.maxResults.Store(int64(p.MaxResults))
	c.logger.LogPropertiesChange(context.Background(), old, p)
	c.enforceMaxResultsLocked(p.MaxResults)
	return nil
}

// Partition returns the partition a database belongs to. The mapping is a
// pure function of the name.
func (c *Cache) Partition(database string) int {
	return hash.Partition(database, NumPartitions)
}

// Lookup returns the cached entry for a query. A different query text under
// the same hash is a miss. Lookups never change the eviction order.
//
// On a hit the caller owns one handle on the entry's Result and Stats and
// must call Release on the entry when done with them. The payloads stay
// valid until then, even if the entry is invalidated or evicted meanwhile.
func (c *Cache) Lookup(ctx context.Context, database string, h model.Hash, queryText string) (*model.Entry, bool) {
	if !c.MayBeActive() {
		return nil, false
	}

	start := time.Now()
	p := &c.parts[c.Partition(database)]

	var (
		e         *model.Entry
		ok        bool
		collision bool
	)
	p.mu.RLock()
	if db := p.databases[database]; db != nil {
		e, ok = db.Lookup(h, queryText)
		if ok {
			// Take the handles while the entry cannot leave the cache.
			e.Retain()
		}
		collision = !ok && db.Contains(h)
	}
	p.mu.RUnlock()

	if collision {
		c.logger.LogCollision(ctx, database, h)
	}
	c.metrics.RecordLookup(ok, time.Since(start))
	return e, ok
}

// Store caches a query result. result and stats are retained by the cache;
// the caller keeps its own handles. dataSources must list every data source
// the query read, otherwise the entry misses invalidations.
//
// Store returns false if the cache is off or the memory budget is exhausted.
func (c *Cache) Store(ctx context.Context, database string, h model.Hash, queryText string, result, stats *model.Payload, dataSources []model.DataSource) bool {
	if !c.MayBeActive() {
		return false
	}
	stored, _ := c.StoreEntry(ctx, database, model.NewEntry(h, queryText, result, stats, dataSources))
	return stored
}

// StoreEntry caches a prepared entry. The entry must not be modified
// afterwards. An entry already cached under the same hash is replaced.
func (c *Cache) StoreEntry(ctx context.Context, database string, e *model.Entry) (bool, error) {
	if e == nil {
		return false, ErrNilEntry
	}
	if !c.MayBeActive() {
		return false, nil
	}

	if c.maxResults.Load() == 0 {
		return false, nil
	}

	start := time.Now()
	size := e.SizeBytes()
	if !c.resources.TryAcquireMemory(size) {
		c.logger.LogStoreRejected(ctx, database, e.Hash, size)
		c.metrics.RecordStore(false, time.Since(start))
		return false, nil
	}
	e.Retain()

	p := &c.parts[c.Partition(database)]
	p.mu.Lock()
	// Read the ceiling under the partition lock: a concurrent SetMaxResults
	// either enforces this partition after we release, or published the new
	// value before we acquired.
	limit := int(c.maxResults.Load())
	if limit == 0 {
		p.mu.Unlock()
		c.release(e)
		return false, nil
	}
	db := p.databases[database]
	if db == nil {
		db = cache.NewDatabase(c.release)
		p.databases[database] = db
	}
	replaced, evicted := db.Store(e, limit)
	p.mu.Unlock()

	c.logger.LogStore(ctx, database, e.Hash, replaced, evicted)
	c.metrics.RecordStore(true, time.Since(start))
	if evicted > 0 {
		c.metrics.RecordEviction(evicted)
	}
	return true, nil
}

// InvalidateSources removes every entry of database that depends on any of
// the given data sources and returns how many entries were removed.
func (c *Cache) InvalidateSources(ctx context.Context, database string, dataSources ...model.DataSource) int {
	if len(dataSources) == 0 {
		return 0
	}

	p := &c.parts[c.Partition(database)]
	removed := 0
	p.mu.Lock()
	if db := p.databases[database]; db != nil {
		removed = db.Invalidate(dataSources...)
	}
	p.mu.Unlock()

	c.logger.LogInvalidate(ctx, database, dataSources, removed)
	c.metrics.RecordInvalidate(removed)
	return removed
}

// InvalidateSource removes every entry of database that depends on dataSource.
func (c *Cache) InvalidateSource(ctx context.Context, database string, dataSource model.DataSource) int {
	return c.InvalidateSources(ctx, database, dataSource)
}

// InvalidateDatabase drops the whole cache of a database, e.g. when the
// database is dropped. It is recreated on the next store.
func (c *Cache) InvalidateDatabase(ctx context.Context, database string) int {
	p := &c.parts[c.Partition(database)]
	removed := 0
	p.mu.Lock()
	if db := p.databases[database]; db != nil {
		removed = db.InvalidateAll()
		delete(p.databases, database)
	}
	p.mu.Unlock()

	c.logger.LogInvalidate(ctx, database, nil, removed)
	c.metrics.RecordInvalidate(removed)
	return removed
}

// InvalidateAll drops every database cache.
func (c *Cache) InvalidateAll(ctx context.Context) int {
	removed := 0
	c.visitPartitions(spanAll, true, func(_ int, p *partition) {
		for name, db := range p.databases {
			removed += db.InvalidateAll()
			delete(p.databases, name)
		}
	})

	c.logger.LogInvalidate(ctx, "", nil, removed)
	c.metrics.RecordInvalidate(removed)
	return removed
}

// Stats is a point-in-time summary of the cache contents.
type Stats struct {
	Databases   int   `json:"databases"`
	Entries     int   `json:"entries"`
	MemoryBytes int64 `json:"memoryBytes"`
	// MemoryLimitBytes is 0 when no budget is configured.
	MemoryLimitBytes int64            `json:"memoryLimitBytes"`
	MemoryRejected   int64            `json:"memoryRejected"`
	Partitions       []PartitionStats `json:"partitions"`
}

// PartitionStats summarizes one partition.
type PartitionStats struct {
	Partition   int `json:"partition"`
	Databases   int `json:"databases"`
	Entries     int `json:"entries"`
	DataSources int `json:"dataSources"`
	// IndexRefs counts (data source, hash) pairs in the reverse indexes.
	IndexRefs  uint64 `json:"indexRefs"`
	IndexBytes uint64 `json:"indexBytes"`
}

// Stats returns a summary. Partitions are read one at a time, so the totals
// are not an atomic snapshot under concurrent writes.
func (c *Cache) Stats() Stats {
	s := Stats{Partitions: make([]PartitionStats, 0, NumPartitions)}
	c.visitPartitions(spanEach, false, func(idx int, p *partition) {
		ps := PartitionStats{Partition: idx, Databases: len(p.databases)}
		for _, db := range p.databases {
			ps.Entries += db.Len()
			ps.DataSources += db.DataSources()
			refs, size := db.IndexSize()
			ps.IndexRefs += refs
			ps.IndexBytes += size
		}
		s.Databases += ps.Databases
		s.Entries += ps.Entries
		s.Partitions = append(s.Partitions, ps)
	})
	s.MemoryBytes = c.resources.MemoryUsage()
	s.MemoryLimitBytes = c.resources.MemoryLimit()
	s.MemoryRejected = c.resources.Rejected()
	return s
}

// DatabaseLen returns the number of entries cached for a database.
func (c *Cache) DatabaseLen(database string) int {
	p := &c.parts[c.Partition(database)]
	p.mu.RLock()
	defer p.mu.RUnlock()
	if db := p.databases[database]; db != nil {
		return db.Len()
	}
	return 0
}

func (c *Cache) propertiesLocked() Properties {
	return Properties{
		Mode:       Mode(c.mode.Load()),
		MaxResults: int(c.maxResults.Load()),
	}
}

// enforceMaxResultsLocked must be called with propertiesMu held.
func (c *Cache) enforceMaxResultsLocked(n int) {
	evicted := 0
	c.visitPartitions(spanEach, true, func(_ int, p *partition) {
		for _, db := range p.databases {
			evicted += db.EnforceMaxResults(n)
		}
	})

	c.logger.LogEviction(context.Background(), n, evicted)
	if evicted > 0 {
		c.metrics.RecordEviction(evicted)
	}
}

// release returns the resources of an entry that left the cache.
func (c *Cache) release(e *model.Entry) {
	e.Release()
	c.resources.ReleaseMemory(e.SizeBytes())
}
