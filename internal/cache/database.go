package cache

import (
	"github.com/hupe1980/querycache/internal/arena"
	"github.com/hupe1980/querycache/internal/bitmap"
	"github.com/hupe1980/querycache/model"
)

// RemoveFunc is called for every entry that leaves a Database.
type RemoveFunc func(e *model.Entry)

// Database is the result cache of one logical database.
type Database struct {
	entriesByHash       map[model.Hash]arena.Ref
	entriesByDataSource map[model.DataSource]*bitmap.HashSet

	nodes *arena.Slab[node]
	head  arena.Ref
	tail  arena.Ref

	numElements int
	onRemove    RemoveFunc
}

// NewDatabase creates an empty database cache. onRemove may be nil.
func NewDatabase(onRemove RemoveFunc) *Database {
	return &Database{
		entriesByHash:       make(map[model.Hash]arena.Ref),
		entriesByDataSource: make(map[model.DataSource]*bitmap.HashSet),
		nodes:               arena.NewSlab[node](16),
		onRemove:            onRemove,
	}
}

// Lookup returns the entry cached for hash if its query text matches.
// A hash collision is reported as a miss and leaves the cache untouched.
func (d *Database) Lookup(hash model.Hash, queryText string) (*model.Entry, bool) {
	ref, ok := d.entriesByHash[hash]
	if !ok {
		return nil, false
	}
	n := d.nodes.Get(ref)
	if n == nil || n.entry.QueryText != queryText {
		return nil, false
	}
	return n.entry, true
}

// Contains reports whether an entry for hash is cached, regardless of query text.
func (d *Database) Contains(hash model.Hash) bool {
	_, ok := d.entriesByHash[hash]
	return ok
}

// Store inserts e at the newest position and then evicts down to maxResults.
// An entry already cached under the same hash is removed first.
func (d *Database) Store(e *model.Entry, maxResults int) (replaced bool, evicted int) {
	if _, ok := d.entriesByHash[e.Hash]; ok {
		d.remove(e.Hash)
		replaced = true
	}

	ref := d.nodes.Alloc(node{entry: e})
	d.entriesByHash[e.Hash] = ref
	for _, ds := range e.DataSources {
		set, ok := d.entriesByDataSource[ds]
		if !ok {
			set = bitmap.NewHashSet()
			d.entriesByDataSource[ds] = set
		}
		set.Add(e.Hash)
	}
	d.link(ref)
	d.numElements++

	return replaced, d.EnforceMaxResults(maxResults)
}

// Invalidate removes every entry that depends on any of the given data
// sources and returns how many entries were removed. Unknown data sources
// are ignored.
func (d *Database) Invalidate(dataSources ...model.DataSource) int {
	removed := 0
	for _, ds := range dataSources {
		set, ok := d.entriesByDataSource[ds]
		if !ok {
			continue
		}
		// remove mutates the set, so iterate over a copy.
		for _, h := range set.ToSlice() {
			if d.remove(h) {
				removed++
			}
		}
		delete(d.entriesByDataSource, ds)
	}
	return removed
}

// InvalidateAll removes every entry and returns how many were removed.
func (d *Database) InvalidateAll() int {
	removed := d.numElements
	if d.onRemove != nil {
		for ref := d.head; !ref.IsNil(); {
			n := d.nodes.Get(ref)
			if n == nil {
				break
			}
			d.onRemove(n.entry)
			ref = n.next
		}
	}

	clear(d.entriesByHash)
	clear(d.entriesByDataSource)
	d.nodes.Reset()
	d.head = arena.Nil
	d.tail = arena.Nil
	d.numElements = 0

	return removed
}

// EnforceMaxResults evicts the oldest entries until at most limit remain and
// returns how many were evicted. A negative limit is treated as zero.
func (d *Database) EnforceMaxResults(limit int) int {
	limit = max(limit, 0)

	evicted := 0
	for d.numElements > limit {
		n := d.nodes.Get(d.head)
		if n == nil {
			break
		}
		if !d.remove(n.entry.Hash) {
			break
		}
		evicted++
	}
	return evicted
}

// Len returns the number of cached entries.
func (d *Database) Len() int {
	return d.numElements
}

// DataSources returns the number of data sources with cached dependents.
func (d *Database) DataSources() int {
	return len(d.entriesByDataSource)
}

// IndexSize returns the number of (data source, hash) references held by the
// reverse index and its approximate size in bytes.
func (d *Database) IndexSize() (refs, bytes uint64) {
	for _, set := range d.entriesByDataSource {
		refs += set.Cardinality()
		bytes += set.GetSizeInBytes()
	}
	return refs, bytes
}

// remove drops the entry cached under hash from both indexes and the list.
func (d *Database) remove(hash model.Hash) bool {
	ref, ok := d.entriesByHash[hash]
	if !ok {
		return false
	}
	n := d.nodes.Get(ref)
	if n == nil {
		delete(d.entriesByHash, hash)
		return false
	}
	e := n.entry

	for _, ds := range e.DataSources {
		if set, ok := d.entriesByDataSource[ds]; ok {
			set.Remove(hash)
			if set.IsEmpty() {
				delete(d.entriesByDataSource, ds)
			}
		}
	}

	d.unlink(ref)
	d.nodes.Free(ref)
	delete(d.entriesByHash, hash)
	d.numElements--

	if d.onRemove != nil {
		d.onRemove(e)
	}
	return true
}
