// Package cache implements the per-database result cache.
//
// A Database holds every cached result of one logical database:
//
//   - entriesByHash: query hash -> list node (primary index)
//   - entriesByDataSource: data source -> set of hashes (reverse index)
//   - an insertion-ordered list used for bounded eviction
//
// List nodes live in an arena.Slab and link to each other by arena.Ref, so
// unlink and link are index rewrites and a stale link is detected rather
// than followed.
//
// Eviction is insertion order: new entries are linked at the tail, the head
// is evicted first and lookups never reposition an entry.
//
// A Database is not safe for concurrent mutation. Lookup only reads and may
// run concurrently with other lookups; every other method needs exclusive
// access, which the engine provides through its partition locks.
package cache
