// Package arena provides a slot allocator with stable, generation-checked references.
//
// A Slab stores values in a growable slice and hands out Refs (slot index plus
// generation) instead of pointers. Freed slots are recycled through a free
// list; recycling bumps the slot generation, so a stale Ref to a recycled slot
// is detected instead of silently resolving to the new occupant.
//
// # Concurrency Model
//
// Slab is not safe for concurrent use. Callers serialize access, typically
// with the lock of the structure that owns the slab.
package arena
