// Package resource implements the memory budget shared by all result caches.
//
// The Controller tracks the bytes held by cached entries (query text plus
// result and statistics payloads) and optionally enforces a hard ceiling.
// Acquisition is non-blocking and fails fast so that a store on the query
// hot path never waits:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 256 << 20, // 256MB across every database
//	})
//
//	if !rc.TryAcquireMemory(n) {
//	    // skip caching this result
//	}
//	defer rc.ReleaseMemory(n)
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
// This allows optional resource limiting without nil checks everywhere.
package resource
