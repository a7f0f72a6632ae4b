// Package bitmap provides compressed sets of 64-bit query hashes.
//
// HashSet wraps a 64-bit Roaring bitmap. The result cache keeps one HashSet
// per data source as its reverse index, so the sets are long-lived, sparse
// and frequently mutated, which is the workload Roaring is built for.
package bitmap
