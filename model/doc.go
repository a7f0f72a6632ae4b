// Package model defines the core types shared by the query result cache.
//
// # Identity Types
//
//   - Hash: 64-bit content hash of a query string (pre-computed by the caller)
//   - DataSource: name of a collection or view a query reads from
//
// # Data Types
//
//   - Payload: immutable, reference-counted result or statistics blob
//   - Entry: one cached query result with its data source dependencies
//
// Entries are write-once. After construction nothing inside an Entry is
// mutated, so entries returned from a lookup may be read concurrently by any
// number of goroutines without further locking.
package model
