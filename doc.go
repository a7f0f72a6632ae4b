// Package querycache provides the result cache of a multi-tenant query engine.
//
// The cache stores previously computed query results keyed by a content hash
// of the query text, indexed per logical database, and invalidates cached
// results when the data sources they were computed from change.
//
// # Quick Start
//
// The process composition root creates one Cache and hands it to the query
// executor and to the storage layer:
//
//	qc, err := querycache.New(
//	    querycache.WithMode(querycache.ModeOn),
//	    querycache.WithMaxResults(128),
//	    querycache.WithLogger(querycache.NewTextLogger(slog.LevelInfo)),
//	)
//	if err != nil {
//	    return err
//	}
//	defer qc.Close()
//
// Query executor, before and after running a query:
//
//	if qc.CanUse(hint) {
//	    if e, ok := qc.Lookup(ctx, "_system", hash, text); ok {
//	        defer e.Release()
//	        return e.Result.Bytes(), nil
//	    }
//	}
//	rows, stats, sources := execute(text)
//	if qc.CanUse(hint) {
//	    qc.Store(ctx, "_system", hash, text, model.NewPayload(rows), model.NewPayload(stats), sources)
//	}
//
// Storage layer, before acknowledging a write to a collection:
//
//	qc.InvalidateSource(ctx, "_system", "users")
//
// # Partitioning
//
// Databases are spread over NumPartitions independently locked partitions.
// A database always maps to the same partition (CRC32C of its name).
// Lookups take the partition read lock; stores and invalidations take the
// write lock. Mode and ceiling live behind a separate properties lock, which
// is always acquired before any partition lock and never while one is held.
//
// # Eviction
//
// Each database keeps at most MaxResults entries. When a store exceeds the
// ceiling, the oldest-inserted entries are evicted. Lookups never change the
// eviction order.
package querycache
