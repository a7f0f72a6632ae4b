package querycache

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/hupe1980/querycache/model"
	"github.com/hupe1980/querycache/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestCache_ConcurrentReaders(t *testing.T) {
	qc := newTestCache(t, WithMaxResults(1000))
	const entries = 200
	for i := range entries {
		store(t, qc, "db", model.Hash(i), fmt.Sprintf("c%d", i%7))
	}

	const readers = 32
	var misses atomic.Int64
	g, ctx := errgroup.WithContext(context.Background())
	for r := range readers {
		g.Go(func() error {
			for i := range entries {
				h := model.Hash((i + r) % entries)
				e, ok := qc.Lookup(ctx, "db", h, queryText(h))
				if !ok {
					misses.Add(1)
					continue
				}
				got := string(e.Result.Bytes())
				e.Release()
				if got != queryText(h) {
					return fmt.Errorf("hash %s returned payload %q", h, got)
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, int64(0), misses.Load())
}

// TestCache_MixedWorkload is a race-detector harness: every operation runs
// concurrently and the test only checks that the cache stays consistent.
func TestCache_MixedWorkload(t *testing.T) {
	rc := resource.NewController(resource.Config{})
	qc := newTestCache(t, WithMaxResults(16), WithResourceController(rc))

	const (
		workers    = 8
		operations = 500
	)

	g, ctx := errgroup.WithContext(context.Background())
	for w := range workers {
		g.Go(func() error {
			for i := range operations {
				db := fmt.Sprintf("db-%d", (w+i)%5)
				h := model.Hash(i % 64)
				src := fmt.Sprintf("c%d", i%4)
				switch i % 6 {
				case 0, 1, 2:
					if e, ok := qc.Lookup(ctx, db, h, queryText(h)); ok {
						e.Release()
						if e.Hash != h {
							return fmt.Errorf("lookup for %s returned %s", h, e.Hash)
						}
					}
				case 3, 4:
					payload := model.NewPayload([]byte(queryText(h)))
					qc.Store(ctx, db, h, queryText(h), payload, nil, []model.DataSource{src})
					payload.Release()
				case 5:
					qc.InvalidateSource(ctx, db, src)
				}
			}
			return nil
		})
	}
	g.Go(func() error {
		for i := range 50 {
			if err := qc.SetMaxResults(8 + i%16); err != nil {
				return err
			}
			mode := ModeOn
			if i%10 == 9 {
				mode = ModeDemand
			}
			if err := qc.SetMode(mode); err != nil {
				return err
			}
			_ = qc.Properties()
		}
		return nil
	})
	g.Go(func() error {
		for range 10 {
			qc.InvalidateAll(ctx)
			_ = qc.Stats()
		}
		return nil
	})
	require.NoError(t, g.Wait())

	require.NoError(t, qc.SetMaxResults(4))
	for d := range 5 {
		assert.LessOrEqual(t, qc.DatabaseLen(fmt.Sprintf("db-%d", d)), 4)
	}

	qc.InvalidateAll(context.Background())
	assert.Equal(t, int64(0), rc.MemoryUsage(), "every removal path released its bytes")
}
