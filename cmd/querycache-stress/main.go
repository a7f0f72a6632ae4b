// Package main implements querycache-stress, a load generator that drives
// lookups, stores and invalidations against one Cache from many goroutines
// and reports the resulting metrics as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"hash/maphash"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/querycache"
	"github.com/hupe1980/querycache/internal/config"
	"github.com/hupe1980/querycache/model"
	"github.com/hupe1980/querycache/resource"
)

func main() {
	code := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}

// Report is printed to stdout after a run.
type Report struct {
	Properties querycache.Properties        `json:"properties"`
	Elapsed    string                       `json:"elapsed"`
	Cache      querycache.Stats             `json:"cache"`
	Metrics    querycache.BasicMetricsStats `json:"metrics"`
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("querycache-stress", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to a TOML configuration file")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			_, _ = fmt.Fprintln(stderr, err)
			return 1
		}
	}

	level, err := cfg.Level()
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}
	logger := querycache.NewLogger(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	metrics := &querycache.BasicMetricsCollector{}

	qc, err := querycache.New(
		querycache.WithProperties(cfg.Cache),
		querycache.WithLogger(logger),
		querycache.WithMetricsCollector(metrics),
		querycache.WithResourceController(resource.NewController(resource.Config{
			MemoryLimitBytes: cfg.MemoryLimitBytes,
		})),
	)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}
	defer qc.Close()

	start := time.Now()
	if err := drive(ctx, qc, cfg.Workload); err != nil {
		logger.ErrorContext(ctx, "stress run failed", "error", err)
		return 1
	}

	report := Report{
		Properties: qc.Properties(),
		Elapsed:    time.Since(start).String(),
		Cache:      qc.Stats(),
		Metrics:    metrics.GetStats(),
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

// query is one synthetic query of the workload.
type query struct {
	hash    model.Hash
	text    string
	sources []model.DataSource
}

func buildQueries(w config.Workload) []query {
	seed := maphash.MakeSeed()
	queries := make([]query, w.DistinctQueries)
	for i := range queries {
		a := fmt.Sprintf("c%d", i%w.DataSources)
		b := fmt.Sprintf("c%d", (i*7+1)%w.DataSources)
		text := fmt.Sprintf("FOR x IN %s FOR y IN %s FILTER x._key == y.ref LIMIT %d RETURN x", a, b, i)
		sources := []model.DataSource{a}
		if b != a {
			sources = append(sources, b)
		}
		queries[i] = query{
			hash:    model.Hash(maphash.String(seed, text)),
			text:    text,
			sources: sources,
		}
	}
	return queries
}

// drive runs the workload. Every worker follows the collaborator contract:
// lookup first, execute and store on a miss, and invalidate on writes.
func drive(ctx context.Context, qc *querycache.Cache, w config.Workload) error {
	queries := buildQueries(w)
	payload := make([]byte, w.PayloadBytes)

	g, ctx := errgroup.WithContext(ctx)
	for worker := range w.Workers {
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(uint64(worker), uint64(time.Now().UnixNano())))
			for op := worker; op < w.Operations; op += w.Workers {
				if err := ctx.Err(); err != nil {
					return err
				}
				db := fmt.Sprintf("db%d", rng.IntN(w.Databases))
				q := queries[rng.IntN(len(queries))]

				switch roll := rng.IntN(100); {
				case roll < w.InvalidatePercent:
					qc.InvalidateSource(ctx, db, q.sources[rng.IntN(len(q.sources))])
				case roll < w.InvalidatePercent+w.StorePercent:
					if !qc.CanUse(querycache.HintDefault) {
						continue
					}
					if e, ok := qc.Lookup(ctx, db, q.hash, q.text); ok {
						e.Release()
						continue
					}
					result := model.NewPayload(payload)
					qc.Store(ctx, db, q.hash, q.text, result, nil, q.sources)
					result.Release()
				default:
					if e, ok := qc.Lookup(ctx, db, q.hash, q.text); ok {
						e.Release()
						if e.QueryText != q.text {
							return fmt.Errorf("lookup for %s returned %q", q.hash, e.QueryText)
						}
					}
				}
			}
			return nil
		})
	}
	return g.Wait()
}
