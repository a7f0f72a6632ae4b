package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/querycache"
	"github.com/hupe1980/querycache/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stress.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level = "error"

[cache]
mode = "on"
max_results = 8

[workload]
databases = 3
workers = 4
operations = 2000
distinct_queries = 32
store_percent = 40
invalidate_percent = 10
`), 0o600))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-config", path}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	var report Report
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &report))
	assert.Equal(t, querycache.Properties{Mode: querycache.ModeOn, MaxResults: 8}, report.Properties)
	assert.Positive(t, report.Metrics.LookupCount)
	assert.Positive(t, report.Metrics.StoreCount)
	assert.LessOrEqual(t, report.Cache.Entries, 3*8)
	assert.Len(t, report.Cache.Partitions, querycache.NumPartitions)
}

func TestRun_BadConfig(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-config", filepath.Join(t.TempDir(), "nope.toml")}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "nope.toml")
}

func TestRun_BadFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run(context.Background(), []string{"-unknown"}, &stdout, &stderr))
}

func TestBuildQueries(t *testing.T) {
	w := config.Default().Workload
	w.DistinctQueries = 10
	w.DataSources = 1

	queries := buildQueries(w)
	require.Len(t, queries, 10)
	seen := make(map[string]bool)
	for _, q := range queries {
		assert.Equal(t, []string{"c0"}, q.sources, "duplicate sources are collapsed")
		assert.False(t, seen[q.text])
		seen[q.text] = true
	}
}
