package querycache

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/hupe1980/querycache/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level slog.Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level})), &buf
}

func TestLogger_CollisionIsThrottled(t *testing.T) {
	l, buf := newBufferLogger(slog.LevelWarn)
	ctx := context.Background()

	for range 100 {
		l.LogCollision(ctx, "db", 7)
	}
	assert.Equal(t, 1, strings.Count(buf.String(), "query hash collision"))
	assert.Contains(t, buf.String(), "hash=0000000000000007")
}

func TestLogger_Properties(t *testing.T) {
	l, buf := newBufferLogger(slog.LevelInfo)
	qc, err := New(WithLogger(l))
	require.NoError(t, err)

	require.NoError(t, qc.SetMode(ModeOn))
	assert.Contains(t, buf.String(), "query cache properties changed")
	assert.Contains(t, buf.String(), "old_mode=off mode=on")

	buf.Reset()
	store(t, qc, "db", 1, "c")
	store(t, qc, "db", 2, "c")
	require.NoError(t, qc.SetMaxResults(1))
	assert.Contains(t, buf.String(), "results evicted")
	assert.Contains(t, buf.String(), "evicted=1")
}

func TestLogger_DebugOperations(t *testing.T) {
	l, buf := newBufferLogger(slog.LevelDebug)
	ctx := context.Background()

	l.WithDatabase("db").LogStore(ctx, "db", model.Hash(1), true, 2)
	l.LogInvalidate(ctx, "db", []model.DataSource{"users"}, 3)
	l.LogStoreRejected(ctx, "db", 1, 4096)
	l.LogEviction(ctx, 10, 0)

	out := buf.String()
	assert.Contains(t, out, "result stored")
	assert.Contains(t, out, "replaced=true")
	assert.Contains(t, out, "results invalidated")
	assert.Contains(t, out, "memory budget exhausted")
	assert.NotContains(t, out, "results evicted", "zero evictions are not logged")
}

func TestNoopLogger(t *testing.T) {
	l := NoopLogger()
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))
	assert.NotNil(t, NewJSONLogger(slog.LevelInfo))
	assert.NotNil(t, NewLogger(nil))
}
