package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPayload_RefCounting(t *testing.T) {
	released := 0
	p := NewPayloadWithHook([]byte("rows"), func() { released++ })
	assert.Equal(t, int64(1), p.Refs())

	p.Retain()
	assert.Equal(t, int64(2), p.Refs())

	p.Release()
	assert.Equal(t, 0, released, "one handle still alive")

	p.Release()
	assert.Equal(t, 1, released)
	assert.Equal(t, []byte("rows"), p.Bytes(), "bytes stay readable for late readers")
}

func TestPayload_OverRelease(t *testing.T) {
	p := NewPayload(nil)
	p.Release()
	assert.Panics(t, func() { p.Release() })
}

func TestPayload_Nil(t *testing.T) {
	var p *Payload
	assert.Nil(t, p.Bytes())
	assert.Equal(t, 0, p.Len())
	assert.Nil(t, p.Retain())
	assert.NotPanics(t, func() { p.Release() })
	assert.Equal(t, int64(0), p.Refs())
}

func TestEntry(t *testing.T) {
	sources := []DataSource{"users", "orders"}
	e := NewEntry(42, "FOR u IN users RETURN u", NewPayload([]byte("abc")), nil, sources)

	sources[0] = "mutated"
	assert.Equal(t, "users", e.DataSources[0], "data sources are cloned")

	assert.True(t, e.Matches(42, "FOR u IN users RETURN u"))
	assert.False(t, e.Matches(42, "FOR o IN orders RETURN o"))
	assert.False(t, e.Matches(43, "FOR u IN users RETURN u"))

	want := int64(len("FOR u IN users RETURN u") + 3 + len("users") + len("orders"))
	assert.Equal(t, want, e.SizeBytes())
	assert.Equal(t, "000000000000002a", Hash(42).String())
}
