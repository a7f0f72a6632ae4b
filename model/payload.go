package model

import (
	"fmt"
	"sync/atomic"
)

// Payload is an immutable byte blob with shared ownership.
//
// Every holder owns one handle. NewPayload hands out the first handle, Retain
// adds one and Release drops one. Once the last handle is released the
// optional release hook runs exactly once.
type Payload struct {
	data      []byte
	refs      atomic.Int64
	onRelease func()
}

// NewPayload wraps b in a Payload holding a single handle.
// The caller must not modify b afterwards.
func NewPayload(b []byte) *Payload {
	p := &Payload{data: b}
	p.refs.Store(1)
	return p
}

// NewPayloadWithHook is like NewPayload but runs fn when the last handle is released.
func NewPayloadWithHook(b []byte, fn func()) *Payload {
	p := NewPayload(b)
	p.onRelease = fn
	return p
}

// Bytes returns the payload contents. The returned slice is read-only.
func (p *Payload) Bytes() []byte {
	if p == nil {
		return nil
	}
	return p.data
}

// Len returns the payload size in bytes.
func (p *Payload) Len() int {
	if p == nil {
		return 0
	}
	return len(p.data)
}

// Retain adds a handle and returns p for chaining.
func (p *Payload) Retain() *Payload {
	if p == nil {
		return nil
	}
	p.refs.Add(1)
	return p
}

// Release drops a handle. Releasing more handles than were acquired panics.
func (p *Payload) Release() {
	if p == nil {
		return
	}
	n := p.refs.Add(-1)
	switch {
	case n == 0:
		if p.onRelease != nil {
			p.onRelease()
		}
	case n < 0:
		panic(fmt.Sprintf("model: payload released %d times too often", -n))
	}
}

// Refs returns the number of live handles.
func (p *Payload) Refs() int64 {
	if p == nil {
		return 0
	}
	return p.refs.Load()
}
