package cache

import (
	"github.com/hupe1980/querycache/internal/arena"
	"github.com/hupe1980/querycache/model"
)

type node struct {
	entry  *model.Entry
	prev   arena.Ref
	next   arena.Ref
	linked bool
}

// link appends the node behind ref at the tail of the list.
func (d *Database) link(ref arena.Ref) {
	n := d.nodes.Get(ref)
	if n == nil || n.linked {
		return
	}

	n.prev = d.tail
	n.next = arena.Nil
	n.linked = true

	if t := d.nodes.Get(d.tail); t != nil {
		t.next = ref
	}
	d.tail = ref
	if d.head.IsNil() {
		d.head = ref
	}
}

// unlink removes the node behind ref from the list. Unlinking a node that
// is not linked is a no-op.
func (d *Database) unlink(ref arena.Ref) {
	n := d.nodes.Get(ref)
	if n == nil || !n.linked {
		return
	}

	if p := d.nodes.Get(n.prev); p != nil {
		p.next = n.next
	}
	if nx := d.nodes.Get(n.next); nx != nil {
		nx.prev = n.prev
	}
	if d.head == ref {
		d.head = n.next
	}
	if d.tail == ref {
		d.tail = n.prev
	}

	n.prev = arena.Nil
	n.next = arena.Nil
	n.linked = false
}

// Hashes returns the cached hashes from oldest to newest.
func (d *Database) Hashes() []model.Hash {
	out := make([]model.Hash, 0, d.numElements)
	for ref := d.head; !ref.IsNil(); {
		n := d.nodes.Get(ref)
		if n == nil {
			break
		}
		out = append(out, n.entry.Hash)
		ref = n.next
	}
	return out
}
