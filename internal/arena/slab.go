package arena

import "math"

// Ref is a safe reference to a slab slot.
// The zero Ref never refers to a live slot.
type Ref struct {
	Gen   uint32
	Index uint32
}

// Nil is the zero Ref.
var Nil = Ref{}

// IsNil reports whether r is the zero Ref.
func (r Ref) IsNil() bool {
	return r.Gen == 0
}

type slot[T any] struct {
	val  T
	gen  uint32
	live bool
}

// Slab is a generation-checked slot allocator.
type Slab[T any] struct {
	slots []slot[T]
	free  []uint32
	live  int
}

// NewSlab creates a slab with room for capacity values before growing.
func NewSlab[T any](capacity int) *Slab[T] {
	return &Slab[T]{slots: make([]slot[T], 0, capacity)}
}

// Alloc stores v in a free slot and returns its reference.
// Pointers obtained from Get before Alloc may be invalidated by growth.
func (s *Slab[T]) Alloc(v T) Ref {
	var idx uint32
	if n := len(s.free); n > 0 {
		idx = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		if uint64(len(s.slots)) == math.MaxUint32 {
			panic("arena: slab exhausted")
		}
		s.slots = append(s.slots, slot[T]{})
		idx = uint32(len(s.slots) - 1)
	}

	sl := &s.slots[idx]
	sl.gen++
	if sl.gen == 0 {
		sl.gen = 1
	}
	sl.val = v
	sl.live = true
	s.live++

	return Ref{Gen: sl.gen, Index: idx}
}

// Get returns a pointer to the value behind r, or nil if r is stale or nil.
func (s *Slab[T]) Get(r Ref) *T {
	sl := s.lookup(r)
	if sl == nil {
		return nil
	}
	return &sl.val
}

// Free releases the slot behind r. It reports false if r was already freed.
func (s *Slab[T]) Free(r Ref) bool {
	sl := s.lookup(r)
	if sl == nil {
		return false
	}
	var zero T
	sl.val = zero
	sl.live = false
	s.free = append(s.free, r.Index)
	s.live--
	return true
}

// Len returns the number of live slots.
func (s *Slab[T]) Len() int {
	return s.live
}

// Reset frees every slot. Outstanding Refs become stale.
func (s *Slab[T]) Reset() {
	s.free = s.free[:0]
	for i := range s.slots {
		sl := &s.slots[i]
		if sl.live {
			var zero T
			sl.val = zero
			sl.live = false
		}
		s.free = append(s.free, uint32(i))
	}
	s.live = 0
}

func (s *Slab[T]) lookup(r Ref) *slot[T] {
	if r.IsNil() || int(r.Index) >= len(s.slots) {
		return nil
	}
	sl := &s.slots[r.Index]
	if !sl.live || sl.gen != r.Gen {
		return nil
	}
	return sl
}
