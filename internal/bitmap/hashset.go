package bitmap

import (
	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/hupe1980/querycache/model"
)

// HashSet is a set of query hashes backed by a 64-bit Roaring bitmap.
type HashSet struct {
	rb *roaring64.Bitmap
}

// NewHashSet creates an empty set.
func NewHashSet() *HashSet {
	return &HashSet{rb: roaring64.New()}
}

// Add adds h to the set.
func (s *HashSet) Add(h model.Hash) {
	s.rb.Add(uint64(h))
}

// Remove removes h from the set.
func (s *HashSet) Remove(h model.Hash) {
	s.rb.Remove(uint64(h))
}

// IsEmpty returns true if the set is empty.
func (s *HashSet) IsEmpty() bool {
	return s.rb.IsEmpty()
}

// Cardinality returns the number of hashes in the set.
func (s *HashSet) Cardinality() uint64 {
	return s.rb.GetCardinality()
}

// ToSlice returns the hashes in ascending order. The slice is a copy, so the
// set may be mutated while ranging over it.
func (s *HashSet) ToSlice() []model.Hash {
	raw := s.rb.ToArray()
	out := make([]model.Hash, len(raw))
	for i, h := range raw {
		out[i] = model.Hash(h)
	}
	return out
}

// GetSizeInBytes returns the in-memory size of the set.
func (s *HashSet) GetSizeInBytes() uint64 {
	return s.rb.GetSizeInBytes()
}
