package hash

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCRC32C(t *testing.T) {
	// Reference value from RFC 3720 (iSCSI): 32 bytes of zeros.
	assert.Equal(t, uint32(0x8a9136aa), CRC32C(make([]byte, 32)))
	assert.NotEqual(t, CRC32C([]byte("_system")), CRC32C([]byte("_System")))
}

func TestPartition_Deterministic(t *testing.T) {
	first := Partition("_system", 8)
	for range 100 {
		assert.Equal(t, first, Partition("_system", 8))
	}
}

func TestPartition_Range(t *testing.T) {
	seen := make(map[int]bool)
	for i := range 1000 {
		p := Partition(fmt.Sprintf("db-%d", i), 8)
		assert.GreaterOrEqual(t, p, 0)
		assert.Less(t, p, 8)
		seen[p] = true
	}
	assert.Len(t, seen, 8, "1000 names should touch every partition")

	assert.Equal(t, 0, Partition("anything", 1))
	assert.Equal(t, 0, Partition("anything", 0))
}
