package arena

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/zeebo/xxh3"
	"golang.org/x/exp/rand"
)

func TestArenaAlloc(t *testing.T) {
	assert := assert.New(t)

	a := NewMemArena(make([]byte, 64), 0)

	// zero-sized request
	b := a.Alloc(0)
	assert.True(b.IsNil())
	assert.Equal(0, a.Used())

	// blocks come out in order, within range, non-overlapping
	b1 := a.Alloc(10)
	b2 := a.Alloc(20)
	b3 := a.Alloc(34)
	assert.False(b1.IsNil())
	assert.False(b2.IsNil())
	assert.False(b3.IsNil())
	assert.Equal(uintptr(b1.Ptr)+10, uintptr(b2.Ptr))
	assert.Equal(uintptr(b2.Ptr)+20, uintptr(b3.Ptr))
	assert.True(a.Owns(b1.Ptr))
	assert.True(a.Owns(b3.Ptr))
	assert.Equal(64, a.Used())
	assert.Equal(0, a.Remaining())

	// exhausted
	b = a.Alloc(1)
	assert.True(b.IsNil())
}

func TestArenaAllocBoundary(t *testing.T) {
	assert := assert.New(t)

	a := NewMemArena(make([]byte, 64), 0)
	a.Alloc(40)

	// any request above the remaining 24 bytes fails, 24 itself succeeds
	for want := 64; want > 24; want-- {
		assert.True(a.Alloc(want).IsNil())
	}
	assert.False(a.Alloc(24).IsNil())
}

func TestArenaFreeTopOfStack(t *testing.T) {
	assert := assert.New(t)

	a := NewMemArena(make([]byte, 64), 0)
	a.Alloc(17)
	used := a.Used()

	b := a.Alloc(31)
	a.Free(b)
	assert.Equal(used, a.Used())

	// the bytes come back at the same address
	b2 := a.Alloc(31)
	assert.Equal(b.Ptr, b2.Ptr)
}

func TestArenaOutOfOrderFree(t *testing.T) {
	assert := assert.New(t)

	// scenario: MemArena<2> over 64 bytes
	a := NewMemArena(make([]byte, 64), 2)

	ba := a.Alloc(10)
	bb := a.Alloc(10)
	a.Free(ba) // out of order, parked
	assert.Equal(20, a.Used())
	assert.Equal(1, a.Stats().PendingFrees)

	bc := a.Alloc(10)
	assert.Equal(uintptr(bb.Ptr)+10, uintptr(bc.Ptr))

	a.Free(bb) // still out of order, parked
	assert.Equal(30, a.Used())
	assert.Equal(2, a.Stats().PendingFrees)

	// freeing the top block retracts 30->20, then coalesces through the
	// parked b and a down to 0
	a.Free(bc)
	assert.Equal(0, a.Used())
	assert.Equal(0, a.Stats().PendingFrees)
}

func TestArenaPendingFreeLimit(t *testing.T) {
	assert := assert.New(t)

	a := NewMemArena(make([]byte, 64), 2)
	b1 := a.Alloc(8)
	b2 := a.Alloc(8)
	b3 := a.Alloc(8)
	a.Alloc(8) // keeps the others off the top of the stack

	a.Free(b1)
	a.Free(b2)
	assert.Panics(func() { a.Free(b3) })
}

func TestArenaFreeForeignBlock(t *testing.T) {
	assert := assert.New(t)

	a := NewMemArena(make([]byte, 64), 2)
	other := make([]byte, 8)

	assert.Panics(func() { a.Free(Block{}) })
	assert.Panics(func() { a.Free(Block{Ptr: unsafe.Pointer(&other[0]), Len: 8}) })
}

func TestArenaTryRealloc(t *testing.T) {
	assert := assert.New(t)

	a := NewMemArena(make([]byte, 64), 0)
	base := a.Alloc(16)
	b := a.Alloc(16)
	copy(b.Bytes(), "0123456789abcdef")
	sum := xxh3.Hash(b.Bytes())

	// grow within capacity: address and contents preserved
	assert.True(a.TryRealloc(b, 32))
	assert.Equal(48, a.Used())
	assert.Equal(sum, xxh3.Hash(b.Bytes()[:16]))

	// grow past capacity: unchanged
	assert.False(a.TryRealloc(Block{Ptr: b.Ptr, Len: 32}, 64))
	assert.Equal(48, a.Used())

	// shrink always succeeds
	assert.True(a.TryRealloc(Block{Ptr: b.Ptr, Len: 32}, 8))
	assert.Equal(24, a.Used())

	// not top of stack
	a.Alloc(8)
	assert.False(a.TryRealloc(base, 24))
}

func TestArenaReset(t *testing.T) {
	assert := assert.New(t)

	a := NewMemArena(make([]byte, 64), 2)
	b1 := a.Alloc(8)
	a.Alloc(8)
	a.Free(b1)
	a.Reset()

	assert.Equal(0, a.Used())
	assert.Equal(0, a.Stats().PendingFrees)
	assert.Equal(64, a.Remaining())
}

func TestHeapArena(t *testing.T) {
	assert := assert.New(t)

	live := defaultHeap.Len()
	a := NewHeapArena(128, 2)
	assert.Equal(128, a.Capacity())
	assert.Equal(live+1, defaultHeap.Len())

	a.Release()
	assert.Equal(live, defaultHeap.Len())
}

// TestArenaRandomStack drives a fresh arena with random LIFO sequences and
// checks that blocks never overlap and the mark always retracts fully.
func TestArenaRandomStack(t *testing.T) {
	assert := assert.New(t)
	src := rand.New(rand.NewSource(1))

	a := NewMemArena(make([]byte, 4096), 0)
	for round := 0; round < 100; round++ {
		var live []Block
		for {
			b := a.Alloc(1 + int(src.Uint32()%256))
			if b.IsNil() {
				break
			}
			if n := len(live); n > 0 {
				prev := live[n-1]
				assert.True(prev.end() <= uintptr(b.Ptr))
			}
			live = append(live, b)
		}
		assert.True(a.Remaining() < 256)

		for i := len(live) - 1; i >= 0; i-- {
			a.Free(live[i])
		}
		assert.Equal(0, a.Used())
	}
}

func TestStatsJSON(t *testing.T) {
	assert := assert.New(t)

	a := NewMemArena(make([]byte, 64), 1)
	a.Alloc(16)

	stat := a.Stats()
	assert.Equal(16, stat.Used)
	assert.Equal(48, stat.Remaining)
	assert.Equal(25.0, stat.UsedRate())

	data, err := stat.JSON()
	assert.Nil(err)
	assert.Contains(string(data), `"used":16`)
}
