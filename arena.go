// Package arena provides interchangeable allocation policies for generic
// containers: a plain heap policy, a per-goroutine scratch policy with heap
// fallback, a shared-arena policy, and a growable virtual-memory policy.
// All of them present the same Allocate / Free / TryRealloc contract, so
// container code works unmodified whichever store backs it.
package arena

import (
	"slices"
	"unsafe"
)

// DefaultMaxPendingFrees is the out-of-order free slack used when a caller
// does not pick one.
const DefaultMaxPendingFrees = 4

// span is a freed-but-unreclaimed sub-range, as offsets into the arena.
type span struct {
	start, end int
}

// MemArena is a bump/stack arena over one contiguous byte range.
//
// Allocation advances a high water mark; freeing the most recent block
// retracts it. Up to maxPendingFrees blocks may be freed out of order:
// they are parked in a fixed table and reclaimed once the mark retracts
// down to them. Exhaustion is reported as an empty Block, not an error.
// Not safe for concurrent use.
type MemArena struct {
	buf     []byte
	hwm     int
	pending []span // sorted by start, cap fixed at construction
	owned   Block  // set when the range was carved from the default heap
}

// NewMemArena returns an arena over the caller-supplied range buf.
// The range must outlive every block the arena issues.
func NewMemArena(buf []byte, maxPendingFrees int) *MemArena {
	if maxPendingFrees < 0 {
		maxPendingFrees = 0
	}
	return &MemArena{
		buf:     buf,
		pending: make([]span, 0, maxPendingFrees),
	}
}

// NewHeapArena returns an arena whose range is carved from the default
// heap. Call Release to return the range.
func NewHeapArena(size, maxPendingFrees int) *MemArena {
	b := defaultHeap.Alloc(size)
	a := NewMemArena(b.Bytes(), maxPendingFrees)
	a.owned = b
	return a
}

// Alloc carves size bytes off the top of the arena. It returns an empty
// block when size <= 0 or when the remaining capacity is too small.
func (a *MemArena) Alloc(size int) Block {
	if size <= 0 || a.hwm+size > len(a.buf) {
		return Block{}
	}
	b := Block{Ptr: unsafe.Pointer(&a.buf[a.hwm]), Len: size}
	a.hwm += size
	return b
}

// Free releases a live block issued by this arena. Top-of-stack blocks
// retract the high water mark immediately, coalescing with any pending
// frees that become contiguous. Other blocks are parked in the pending
// table, which must have a slot available.
func (a *MemArena) Free(b Block) {
	start, end := a.bounds(b)

	if end == a.hwm {
		a.hwm = start
		// Reclaim pending frees that now sit on top of the stack.
		for n := len(a.pending); n > 0 && a.pending[n-1].end == a.hwm; n-- {
			a.hwm = a.pending[n-1].start
			a.pending = a.pending[:n-1]
		}
		return
	}

	if len(a.pending) == cap(a.pending) {
		panic("arena: too many out-of-order frees")
	}
	i, _ := slices.BinarySearchFunc(a.pending, span{start: start}, func(x, y span) int {
		return x.start - y.start
	})
	a.pending = slices.Insert(a.pending, i, span{start: start, end: end})
}

// TryRealloc resizes a live block in place. Only the top-of-stack block
// can be resized: growing succeeds if the arena has room, shrinking
// always succeeds. On false the block is untouched and the caller must
// fall back to Alloc + copy + Free.
func (a *MemArena) TryRealloc(b Block, newSize int) bool {
	start, end := a.bounds(b)
	if newSize <= 0 {
		panic("arena: realloc to non-positive size")
	}
	if end != a.hwm {
		return false
	}
	if start+newSize > len(a.buf) {
		return false
	}
	a.hwm = start + newSize
	return true
}

// Owns reports whether ptr lies inside the arena's range. Policies use it
// to route frees between an arena and a fallback store.
func (a *MemArena) Owns(ptr unsafe.Pointer) bool {
	if len(a.buf) == 0 {
		return false
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(a.buf)))
	return uintptr(ptr) >= base && uintptr(ptr) < base+uintptr(len(a.buf))
}

// Reset drops every allocation at once, pending frees included. Blocks
// issued before the reset must no longer be used.
func (a *MemArena) Reset() {
	a.hwm = 0
	a.pending = a.pending[:0]
}

// Release resets the arena and, if the range was carved from the default
// heap, returns it. The arena must not be used afterwards.
func (a *MemArena) Release() {
	a.Reset()
	a.buf = nil
	if !a.owned.IsNil() {
		defaultHeap.Free(a.owned)
		a.owned = Block{}
	}
}

// Used returns the number of bytes below the high water mark.
func (a *MemArena) Used() int { return a.hwm }

// Capacity returns the size of the arena's range in bytes.
func (a *MemArena) Capacity() int { return len(a.buf) }

// Remaining returns the number of bytes still available to Alloc.
func (a *MemArena) Remaining() int { return len(a.buf) - a.hwm }

// bounds validates that b is a live block of this arena and returns its
// offsets. Violations are caller bugs and panic.
func (a *MemArena) bounds(b Block) (start, end int) {
	if b.IsNil() {
		panic("arena: nil block")
	}
	if !a.Owns(b.Ptr) {
		panic("arena: block does not belong to this arena")
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(a.buf)))
	start = int(uintptr(b.Ptr) - base)
	end = start + b.Len
	if end > a.hwm {
		panic("arena: block out of bounds")
	}
	return start, end
}
