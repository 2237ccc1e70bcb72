package arena

import (
	"sync"
	"unsafe"

	"github.com/tidwall/hashmap"
)

// Heap hands out blocks backed by the Go heap. It is safe for concurrent
// use and supports no in-place resize.
//
// Raw pointers escape the garbage collector's view, so every live block's
// backing slice is pinned in a registry keyed by address until Free. The
// registry is also the only record of block ownership: Free of an address
// the heap never issued is a caller bug.
type Heap struct {
	mu     sync.Mutex
	blocks hashmap.Map[uintptr, []byte]
}

// defaultHeap backs DefaultAllocator and every heap fallback path.
var defaultHeap Heap

// Alloc returns a new block of n bytes, or an empty block if n <= 0.
// Running out of memory is fatal, never reported as an empty block.
func (h *Heap) Alloc(n int) Block {
	if n <= 0 {
		return Block{}
	}
	buf := make([]byte, n)
	ptr := unsafe.Pointer(&buf[0])

	h.mu.Lock()
	h.blocks.Set(uintptr(ptr), buf)
	h.mu.Unlock()

	return Block{Ptr: ptr, Len: n}
}

// Free releases a block previously returned by Alloc on this heap.
func (h *Heap) Free(b Block) {
	if b.IsNil() {
		panic("arena: heap free of nil block")
	}

	h.mu.Lock()
	buf, ok := h.blocks.Delete(uintptr(b.Ptr))
	h.mu.Unlock()

	if !ok {
		panic("arena: heap free of unknown block")
	}
	if len(buf) != b.Len {
		panic("arena: heap free size mismatch")
	}
}

// Len returns the number of live blocks.
func (h *Heap) Len() int {
	h.mu.Lock()
	n := h.blocks.Len()
	h.mu.Unlock()
	return n
}
