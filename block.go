package arena

import "unsafe"

// Block is a single live allocation: an address and a length in bytes.
// Ptr is nil if and only if Len is 0. A Block is produced by exactly one
// Alloc and consumed by exactly one Free (or a successful TryRealloc that
// replaces it).
type Block struct {
	Ptr unsafe.Pointer
	Len int
}

// IsNil reports whether the block is empty. Arenas return an empty block
// to signal exhaustion.
func (b Block) IsNil() bool {
	return b.Ptr == nil
}

// Bytes returns the block's memory as a byte slice.
func (b Block) Bytes() []byte {
	if b.Ptr == nil {
		return nil
	}
	return unsafe.Slice((*byte)(b.Ptr), b.Len)
}

func (b Block) end() uintptr {
	return uintptr(b.Ptr) + uintptr(b.Len)
}
