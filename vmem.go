package arena

import (
	"os"
	"unsafe"
)

const (
	// DefaultReservedSize is the address space reserved by a VMemArena
	// when the caller does not pick a size (64 MB).
	DefaultReservedSize = 64 << 20

	// DefaultCommitSize is the commit increment (256 KB).
	DefaultCommitSize = 256 << 10
)

type vmemState uint8

const (
	vmemEmpty vmemState = iota // no reservation yet
	vmemReady
)

// VMemArena is a MemArena whose range grows on demand by committing pages
// inside a pre-reserved address span. Issued addresses never move: growth
// only commits more of the same reservation.
//
// The arena is lazy. Construction records sizes only; the reservation
// happens on the first Alloc. A failed reserve or commit is fatal.
type VMemArena struct {
	MemArena
	state        vmemState
	reserved     []byte // whole reservation, inaccessible past len(buf)
	reservedSize int
	commitSize   int
}

// NewVMemArena returns a lazy arena that will reserve reservedSize bytes
// of address space and commit them commitSize bytes at a time. Sizes <= 0
// pick the defaults. The zero value is equivalent to NewVMemArena(0, 0).
func NewVMemArena(reservedSize, commitSize int) *VMemArena {
	return &VMemArena{reservedSize: reservedSize, commitSize: commitSize}
}

// Alloc behaves like MemArena.Alloc with the committed prefix as capacity,
// committing further pages whenever the high water mark would pass it.
func (v *VMemArena) Alloc(size int) Block {
	if size <= 0 {
		return Block{}
	}
	if v.state == vmemEmpty {
		v.reserve()
	}
	if need := v.hwm + size; need > len(v.buf) {
		if need > len(v.reserved) {
			panic("arena: vmem reservation exhausted")
		}
		v.commit(need)
	}
	return v.MemArena.Alloc(size)
}

// TryRealloc behaves like MemArena.TryRealloc, committing further pages
// when growing the top-of-stack block past the committed prefix. Growth
// past the reservation fails.
func (v *VMemArena) TryRealloc(b Block, newSize int) bool {
	start, end := v.bounds(b)
	if end == v.hwm && newSize > 0 {
		if need := start + newSize; need > len(v.buf) {
			if need > len(v.reserved) {
				return false
			}
			v.commit(need)
		}
	}
	return v.MemArena.TryRealloc(b, newSize)
}

// Owns reports whether ptr lies inside the reservation.
func (v *VMemArena) Owns(ptr unsafe.Pointer) bool {
	if v.state == vmemEmpty {
		return false
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(v.reserved)))
	return uintptr(ptr) >= base && uintptr(ptr) < base+uintptr(len(v.reserved))
}

// Release unmaps the reservation and returns the arena to its lazy empty
// state. Every block issued so far becomes invalid.
func (v *VMemArena) Release() {
	if v.state == vmemEmpty {
		return
	}
	osRelease(v.reserved)
	v.reserved = nil
	v.buf = nil
	v.state = vmemEmpty
	v.Reset()
}

// Committed returns the size in bytes of the committed prefix.
func (v *VMemArena) Committed() int { return len(v.buf) }

// Reserved returns the size in bytes of the reservation, 0 while the
// arena is still empty.
func (v *VMemArena) Reserved() int { return len(v.reserved) }

// CommitSize returns the commit increment.
func (v *VMemArena) CommitSize() int { return v.commitSize }

func (v *VMemArena) reserve() {
	if v.reservedSize <= 0 {
		v.reservedSize = DefaultReservedSize
	}
	if v.commitSize <= 0 {
		v.commitSize = DefaultCommitSize
	}
	// Commits happen at page granularity.
	page := os.Getpagesize()
	v.commitSize = roundUp(v.commitSize, page)
	v.reservedSize = roundUp(v.reservedSize, v.commitSize)

	v.reserved = osReserve(v.reservedSize)
	v.buf = v.reserved[:0]
	v.state = vmemReady
}

// commit grows the committed prefix to cover at least need bytes, in
// commitSize multiples clamped to the reservation.
func (v *VMemArena) commit(need int) {
	committed := len(v.buf)
	target := roundUp(need, v.commitSize)
	if target > len(v.reserved) {
		target = len(v.reserved)
	}
	osCommit(v.reserved[committed:target])
	v.buf = v.reserved[:target]
}

func roundUp(n, step int) int {
	return (n + step - 1) / step * step
}
