package arena

import "unsafe"

// Allocator is the contract containers program against. Sizes are element
// counts; implementations convert to bytes internally.
//
// Free and TryRealloc must be called with a pointer and count exactly
// matching a still-live prior Allocate from the same instance. TryRealloc
// returning false leaves the block untouched: the caller then Allocates
// the new size, moves min(oldN, newN) elements itself and Frees the old
// block, keeping element move semantics in the container's hands.
type Allocator[T any] interface {
	Allocate(n int) *T
	Free(ptr *T, n int)
	TryRealloc(ptr *T, oldN, newN int) bool
}

// DefaultAllocator allocates from the heap. It never resizes in place, so
// every grow degrades to allocate-copy-free in the container.
type DefaultAllocator[T any] struct{}

func (DefaultAllocator[T]) Allocate(n int) *T {
	return (*T)(defaultHeap.Alloc(n * sizeOf[T]()).Ptr)
}

func (DefaultAllocator[T]) Free(ptr *T, n int) {
	defaultHeap.Free(blockOf(ptr, n))
}

func (DefaultAllocator[T]) TryRealloc(ptr *T, oldN, newN int) bool {
	if ptr == nil {
		panic("arena: realloc of nil pointer") // call Allocate instead
	}
	return false
}

// TempAllocator allocates from a Scratch region and silently falls back
// to the heap when the scratch runs out. Free and TryRealloc route each
// block to the store that issued it by address-range ownership; the
// container never tracks which store a block came from.
type TempAllocator[T any] struct {
	scratch *Scratch
}

// NewTempAllocator returns an allocator drawing from scratch. The scratch
// must outlive every block this allocator issues from it.
func NewTempAllocator[T any](scratch *Scratch) TempAllocator[T] {
	return TempAllocator[T]{scratch: scratch}
}

func (t TempAllocator[T]) Allocate(n int) *T {
	b := t.scratch.Arena().Alloc(n * sizeOf[T]())
	if !b.IsNil() {
		return (*T)(b.Ptr)
	}
	return DefaultAllocator[T]{}.Allocate(n)
}

func (t TempAllocator[T]) Free(ptr *T, n int) {
	if t.scratch.owns(unsafe.Pointer(ptr)) {
		t.scratch.arena.Free(blockOf(ptr, n))
		return
	}
	DefaultAllocator[T]{}.Free(ptr, n)
}

func (t TempAllocator[T]) TryRealloc(ptr *T, oldN, newN int) bool {
	if ptr == nil {
		panic("arena: realloc of nil pointer") // call Allocate instead
	}
	if t.scratch.owns(unsafe.Pointer(ptr)) {
		return t.scratch.arena.TryRealloc(blockOf(ptr, oldN), newN*sizeOf[T]())
	}
	return DefaultAllocator[T]{}.TryRealloc(ptr, oldN, newN)
}

// ArenaAllocator is a thin pass-through to a caller-supplied MemArena
// shared with other containers. There is no fallback store: exhausting
// the arena is fatal. The arena must outlive the allocator and every
// block it issued.
type ArenaAllocator[T any] struct {
	arena *MemArena
}

// NewArenaAllocator returns an allocator drawing from a.
func NewArenaAllocator[T any](a *MemArena) ArenaAllocator[T] {
	return ArenaAllocator[T]{arena: a}
}

func (a ArenaAllocator[T]) Allocate(n int) *T {
	b := a.arena.Alloc(n * sizeOf[T]())
	if b.IsNil() && n > 0 {
		panic("arena: shared arena exhausted")
	}
	return (*T)(b.Ptr)
}

func (a ArenaAllocator[T]) Free(ptr *T, n int) {
	a.arena.Free(blockOf(ptr, n))
}

func (a ArenaAllocator[T]) TryRealloc(ptr *T, oldN, newN int) bool {
	if ptr == nil {
		panic("arena: realloc of nil pointer") // call Allocate instead
	}
	return a.arena.TryRealloc(blockOf(ptr, oldN), newN*sizeOf[T]())
}

// Arena returns the shared arena.
func (a ArenaAllocator[T]) Arena() *MemArena { return a.arena }

// VMemAllocator owns a growable virtual-memory arena. The arena needs no
// out-of-order free slack: it is never shared between independent owners.
// The zero value is ready to use and reserves with default sizes on the
// first Allocate, so containers that stay empty never pay for a
// reservation.
type VMemAllocator[T any] struct {
	arena VMemArena
}

// NewVMemAllocator returns an allocator whose arena will reserve
// reservedSize bytes and commit commitSize bytes at a time. Sizes <= 0
// pick the defaults.
func NewVMemAllocator[T any](reservedSize, commitSize int) *VMemAllocator[T] {
	return &VMemAllocator[T]{
		arena: VMemArena{reservedSize: reservedSize, commitSize: commitSize},
	}
}

func (v *VMemAllocator[T]) Allocate(n int) *T {
	return (*T)(v.arena.Alloc(n * sizeOf[T]()).Ptr)
}

func (v *VMemAllocator[T]) Free(ptr *T, n int) {
	v.arena.Free(blockOf(ptr, n))
}

func (v *VMemAllocator[T]) TryRealloc(ptr *T, oldN, newN int) bool {
	if ptr == nil {
		panic("arena: realloc of nil pointer") // call Allocate instead
	}
	return v.arena.TryRealloc(blockOf(ptr, oldN), newN*sizeOf[T]())
}

// Arena returns the owned arena.
func (v *VMemAllocator[T]) Arena() *VMemArena { return &v.arena }

// Release unmaps the owned arena's reservation.
func (v *VMemAllocator[T]) Release() { v.arena.Release() }
