package arena

import "unsafe"

// DefaultScratchSize is the default scratch arena capacity (64 KB).
const DefaultScratchSize = 64 * 1024

// Scratch is a per-goroutine scratch region for temporary allocations.
// TempAllocator draws from it first and falls back to the heap when it
// runs out. The backing arena is created on first use; the owning scope
// is expected to call Reset at its boundaries to drain it.
//
// A Scratch must never be shared across goroutines; it does no locking.
type Scratch struct {
	size  int
	slack int
	arena *MemArena
}

// NewScratch returns a scratch region of the given capacity. size <= 0
// picks DefaultScratchSize. No memory is allocated until first use.
func NewScratch(size int) *Scratch {
	if size <= 0 {
		size = DefaultScratchSize
	}
	return &Scratch{size: size, slack: DefaultMaxPendingFrees}
}

// Arena returns the backing arena, creating it on first call.
func (s *Scratch) Arena() *MemArena {
	if s.arena == nil {
		s.arena = NewHeapArena(s.size, s.slack)
	}
	return s.arena
}

// Reset drains the scratch region. Every block handed out from it so far
// becomes invalid; heap-fallback blocks are unaffected.
func (s *Scratch) Reset() {
	if s.arena != nil {
		s.arena.Reset()
	}
}

// Release drains the scratch region and returns its backing range to the
// heap. The Scratch is reusable; the next allocation recreates the arena.
func (s *Scratch) Release() {
	if s.arena != nil {
		s.arena.Release()
		s.arena = nil
	}
}

// owns reports whether ptr came from the scratch arena. False while the
// arena does not exist yet.
func (s *Scratch) owns(ptr unsafe.Pointer) bool {
	return s.arena != nil && s.arena.Owns(ptr)
}
