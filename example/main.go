package main

import (
	"fmt"
	"runtime"
	"time"
	"unsafe"

	arena "github.com/arenakit/arena"
)

func unsafeSlice[T any](ptr *T, n int) []T {
	return unsafe.Slice(ptr, n)
}

// vec is a minimal container written once against the Allocator contract.
// It works unmodified whichever policy backs it.
type vec[T any] struct {
	alloc arena.Allocator[T]
	ptr   *T
	len   int
	cap   int
}

func newVec[T any](alloc arena.Allocator[T]) *vec[T] {
	return &vec[T]{alloc: alloc}
}

func (v *vec[T]) push(x T) {
	if v.len == v.cap {
		newCap := max(v.cap*2, 8)
		if v.ptr == nil {
			v.ptr = v.alloc.Allocate(newCap)
		} else if !v.alloc.TryRealloc(v.ptr, v.cap, newCap) {
			// allocate-copy-free: element moves stay in the container's hands
			next := v.alloc.Allocate(newCap)
			copy(unsafeSlice(next, newCap), unsafeSlice(v.ptr, v.len))
			v.alloc.Free(v.ptr, v.cap)
			v.ptr = next
		}
		v.cap = newCap
	}
	unsafeSlice(v.ptr, v.cap)[v.len] = x
	v.len++
}

func (v *vec[T]) release() {
	if v.ptr != nil {
		v.alloc.Free(v.ptr, v.cap)
		v.ptr, v.len, v.cap = nil, 0, 0
	}
}

func main() {
	scratch := arena.NewScratch(1 << 20)
	defer scratch.Release()
	shared := arena.NewHeapArena(1<<20, arena.DefaultMaxPendingFrees)
	defer shared.Release()
	vmem := arena.NewVMemAllocator[int](0, 0)
	defer vmem.Release()

	run("default", newVec(arena.DefaultAllocator[int]{}), func() {})
	run("temp", newVec(arena.NewTempAllocator[int](scratch)), scratch.Reset)
	run("shared-arena", newVec(arena.NewArenaAllocator[int](shared)), shared.Reset)
	run("vmem", newVec(vmem), func() {})

	stat := vmem.Arena().Stats()
	data, _ := stat.JSON()
	fmt.Println("vmem arena:", string(data))
}

func run(name string, v *vec[int], drain func()) {
	start := time.Now()
	for i := 0; i < 100000; i++ {
		v.push(i)
	}
	v.release()
	drain()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	fmt.Printf("[%-12s] %8d pushes\t %6.2f ms\t heap: %d KB\n",
		name, 100000, float64(time.Since(start).Microseconds())/1000, mem.HeapAlloc/1024)
}
