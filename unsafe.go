package arena

import "unsafe"

// sizeOf is the in-memory size of T in bytes.
func sizeOf[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// blockOf rebuilds the Block for a live allocation of n elements at ptr.
func blockOf[T any](ptr *T, n int) Block {
	return Block{Ptr: unsafe.Pointer(ptr), Len: n * sizeOf[T]()}
}

// sliceOf views a live allocation of n elements at ptr as a slice.
func sliceOf[T any](ptr *T, n int) []T {
	if ptr == nil {
		return nil
	}
	return unsafe.Slice(ptr, n)
}
