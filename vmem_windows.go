//go:build windows

package arena

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// osReserve claims size bytes of address space without backing them.
func osReserve(size int) []byte {
	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_RESERVE, windows.PAGE_NOACCESS)
	if err != nil {
		panic("arena: vmem reserve failed: " + err.Error())
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)
}

// osCommit backs a page-aligned sub-range of a reservation with memory.
func osCommit(mem []byte) {
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(mem)))
	if _, err := windows.VirtualAlloc(addr, uintptr(len(mem)), windows.MEM_COMMIT, windows.PAGE_READWRITE); err != nil {
		panic("arena: vmem commit failed: " + err.Error())
	}
}

// osRelease returns a reservation to the OS.
func osRelease(mem []byte) {
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(mem)))
	if err := windows.VirtualFree(addr, 0, windows.MEM_RELEASE); err != nil {
		panic("arena: vmem release failed: " + err.Error())
	}
}
