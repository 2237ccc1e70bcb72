//go:build unix

package arena

import "golang.org/x/sys/unix"

// osReserve claims size bytes of address space without backing them.
func osReserve(size int) []byte {
	buf, err := unix.Mmap(-1, 0, size, unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		panic("arena: vmem reserve failed: " + err.Error())
	}
	return buf
}

// osCommit backs a page-aligned sub-range of a reservation with memory.
func osCommit(mem []byte) {
	if err := unix.Mprotect(mem, unix.PROT_READ|unix.PROT_WRITE); err != nil {
		panic("arena: vmem commit failed: " + err.Error())
	}
}

// osRelease returns a reservation to the OS.
func osRelease(mem []byte) {
	if err := unix.Munmap(mem); err != nil {
		panic("arena: vmem release failed: " + err.Error())
	}
}
