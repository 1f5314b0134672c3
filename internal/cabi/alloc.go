package cabi

// #include <stdlib.h>
import "C"

import "unsafe"

// Allocator owns the memory handed across the boundary. Free receives the
// size that was passed to Alloc for the same pointer.
type Allocator interface {
	Alloc(size uintptr) unsafe.Pointer
	Free(p unsafe.Pointer, size uintptr)
}

// cHeap allocates with the C library's malloc, so a foreign caller can reason
// about the memory without knowing anything about the Go runtime.
type cHeap struct{}

func (cHeap) Alloc(size uintptr) unsafe.Pointer {
	// cgo's malloc wrapper aborts instead of returning nil.
	return C.malloc(C.size_t(size))
}

func (cHeap) Free(p unsafe.Pointer, _ uintptr) {
	C.free(p)
}

var allocator Allocator = cHeap{}

// CHeap returns the default allocator.
func CHeap() Allocator {
	return cHeap{}
}

// SetAllocator replaces the allocator used for every array and string and
// returns the previous one. Passing nil restores the C heap. It must not be
// called while records allocated by the previous allocator are still live.
func SetAllocator(a Allocator) Allocator {
	prev := allocator
	if a == nil {
		a = cHeap{}
	}
	allocator = a
	return prev
}
