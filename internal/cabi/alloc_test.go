package cabi

import (
	"testing"
	"unsafe"
)

// trackingAllocator wraps the C heap and fails the test on double frees,
// frees of unknown pointers and size mismatches.
type trackingAllocator struct {
	t      *testing.T
	next   Allocator
	live   map[uintptr]uintptr
	allocs int
	frees  int
}

func (a *trackingAllocator) Alloc(size uintptr) unsafe.Pointer {
	p := a.next.Alloc(size)
	a.live[uintptr(p)] = size
	a.allocs++
	return p
}

func (a *trackingAllocator) Free(p unsafe.Pointer, size uintptr) {
	a.t.Helper()
	want, ok := a.live[uintptr(p)]
	if !ok {
		a.t.Fatalf("free of %p which is not live (double free?)", p)
	}
	if want != size {
		a.t.Errorf("free of %p with size %d, allocated %d", p, size, want)
	}
	delete(a.live, uintptr(p))
	a.frees++
	a.next.Free(p, size)
}

func (a *trackingAllocator) liveBytes() uintptr {
	var n uintptr
	for _, size := range a.live {
		n += size
	}
	return n
}

// trackAllocations installs a tracking allocator for the duration of the test
// and asserts at cleanup that everything was released.
func trackAllocations(t *testing.T) *trackingAllocator {
	t.Helper()
	tr := &trackingAllocator{t: t, next: CHeap(), live: make(map[uintptr]uintptr)}
	prev := SetAllocator(tr)
	t.Cleanup(func() {
		SetAllocator(prev)
		if len(tr.live) != 0 {
			t.Errorf("leaked %d allocations (%d bytes)", len(tr.live), tr.liveBytes())
		}
	})
	return tr
}

func TestSetAllocatorNilRestoresCHeap(t *testing.T) {
	tr := &trackingAllocator{t: t, next: CHeap(), live: make(map[uintptr]uintptr)}
	prev := SetAllocator(tr)
	if got := SetAllocator(nil); got != tr {
		t.Errorf("SetAllocator returned %v, want the tracking allocator", got)
	}
	if _, ok := allocator.(cHeap); !ok {
		t.Errorf("nil should restore the C heap, got %T", allocator)
	}
	SetAllocator(prev)
}
