package cabi

import (
	"fmt"
	"unsafe"

	"github.com/Faultbox/objloader/pkg/encoding"
)

// CString copies s into a new NUL-terminated allocation. Strings containing a
// NUL byte cannot be represented and are rejected.
func CString(s string) (*byte, error) {
	if at, err := encoding.CheckNulTerminable(s); err != nil {
		return nil, fmt.Errorf("%w at offset %d", err, at)
	}
	n := len(s) + 1
	p := (*byte)(allocator.Alloc(uintptr(n)))
	buf := unsafe.Slice(p, n)
	copy(buf, s)
	buf[len(s)] = 0
	return p, nil
}

// GoString copies a NUL-terminated string into Go memory. nil yields "".
func GoString(p *byte) string {
	if p == nil {
		return ""
	}
	return string(unsafe.Slice(p, strlen(p)))
}

// FreeString releases a string allocated by CString.
func FreeString(p *byte) {
	if p == nil {
		return
	}
	allocator.Free(unsafe.Pointer(p), uintptr(strlen(p)+1))
}

func strlen(p *byte) int {
	n := 0
	for *(*byte)(unsafe.Add(unsafe.Pointer(p), n)) != 0 {
		n++
	}
	return n
}
